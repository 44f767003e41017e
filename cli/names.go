package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lukemcguire/framesrc/dedup"
	"github.com/lukemcguire/framesrc/result"
	"github.com/lukemcguire/framesrc/sourceutil"
)

func newNamesCommand(a *app) *cobra.Command {
	var showMetrics bool

	cmd := &cobra.Command{
		Use:   "names [source...]",
		Short: "Resolve source identifiers to short, long and host names",
		Long: `Resolve each source identifier to the names a debugger displays for it.

Sources are taken from the arguments, or one per line from stdin when no
arguments are given. Blank lines are skipped.

Examples:
  framesrc names https://example.com/js/app.js?v=2
  framesrc names 'data:text/javascript,alert(1)' Scratchpad/1 self-hosted
  framesrc names --format json < sources.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := readSources(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			reports, err := a.resolveNames(sources)
			if err != nil {
				return err
			}

			if err := writeReports(cmd.OutOrStdout(), a.cfg.Names.Format, reports); err != nil {
				return err
			}

			if showMetrics {
				return writeMetrics(cmd.ErrOrStderr(), a)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringP("format", "f", "text", "output format: text, json or csv")
	flags.BoolP("unique", "u", false, "report each distinct source once")
	flags.String("base", "", "resolve relative sources against this URL")
	flags.BoolVar(&showMetrics, "metrics", false, "print locator cache metrics to stderr")
	bindConfigKey(flags, "format", "names.format")
	bindConfigKey(flags, "unique", "names.unique")
	bindConfigKey(flags, "base", "names.base")

	return cmd
}

// resolveNames builds a report per source, applying --base and --unique.
func (a *app) resolveNames(sources []string) ([]result.SourceReport, error) {
	var seen *dedup.Tracker
	if a.cfg.Names.Unique {
		tracker, err := dedup.NewTracker(uint(len(sources)), 0)
		if err != nil {
			return nil, fmt.Errorf("create dedup tracker: %w", err)
		}
		defer tracker.Close()
		seen = tracker
	}

	reports := make([]result.SourceReport, 0, len(sources))
	for _, source := range sources {
		if base := a.cfg.Names.Base; base != "" {
			resolved, err := sourceutil.ResolveReference(base, source)
			if err != nil {
				a.logger.Debug("Keeping unresolvable source", zap.String("source", source), zap.Error(err))
			} else {
				source = resolved
			}
		}
		if seen != nil && !seen.AddIfNew(source) {
			continue
		}
		reports = append(reports, result.NewSourceReport(a.locator, source, ""))
	}
	return reports, nil
}

// readSources returns args, or the non-blank lines of r when args is empty.
func readSources(r io.Reader, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	var sources []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16<<20)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		sources = append(sources, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}
	return sources, nil
}

func writeReports(w io.Writer, format string, reports []result.SourceReport) error {
	switch format {
	case "json":
		return result.WriteJSON(w, reports)
	case "csv":
		return result.WriteCSV(w, reports)
	case "text":
		result.PrintReports(w, reports)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// writeMetrics dumps the locator metrics in the Prometheus text format.
func writeMetrics(w io.Writer, a *app) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("write metric %s: %w", family.GetName(), err)
		}
	}
	return nil
}
