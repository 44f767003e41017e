package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lukemcguire/framesrc/config"
	"github.com/lukemcguire/framesrc/logging"
	"github.com/lukemcguire/framesrc/result"
	"github.com/lukemcguire/framesrc/scanner"
	"github.com/lukemcguire/framesrc/tui"
)

func newScanCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan url...",
		Short: "Inventory the scripts loaded by web pages",
		Long: `Fetch each page, extract its <script src> and module preload references,
and classify every distinct source. robots.txt is honoured and requests are
paced by an adaptive rate limiter.

The text format shows a live progress view followed by a summary; json and csv
print the source reports, and json also writes failed pages to stderr as a JSON
array. The command exits with status 1 when any page
could not be scanned.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, raw := range args {
				if err := validatePageURL(raw); err != nil {
					return err
				}
			}

			res, err := a.runScan(cmd, args)
			if err != nil {
				return err
			}
			if len(res.Errors) > 0 {
				return ErrPagesFailed
			}
			return nil
		},
	}

	flags := cmd.Flags()
	defaults := config.DefaultConfig().Scan
	flags.Int("concurrency", defaults.Concurrency, "number of concurrent workers")
	flags.Float64("rate-limit", defaults.RateLimit, "initial pages per second")
	flags.Duration("target-rtt", defaults.TargetRTT, "response time the rate limiter steers towards (0 fixes the rate)")
	flags.Duration("timeout", defaults.RequestTimeout, "per-request timeout")
	flags.Int("retries", defaults.Retries, "number of retries for transient errors")
	flags.Duration("retry-delay", defaults.RetryDelay, "base delay between retries")
	flags.String("user-agent", defaults.UserAgent, "user agent string")
	flags.Int64("memory-limit", defaults.MemoryLimitMB, "heap budget in MB to warn against (0 disables)")
	flags.StringP("format", "f", defaults.Format, "output format: text, json or csv")
	flags.Bool("no-tui", defaults.NoTUI, "print plain text instead of the interactive view")

	for name, key := range map[string]string{
		"concurrency":  "scan.concurrency",
		"rate-limit":   "scan.rate_limit",
		"target-rtt":   "scan.target_rtt",
		"timeout":      "scan.request_timeout",
		"retries":      "scan.retries",
		"retry-delay":  "scan.retry_delay",
		"user-agent":   "scan.user_agent",
		"memory-limit": "scan.memory_limit_mb",
		"format":       "scan.format",
		"no-tui":       "scan.no_tui",
	} {
		bindConfigKey(flags, name, key)
	}

	return cmd
}

func validatePageURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("invalid URL %q: must start with http:// or https://", raw)
	}
	return nil
}

// scannerConfig maps the scan settings onto a scanner configuration.
func scannerConfig(cfg config.ScanConfig, pages []string) scanner.Config {
	return scanner.Config{
		Pages:          pages,
		Concurrency:    cfg.Concurrency,
		RequestTimeout: cfg.RequestTimeout,
		RateLimit:      cfg.RateLimit,
		TargetRTT:      cfg.TargetRTT,
		UserAgent:      cfg.UserAgent,
		RetryPolicy: scanner.RetryPolicy{
			MaxRetries: cfg.Retries,
			BaseDelay:  cfg.RetryDelay,
			MaxDelay:   cfg.MaxRetryDelay,
		},
		MemoryLimitMB: cfg.MemoryLimitMB,
		MaxBodyBytes:  cfg.MaxBodyBytes,
	}
}

func (a *app) runScan(cmd *cobra.Command, pages []string) (*result.Result, error) {
	scanCfg := a.cfg.Scan
	interactive := scanCfg.Format == "text" && !scanCfg.NoTUI

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	var progressCh chan scanner.Event
	if interactive {
		progressCh = make(chan scanner.Event, 100)
	}

	logger := logging.FromContext(cmd.Context())
	s, err := scanner.New(scannerConfig(scanCfg, pages), a.locator, logger.Named("scanner"), progressCh)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			logger.Warn("Close scanner", zap.Error(closeErr))
		}
	}()

	if interactive {
		return runInteractive(ctx, cancel, s, progressCh, cmd.OutOrStdout())
	}

	res, err := s.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if err := writeScanResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), scanCfg.Format, res); err != nil {
		return nil, err
	}
	return res, nil
}

func runInteractive(ctx context.Context, cancel context.CancelFunc, runner tui.Runner, progressCh chan scanner.Event, out io.Writer) (*result.Result, error) {
	model := tui.NewModel(ctx, cancel, runner, progressCh)
	finalModel, err := tea.NewProgram(model, tea.WithOutput(out)).Run()
	if err != nil {
		return nil, fmt.Errorf("run progress view: %w", err)
	}

	final, ok := finalModel.(tui.Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", finalModel)
	}
	if final.Err() != nil {
		return nil, final.Err()
	}
	if final.GetResult() == nil {
		return nil, fmt.Errorf("scan: %w", context.Canceled)
	}
	return final.GetResult(), nil
}

func writeScanResult(w, errW io.Writer, format string, res *result.Result) error {
	if format == "text" {
		result.PrintResults(w, res)
		return nil
	}
	if err := writeReports(w, format, res.Sources); err != nil {
		return err
	}
	if format == "json" && len(res.Errors) > 0 {
		return result.WriteErrorsJSON(errW, res.Errors)
	}
	return nil
}
