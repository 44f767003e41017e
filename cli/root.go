// Package cli wires the framesrc commands together: configuration, logging,
// the shared source locator and its metrics registry.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/lukemcguire/framesrc/config"
	"github.com/lukemcguire/framesrc/logging"
	"github.com/lukemcguire/framesrc/sourceutil"
)

// configKeyAnnotation marks flags that override a configuration key.
const configKeyAnnotation = "framesrc_config_key"

// ErrPagesFailed is returned by scan when at least one page failed. The
// failures have already been reported, so it only sets the exit status.
var ErrPagesFailed = errors.New("some pages could not be scanned")

// app holds the state shared by every command once flags are parsed.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
	registry   *prometheus.Registry
	locator    *sourceutil.Locator
}

// NewRootCommand builds the framesrc command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "framesrc",
		Short: "Classify script source locations and derive their display names",
		Long: `framesrc turns the source identifiers that appear in JavaScript stack
frames (URLs, data URIs, chrome:// and resource:// paths, Scratchpad buffers,
internal names like "self-hosted") into the short, long and host names a
debugger shows next to a frame.

Use 'framesrc names' to resolve identifiers, 'framesrc frames' to label a stack
trace and 'framesrc scan' to inventory the scripts a set of pages load.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: framesrc.{yaml,toml,json} in the user config dir or working dir)")
	flags.String("log-level", logging.DefaultLevel, "log level: debug, info, warn, error")
	flags.String("log-format", logging.DefaultFormat, "log format: console or json")
	bindConfigKey(flags, "log-level", "logging.level")
	bindConfigKey(flags, "log-format", "logging.format")

	root.AddCommand(
		newNamesCommand(a),
		newFramesCommand(a),
		newScanCommand(a),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		if !errors.Is(err, ErrPagesFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// setup loads the configuration, builds the logger and the locator.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	manager := config.NewManager(a.configFile)

	var bindErr error
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if keys := flag.Annotations[configKeyAnnotation]; len(keys) == 1 {
			bindErr = errors.Join(bindErr, manager.BindFlag(keys[0], flag))
		}
	})
	if bindErr != nil {
		return bindErr
	}

	cfg, err := manager.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	if used := manager.ConfigFileUsed(); used != "" {
		logger.Debug("Loaded config file", zap.String("path", used))
	}

	a.cfg = cfg
	a.logger = logger
	a.registry = prometheus.NewRegistry()
	a.locator = sourceutil.NewLocator(
		sourceutil.WithLogger(logger.Named("locator")),
		sourceutil.WithRegisterer(a.registry),
	)
	cmd.SetContext(logging.WithContext(cmd.Context(), logger))
	return nil
}

// bindConfigKey annotates flag name so that setup binds it to key.
func bindConfigKey(flags *pflag.FlagSet, name, key string) {
	if err := flags.SetAnnotation(name, configKeyAnnotation, []string{key}); err != nil {
		panic(fmt.Sprintf("annotate flag %s: %v", name, err))
	}
}
