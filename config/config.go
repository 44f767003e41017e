// Package config loads framesrc settings from defaults, an optional config
// file, FRAMESRC_* environment variables and command-line flags, in rising
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lukemcguire/framesrc/logging"
)

const (
	envPrefix  = "FRAMESRC"
	configName = "framesrc"
	appDirName = "framesrc"
)

// Config is the complete framesrc configuration.
type Config struct {
	Logging logging.Config `mapstructure:"logging"`
	Names   NamesConfig    `mapstructure:"names"`
	Frames  FramesConfig   `mapstructure:"frames"`
	Scan    ScanConfig     `mapstructure:"scan"`
}

// NamesConfig configures the names command.
type NamesConfig struct {
	Format string `mapstructure:"format"`
	Unique bool   `mapstructure:"unique"`
	Base   string `mapstructure:"base"`
}

// FramesConfig configures the frames command.
type FramesConfig struct {
	ShowFunction bool `mapstructure:"show_function"`
	ShowHost     bool `mapstructure:"show_host"`
}

// ScanConfig configures the scan command.
type ScanConfig struct {
	Concurrency    int           `mapstructure:"concurrency"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	TargetRTT      time.Duration `mapstructure:"target_rtt"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Retries        int           `mapstructure:"retries"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"`
	MaxRetryDelay  time.Duration `mapstructure:"max_retry_delay"`
	UserAgent      string        `mapstructure:"user_agent"`
	MemoryLimitMB  int64         `mapstructure:"memory_limit_mb"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	Format         string        `mapstructure:"format"`
	NoTUI          bool          `mapstructure:"no_tui"`
}

// Manager wraps a viper instance configured for framesrc.
type Manager struct {
	viper *viper.Viper
}

// NewManager creates a Manager. When configFile is empty the file
// framesrc.{yaml,json,toml} is searched for in the user config directory and
// the working directory, and its absence is not an error.
func NewManager(configFile string) *Manager {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appDirName))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	m := &Manager{viper: v}
	m.setDefaults()
	return m
}

// BindFlag makes flag override key whenever the flag was set explicitly.
func (m *Manager) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("bind %s: flag not defined", key)
	}
	if err := m.viper.BindPFlag(key, flag); err != nil {
		return fmt.Errorf("bind %s to --%s: %w", key, flag.Name, err)
	}
	return nil
}

// ConfigFileUsed returns the path of the file that was read, if any.
func (m *Manager) ConfigFileUsed() string {
	return m.viper.ConfigFileUsed()
}

// Load reads the config file, applies the environment and bound flags, and
// validates the result.
func (m *Manager) Load() (*Config, error) {
	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file %s: %w", m.viper.ConfigFileUsed(), err)
		}
	}

	cfg := &Config{}
	if err := m.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Load is a shortcut for NewManager(configFile).Load().
func Load(configFile string) (*Config, error) {
	return NewManager(configFile).Load()
}
