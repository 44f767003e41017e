package config

import (
	"time"

	"github.com/lukemcguire/framesrc/logging"
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: logging.Config{
			Level:  logging.DefaultLevel,
			Format: logging.DefaultFormat,
		},
		Names: NamesConfig{
			Format: "text",
		},
		Scan: ScanConfig{
			Concurrency:    8,
			RateLimit:      10,
			TargetRTT:      500 * time.Millisecond,
			RequestTimeout: 10 * time.Second,
			Retries:        2,
			RetryDelay:     time.Second,
			MaxRetryDelay:  30 * time.Second,
			UserAgent:      "framesrc/1.0 (+https://github.com/lukemcguire/framesrc)",
			MemoryLimitMB:  512,
			MaxBodyBytes:   10 << 20,
			Format:         "text",
		},
	}
}

func (m *Manager) setDefaults() {
	defaults := DefaultConfig()
	m.setLoggingDefaults(defaults)
	m.setNamesDefaults(defaults)
	m.setFramesDefaults(defaults)
	m.setScanDefaults(defaults)
}

func (m *Manager) setLoggingDefaults(defaults *Config) {
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.output_paths", []string{"stderr"})
}

func (m *Manager) setNamesDefaults(defaults *Config) {
	m.viper.SetDefault("names.format", defaults.Names.Format)
	m.viper.SetDefault("names.unique", defaults.Names.Unique)
	m.viper.SetDefault("names.base", defaults.Names.Base)
}

func (m *Manager) setFramesDefaults(defaults *Config) {
	m.viper.SetDefault("frames.show_function", defaults.Frames.ShowFunction)
	m.viper.SetDefault("frames.show_host", defaults.Frames.ShowHost)
}

func (m *Manager) setScanDefaults(defaults *Config) {
	m.viper.SetDefault("scan.concurrency", defaults.Scan.Concurrency)
	m.viper.SetDefault("scan.rate_limit", defaults.Scan.RateLimit)
	m.viper.SetDefault("scan.target_rtt", defaults.Scan.TargetRTT)
	m.viper.SetDefault("scan.request_timeout", defaults.Scan.RequestTimeout)
	m.viper.SetDefault("scan.retries", defaults.Scan.Retries)
	m.viper.SetDefault("scan.retry_delay", defaults.Scan.RetryDelay)
	m.viper.SetDefault("scan.max_retry_delay", defaults.Scan.MaxRetryDelay)
	m.viper.SetDefault("scan.user_agent", defaults.Scan.UserAgent)
	m.viper.SetDefault("scan.memory_limit_mb", defaults.Scan.MemoryLimitMB)
	m.viper.SetDefault("scan.max_body_bytes", defaults.Scan.MaxBodyBytes)
	m.viper.SetDefault("scan.format", defaults.Scan.Format)
	m.viper.SetDefault("scan.no_tui", defaults.Scan.NoTUI)
}
