package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lukemcguire/framesrc/logging"
)

var outputFormats = []string{"text", "json", "csv"}

// Validate checks the configuration for values no command can use.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("logging.format: must be console or json, got %q", c.Logging.Format))
	}
	if !slices.Contains(outputFormats, c.Names.Format) {
		errs = append(errs, fmt.Errorf("names.format: must be one of %v, got %q", outputFormats, c.Names.Format))
	}
	if !slices.Contains(outputFormats, c.Scan.Format) {
		errs = append(errs, fmt.Errorf("scan.format: must be one of %v, got %q", outputFormats, c.Scan.Format))
	}
	if c.Scan.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("scan.concurrency: must be at least 1, got %d", c.Scan.Concurrency))
	}
	if c.Scan.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("scan.rate_limit: must be positive, got %v", c.Scan.RateLimit))
	}
	if c.Scan.Retries < 0 {
		errs = append(errs, fmt.Errorf("scan.retries: must not be negative, got %d", c.Scan.Retries))
	}
	if c.Scan.TargetRTT < 0 || c.Scan.RequestTimeout < 0 || c.Scan.RetryDelay < 0 || c.Scan.MaxRetryDelay < 0 {
		errs = append(errs, errors.New("scan: durations must not be negative"))
	}
	if c.Scan.MemoryLimitMB < 0 {
		errs = append(errs, fmt.Errorf("scan.memory_limit_mb: must not be negative, got %d", c.Scan.MemoryLimitMB))
	}

	return errors.Join(errs...)
}
