package config

import "errors"

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - http.go: HTTP server configuration
//   - payment.go: Payment service configuration
//   - dispatch.go: Downstream webhook configuration
//   - monitor.go: Payment monitoring configuration
//   - store.go: Job store backend configuration
type AppConfig struct {
	// IsDev controls development mode behavior (verbose logging, etc.)
	IsDev bool `env:"DEV" envDefault:"false"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Payment service configuration
	Payment PaymentConfig

	// Downstream webhook configuration
	Dispatch DispatchConfig

	// Payment monitoring configuration
	Monitor MonitorConfig

	// Job store backend configuration
	Store StoreConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Payment.Sanitize()
	c.Dispatch.Sanitize()
	c.Monitor.Sanitize()
	c.Store.Sanitize()
}

// Validate checks that the configuration required to take paid jobs is
// present. Missing values here mean submissions could never succeed, so the
// process should refuse to start (or report unavailable) rather than accept
// jobs it cannot run.
func (c *AppConfig) Validate() error {
	var errs []error
	if err := c.Payment.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Dispatch.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Store.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
