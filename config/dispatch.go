package config

import (
	"errors"
	"time"
)

// DispatchConfig contains the downstream Make.com webhook configuration.
type DispatchConfig struct {
	// WebhookURL is the Make.com scenario webhook that runs the job.
	WebhookURL string `env:"MAKE_WEBHOOK_URL"`

	// Timeout bounds a single webhook call. Make.com scenarios can run for
	// minutes, so this is deliberately generous.
	Timeout time.Duration `env:"MAKE_WEBHOOK_TIMEOUT" envDefault:"5m"`

	// RetryLimit is the number of retries after the first attempt for
	// transient webhook failures.
	RetryLimit int `env:"MAKE_WEBHOOK_RETRY_LIMIT" envDefault:"2"`

	// RetryBackoff is the base delay between webhook retries.
	RetryBackoff time.Duration `env:"MAKE_WEBHOOK_RETRY_BACKOFF" envDefault:"1s"`
}

// Sanitize applies guardrails to dispatch configuration values.
func (d *DispatchConfig) Sanitize() {
	if d.Timeout <= 0 {
		d.Timeout = 5 * time.Minute
	}
	if d.RetryLimit < 0 {
		d.RetryLimit = 0
	}
	if d.RetryBackoff <= 0 {
		d.RetryBackoff = time.Second
	}
}

// Validate checks the values without which no job can be dispatched.
func (d *DispatchConfig) Validate() error {
	if d.WebhookURL == "" {
		return errors.New("MAKE_WEBHOOK_URL is required")
	}
	return nil
}
