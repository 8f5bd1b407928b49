package config

import "time"

// MonitorConfig contains payment monitoring configuration.
type MonitorConfig struct {
	// PollInterval is the delay between payment status checks.
	PollInterval time.Duration `env:"PAYMENT_POLL_INTERVAL" envDefault:"5s"`

	// PollTimeout is the ceiling after which an unpaid job times out.
	PollTimeout time.Duration `env:"PAYMENT_POLL_TIMEOUT" envDefault:"5m"`
}

// Sanitize applies guardrails to monitor configuration values.
func (m *MonitorConfig) Sanitize() {
	if m.PollInterval <= 0 {
		m.PollInterval = 5 * time.Second
	}
	if m.PollTimeout <= 0 {
		m.PollTimeout = 5 * time.Minute
	}
	if m.PollTimeout < m.PollInterval {
		m.PollTimeout = m.PollInterval
	}
}
