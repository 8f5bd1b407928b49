package config

import (
	"errors"
	"time"
)

// PaymentConfig contains the Masumi payment service configuration.
type PaymentConfig struct {
	// ServiceURL is the base URL of the payment service.
	ServiceURL string `env:"PAYMENT_SERVICE_URL"`

	// APIKey authenticates requests against the payment service.
	APIKey string `env:"PAYMENT_API_KEY"`

	// AgentIdentifier is this agent's registered identifier.
	AgentIdentifier string `env:"AGENT_IDENTIFIER" envDefault:"linkedin-outreach-generator"`

	// SellerVKey is the seller's verification key on the payment network.
	SellerVKey string `env:"SELLER_VKEY"`

	// Amount and Unit are the fixed price of one job run.
	Amount string `env:"PAYMENT_AMOUNT" envDefault:"10000000"`
	Unit   string `env:"PAYMENT_UNIT" envDefault:"lovelace"`

	// Timeout bounds each individual payment service call.
	Timeout time.Duration `env:"PAYMENT_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to payment configuration values.
func (p *PaymentConfig) Sanitize() {
	if p.Timeout <= 0 {
		p.Timeout = 30 * time.Second
	}
}

// Validate checks the values without which no payment request can be created.
func (p *PaymentConfig) Validate() error {
	var errs []error
	if p.ServiceURL == "" {
		errs = append(errs, errors.New("PAYMENT_SERVICE_URL is required"))
	}
	if p.APIKey == "" {
		errs = append(errs, errors.New("PAYMENT_API_KEY is required"))
	}
	if p.SellerVKey == "" {
		errs = append(errs, errors.New("SELLER_VKEY is required"))
	}
	return errors.Join(errs...)
}
