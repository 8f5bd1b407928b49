// Package core defines the ports between the job lifecycle orchestrator and
// its collaborators: the job store, the Masumi payment service, and the
// downstream webhook.
package core

import (
	"context"
	"encoding/json"

	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/domain/model"
)

// This file contains the port interfaces (hexagonal architecture). The service
// layer depends on these contracts, never on concrete implementations.

// JobMutator applies a state transition to a job inside JobStore.Update. It
// must validate the job's current state and return an error to reject the
// update; a rejected update leaves the stored job untouched.
type JobMutator func(job *model.Job) error

// JobStore defines the interface for job state persistence. Implementations
// must be safe for arbitrary concurrent callers and must hand out snapshot
// copies so readers never observe a job mid-transition.
type JobStore interface {
	// Create inserts a new job. Returns a conflict error if the id is taken.
	Create(ctx context.Context, job *model.Job) error
	// Get returns a snapshot of the job, or a not-found error.
	Get(ctx context.Context, id string) (*model.Job, error)
	// Update applies mutate atomically against the current stored job and
	// returns the resulting snapshot. If mutate returns an error the stored
	// job keeps its prior state and the error is returned unchanged.
	Update(ctx context.Context, id string, mutate JobMutator) (*model.Job, error)
}

// PaymentDetails is the payment service's answer to a payment request: where
// to pay, how much, and the identifier used to poll for confirmation.
type PaymentDetails struct {
	Address      string
	Amount       string
	Unit         string
	BlockchainID string
}

// PaymentState is a point-in-time view of a payment's confirmation status.
type PaymentState struct {
	// Confirmed is true once the payment service reports the payment as paid.
	Confirmed bool
	// ObservedAmount is the cumulative amount observed on-chain, in the
	// payment unit. May be empty when the service omits it.
	ObservedAmount string
}

// PaymentClient defines the boundary to the external payment service.
type PaymentClient interface {
	// CreatePaymentRequest registers a payment request for a submission and
	// returns the payment details. Failures here abort job creation.
	CreatePaymentRequest(ctx context.Context, purchaserID string, input model.InputData) (*PaymentDetails, error)
	// CheckPayment polls the confirmation state of a payment. It is
	// side-effect free. Transient failures are reported as unavailable
	// errors so the monitoring loop can distinguish them from a definitive
	// "not yet paid" answer.
	CheckPayment(ctx context.Context, blockchainID string) (*PaymentState, error)
}

// Dispatcher defines the boundary to the downstream processor invoked after
// payment confirmation.
type Dispatcher interface {
	// Dispatch forwards the job input downstream and returns the raw result
	// payload. One call is one attempt-bounded dispatch; the implementation
	// owns its retry budget.
	Dispatch(ctx context.Context, job *model.Job) (json.RawMessage, error)
}
