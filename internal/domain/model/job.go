// Package model defines the core data types for the payment-gated job proxy.
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/errors"
)

// JobStatus represents the current position of a job in its lifecycle.
type JobStatus string

const (
	// JobStatusAwaitingPayment indicates the payment request was created and
	// the proxy is polling for on-chain confirmation.
	JobStatusAwaitingPayment JobStatus = "awaiting_payment"
	// JobStatusPaymentConfirmed indicates a qualifying payment was observed.
	JobStatusPaymentConfirmed JobStatus = "payment_confirmed"
	// JobStatusDispatching indicates the job input is being forwarded downstream.
	JobStatusDispatching JobStatus = "dispatching"
	// JobStatusCompleted indicates the downstream processor returned a result.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the payment service reported an unrecoverable
	// error or the dispatch retry budget was exhausted.
	JobStatusFailed JobStatus = "failed"
	// JobStatusTimedOut indicates no qualifying payment arrived before the
	// monitoring ceiling elapsed.
	JobStatusTimedOut JobStatus = "timed_out"
)

// transitions captures the only legal moves through the job state machine.
// Terminal states have no entries.
var transitions = map[JobStatus][]JobStatus{
	JobStatusAwaitingPayment:  {JobStatusPaymentConfirmed, JobStatusTimedOut, JobStatusFailed},
	JobStatusPaymentConfirmed: {JobStatusDispatching},
	JobStatusDispatching:      {JobStatusCompleted, JobStatusFailed},
}

// Valid returns true if the JobStatus is a known status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusAwaitingPayment, JobStatusPaymentConfirmed, JobStatusDispatching,
		JobStatusCompleted, JobStatusFailed, JobStatusTimedOut:
		return true
	}
	return false
}

// Terminal returns true if no further transition leaves this status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusTimedOut
}

// CanTransitionTo returns true if the state machine permits moving from s to next.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// InputItem is a single key/value pair of job input.
type InputItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// InputData is the ordered sequence of key/value pairs passed verbatim to the
// downstream processor.
type InputData []InputItem

// Map flattens the input into a key→value map, last entry winning on
// duplicate keys. Order is only meaningful on the wire; downstream payloads
// are keyed objects.
func (d InputData) Map() map[string]string {
	m := make(map[string]string, len(d))
	for _, item := range d {
		m[item.Key] = item.Value
	}
	return m
}

// JobError is the structured failure reason recorded on failed or timed out jobs.
type JobError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Job represents one payment-gated unit of work tracked from submission to a
// terminal outcome. Job state lives in process memory only and does not
// survive a restart of the proxy (the default store backend; see the store
// documentation).
type Job struct {
	ID           string          `json:"job_id"`
	PurchaserID  string          `json:"identifier_from_purchaser"`
	InputData    InputData       `json:"input_data"`
	Status       JobStatus       `json:"status"`
	PaymentAddr  string          `json:"payment_address"`
	Amount       string          `json:"required_amount"`
	Unit         string          `json:"payment_unit"`
	BlockchainID string          `json:"blockchain_identifier"`
	Result       json.RawMessage `json:"result,omitempty"`
	Error        *JobError       `json:"error,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// NewJob allocates a job in its initial state with a fresh identifier.
func NewJob(purchaserID string, input InputData) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:          uuid.NewString(),
		PurchaserID: purchaserID,
		InputData:   append(InputData(nil), input...),
		Status:      JobStatusAwaitingPayment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Transition moves the job to the next status, enforcing the state machine.
// Terminal transitions record the completion time. The caller supplies result
// or error via the dedicated helpers; Transition never touches them.
func (j *Job) Transition(next JobStatus) error {
	if !j.Status.CanTransitionTo(next) {
		return apperrors.InvalidTransitionf("job %s: illegal transition %s -> %s", j.ID, j.Status, next)
	}
	j.Status = next
	now := time.Now().UTC()
	j.UpdatedAt = now
	if next.Terminal() {
		j.CompletedAt = &now
	}
	return nil
}

// Complete transitions the job to completed and records the downstream result.
func (j *Job) Complete(result json.RawMessage) error {
	if err := j.Transition(JobStatusCompleted); err != nil {
		return err
	}
	j.Result = append(json.RawMessage(nil), result...)
	return nil
}

// Fail transitions the job to failed and records the structured reason.
func (j *Job) Fail(code, message string) error {
	if err := j.Transition(JobStatusFailed); err != nil {
		return err
	}
	j.Error = &JobError{Code: code, Message: message}
	return nil
}

// TimeOut transitions the job to timed_out and records the structured reason.
func (j *Job) TimeOut(message string) error {
	if err := j.Transition(JobStatusTimedOut); err != nil {
		return err
	}
	j.Error = &JobError{Code: string(apperrors.ErrCodePaymentTimeout), Message: message}
	return nil
}

// Clone returns a deep copy of the job. Stores hand out clones so concurrent
// readers never observe a job mid-transition.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	c := *j
	c.InputData = append(InputData(nil), j.InputData...)
	c.Result = append(json.RawMessage(nil), j.Result...)
	if j.Error != nil {
		e := *j.Error
		c.Error = &e
	}
	if j.CompletedAt != nil {
		ts := *j.CompletedAt
		c.CompletedAt = &ts
	}
	return &c
}

// StartJobRequest is the submission payload accepted by the proxy.
type StartJobRequest struct {
	IdentifierFromPurchaser string    `json:"identifier_from_purchaser"`
	InputData               InputData `json:"input_data"`
}

// Validate validates the StartJobRequest fields.
func (r *StartJobRequest) Validate() error {
	if r.IdentifierFromPurchaser == "" {
		return apperrors.ValidationField("identifier_from_purchaser", "identifier_from_purchaser is required")
	}
	if len(r.InputData) == 0 {
		return apperrors.ValidationField("input_data", "input_data must contain at least one entry")
	}
	for _, item := range r.InputData {
		if item.Key == "" {
			return apperrors.ValidationField("input_data", "input_data keys must not be empty")
		}
	}
	return nil
}

// JobStatusResponse is the polling view of a job returned by the status endpoint.
type JobStatusResponse struct {
	JobID       string          `json:"job_id"`
	Status      JobStatus       `json:"status"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       *JobError       `json:"error,omitempty"`
	Message     string          `json:"message"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// StatusResponse projects the job into its polling view.
func (j *Job) StatusResponse() JobStatusResponse {
	return JobStatusResponse{
		JobID:       j.ID,
		Status:      j.Status,
		Result:      j.Result,
		Error:       j.Error,
		Message:     j.statusMessage(),
		CreatedAt:   j.CreatedAt,
		CompletedAt: j.CompletedAt,
	}
}

// statusMessage renders a human-readable line for pollers alongside the
// machine-readable status and error fields.
func (j *Job) statusMessage() string {
	switch {
	case j.Status == JobStatusCompleted:
		return "Job completed"
	case j.Error != nil && j.Error.Message != "":
		return j.Error.Message
	case j.Status == JobStatusAwaitingPayment:
		return "Awaiting payment"
	default:
		return "Job in progress"
	}
}
