// Package httpx provides the HTTP surface of the payment-gated job proxy.
package httpx

import (
	"errors"
	"net/http"
	"time"

	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/domain/model"
	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/service"
)

// JobHandlers provides HTTP handlers for job submission and polling.
type JobHandlers struct {
	Svc *service.JobService
}

// StartJobResponse is returned from POST /start_job: the payment details the
// purchaser needs to complete the job's payment.
type StartJobResponse struct {
	Status       string    `json:"status"`
	JobID        string    `json:"job_id"`
	Message      string    `json:"message"`
	PaymentAddr  string    `json:"payment_address"`
	Amount       string    `json:"required_amount"`
	Unit         string    `json:"payment_unit"`
	BlockchainID string    `json:"blockchain_identifier"`
	CreatedAt    time.Time `json:"created_at"`
}

// StartJob handles POST /start_job: it registers a payment request and
// returns the payment details. The job itself runs only after payment is
// confirmed on chain.
func (h *JobHandlers) StartJob(w http.ResponseWriter, r *http.Request) {
	var req model.StartJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		RenderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, StartJobResponse{
		Status:       "success",
		JobID:        job.ID,
		Message:      "Payment request created. Please send payment to proceed.",
		PaymentAddr:  job.PaymentAddr,
		Amount:       job.Amount,
		Unit:         job.Unit,
		BlockchainID: job.BlockchainID,
		CreatedAt:    job.CreatedAt,
	})
}

// Status handles GET /status?job_id=...: the polling view of a job.
func (h *JobHandlers) Status(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_query",
			Err:     errors.New("job_id query parameter is required"),
		})
		return
	}

	job, err := h.Svc.Status(r.Context(), jobID)
	if err != nil {
		RenderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, job.StatusResponse())
}
