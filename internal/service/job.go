// Package service contains the job lifecycle orchestrator: it creates jobs,
// drives each one through its state machine with a per-job monitoring
// goroutine, and mediates all reads and writes of job state.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/core"
	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/domain/model"
)

// MonitorConfig bounds the payment monitoring loop.
type MonitorConfig struct {
	// PollInterval is the fixed delay between payment status checks.
	PollInterval time.Duration
	// PollTimeout is the hard ceiling after which an unpaid job times out.
	PollTimeout time.Duration
}

const (
	defaultPollInterval = 5 * time.Second
	defaultPollTimeout  = 5 * time.Minute
)

func (c *MonitorConfig) sanitize() {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = defaultPollTimeout
	}
}

// JobServiceOptions groups dependencies for JobService.
type JobServiceOptions struct {
	Store      core.JobStore      // Required: job state persistence
	Payments   core.PaymentClient // Required: payment service boundary
	Dispatcher core.Dispatcher    // Required: downstream webhook boundary
	Monitor    MonitorConfig      // Optional: poll interval/ceiling, defaulted
	Logger     *slog.Logger       // Optional: structured logger
}

// JobService orchestrates the job lifecycle.
//
// Ownership model: the service is the only writer of job state. Each job gets
// exactly one monitoring goroutine, started at creation, which owns the job's
// write path until a terminal state. Status queries are read-only snapshots
// and can run concurrently with anything.
type JobService struct {
	store      core.JobStore
	payments   core.PaymentClient
	dispatcher core.Dispatcher
	monitor    MonitorConfig
	logger     *slog.Logger

	// monitorCtx outlives individual requests; Shutdown cancels it.
	monitorCtx    context.Context
	cancelMonitor context.CancelFunc
	wg            sync.WaitGroup
}

// NewJobService constructs a new JobService.
func NewJobService(opts JobServiceOptions) (*JobService, error) {
	if opts.Store == nil {
		return nil, errors.New("JobStore is required")
	}
	if opts.Payments == nil {
		return nil, errors.New("PaymentClient is required")
	}
	if opts.Dispatcher == nil {
		return nil, errors.New("Dispatcher is required")
	}

	monitor := opts.Monitor
	monitor.sanitize()

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "job_service")
		logger.Debug("JobService initialized",
			"poll_interval", monitor.PollInterval,
			"poll_timeout", monitor.PollTimeout,
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &JobService{
		store:         opts.Store,
		payments:      opts.Payments,
		dispatcher:    opts.Dispatcher,
		monitor:       monitor,
		logger:        logger,
		monitorCtx:    ctx,
		cancelMonitor: cancel,
	}, nil
}

// MustNewJobService constructs a new JobService and panics on error.
// Use this when you're certain the options are valid (e.g., in main.go).
func MustNewJobService(opts JobServiceOptions) *JobService {
	svc, err := NewJobService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create JobService: %v", err))
	}
	return svc
}

// Create runs the submission flow: register a payment request, persist the job
// awaiting payment, and start its monitoring goroutine. A payment service
// failure aborts the whole flow; no job is persisted and the error is
// returned synchronously to the submitter.
func (s *JobService) Create(ctx context.Context, req *model.StartJobRequest) (*model.Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	details, err := s.payments.CreatePaymentRequest(ctx, req.IdentifierFromPurchaser, req.InputData)
	if err != nil {
		return nil, fmt.Errorf("create payment request: %w", err)
	}

	job := model.NewJob(req.IdentifierFromPurchaser, req.InputData)
	job.PaymentAddr = details.Address
	job.Amount = details.Amount
	job.Unit = details.Unit
	job.BlockchainID = details.BlockchainID

	if err := s.store.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("store job: %w", err)
	}

	s.wg.Add(1)
	go s.monitorPayment(s.monitorCtx, job.ID, job.BlockchainID)

	if s.logger != nil {
		s.logger.InfoContext(ctx, "job created",
			"job_id", job.ID,
			"blockchain_identifier", job.BlockchainID,
			"required_amount", job.Amount,
			"payment_unit", job.Unit,
		)
	}

	return job, nil
}

// Status returns a snapshot of the job for the polling endpoint.
func (s *JobService) Status(ctx context.Context, jobID string) (*model.Job, error) {
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// Shutdown stops all monitoring goroutines and waits for them to exit, bounded
// by ctx. Monitors stop between poll iterations; a job caught mid-monitoring
// simply stays in its last consistent state.
func (s *JobService) Shutdown(ctx context.Context) error {
	s.cancelMonitor()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("job monitors did not stop in time: %w", ctx.Err())
	}
}
