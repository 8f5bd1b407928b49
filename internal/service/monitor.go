package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/domain/model"
	apperrors "github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/errors"
)

// monitorPayment is the per-job monitoring goroutine. It polls the payment
// service at a fixed interval until confirmation, the ceiling, or a hard
// error, then (on confirmation) runs the dispatch phase and records the
// terminal outcome. It is the sole writer of this job's state and exits as
// soon as the job is terminal.
func (s *JobService) monitorPayment(ctx context.Context, jobID, blockchainID string) {
	defer s.wg.Done()

	deadline := time.NewTimer(s.monitor.PollTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(s.monitor.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Shutdown. The job keeps its last consistent state; updates are
			// atomic per transition, so nothing is ever half-written.
			s.logDebug(ctx, "payment monitor stopping", "job_id", jobID, "reason", ctx.Err())
			return

		case <-deadline.C:
			s.recordTimeout(ctx, jobID)
			return

		case <-ticker.C:
			state, err := s.payments.CheckPayment(ctx, blockchainID)
			if err != nil {
				if apperrors.IsUnavailable(err) || errors.Is(err, context.DeadlineExceeded) {
					// Transient: a flaky payment service must not be mistaken
					// for non-payment. Keep polling until the ceiling.
					s.logDebug(ctx, "payment check failed, will retry",
						"job_id", jobID, "error", err)
					continue
				}
				if ctx.Err() != nil {
					return
				}
				s.recordFailure(ctx, jobID, apperrors.ErrCodePaymentFailed, err.Error())
				return
			}

			if !state.Confirmed {
				continue
			}
			if !s.paymentQualifies(ctx, jobID, state.ObservedAmount) {
				// Confirmed but short of the required amount: keep waiting
				// for the remainder until the ceiling.
				continue
			}

			s.confirmAndDispatch(ctx, jobID)
			return
		}
	}
}

// paymentQualifies applies the amount policy: the first observed payment with
// amount >= required confirms the job. When either side is not a plain
// integer (or the service omits the observed amount), the service's paid
// report is trusted as-is.
func (s *JobService) paymentQualifies(ctx context.Context, jobID, observed string) bool {
	if observed == "" {
		return true
	}
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		s.logError(ctx, "read job for amount check", "job_id", jobID, "error", err)
		return false
	}
	required, err1 := strconv.ParseUint(job.Amount, 10, 64)
	got, err2 := strconv.ParseUint(observed, 10, 64)
	if err1 != nil || err2 != nil {
		return true
	}
	return got >= required
}

// confirmAndDispatch drives the post-payment phase: payment_confirmed →
// dispatching → completed/failed. Dispatch happens exactly once per job
// because only this goroutine owns the job and the transitions are one-way.
// All state writes run on a detached context: once the purchaser has paid,
// a shutdown racing this phase must not be able to lose a transition — in
// particular a completed result the downstream already produced. Only the
// dispatch call itself honours cancellation.
func (s *JobService) confirmAndDispatch(ctx context.Context, jobID string) {
	writeCtx := context.WithoutCancel(ctx)

	if _, err := s.store.Update(writeCtx, jobID, func(j *model.Job) error {
		return j.Transition(model.JobStatusPaymentConfirmed)
	}); err != nil {
		s.logError(ctx, "confirm payment", "job_id", jobID, "error", err)
		return
	}
	s.logInfo(ctx, "payment confirmed", "job_id", jobID)

	job, err := s.store.Update(writeCtx, jobID, func(j *model.Job) error {
		return j.Transition(model.JobStatusDispatching)
	})
	if err != nil {
		s.logError(ctx, "begin dispatch", "job_id", jobID, "error", err)
		return
	}

	result, err := s.dispatcher.Dispatch(ctx, job)
	if err != nil {
		if ctx.Err() != nil {
			// Shutdown interrupted the dispatch; leave the job as-is rather
			// than recording a failure the downstream may not have had.
			s.logDebug(ctx, "dispatch interrupted by shutdown", "job_id", jobID)
			return
		}
		s.recordFailure(ctx, jobID, apperrors.ErrCodeDispatchFailed, err.Error())
		return
	}

	if _, err := s.store.Update(writeCtx, jobID, func(j *model.Job) error {
		return j.Complete(result)
	}); err != nil {
		s.logError(ctx, "record result", "job_id", jobID, "error", err)
		return
	}
	s.logInfo(ctx, "job completed", "job_id", jobID)
}

// recordTimeout moves the job to timed_out. Outcome writes use a detached
// context so a shutdown that races the ceiling cannot lose the transition.
func (s *JobService) recordTimeout(ctx context.Context, jobID string) {
	writeCtx := context.WithoutCancel(ctx)
	if _, err := s.store.Update(writeCtx, jobID, func(j *model.Job) error {
		return j.TimeOut("no payment received before the monitoring ceiling")
	}); err != nil {
		s.logError(ctx, "record timeout", "job_id", jobID, "error", err)
		return
	}
	s.logInfo(ctx, "job timed out awaiting payment", "job_id", jobID)
}

// recordFailure moves the job to failed with a structured reason.
func (s *JobService) recordFailure(ctx context.Context, jobID string, code apperrors.ErrorCode, message string) {
	writeCtx := context.WithoutCancel(ctx)
	if _, err := s.store.Update(writeCtx, jobID, func(j *model.Job) error {
		return j.Fail(string(code), message)
	}); err != nil {
		s.logError(ctx, "record failure", "job_id", jobID, "error", err)
		return
	}
	s.logInfo(ctx, "job failed", "job_id", jobID, "code", code, "reason", message)
}

func (s *JobService) logDebug(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.DebugContext(ctx, msg, args...)
	}
}

func (s *JobService) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func (s *JobService) logError(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, msg, args...)
	}
}
