// Package webhook implements the downstream dispatcher boundary: it forwards
// confirmed job input to the configured processing webhook (a Make.com
// scenario in the original deployment) and returns the result payload.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/domain/model"
	apperrors "github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/errors"
)

// Config captures the dispatch behaviour: where to post, how long one attempt
// may take, and the retry budget for transient failures.
type Config struct {
	URL string
	// Timeout bounds a single attempt. Downstream processing is synchronous
	// and can take minutes, so the default is generous.
	Timeout      time.Duration
	RetryLimit   int
	RetryBackoff time.Duration
	Client       *http.Client
}

// Dispatcher posts job input to the downstream webhook with bounded retries.
type Dispatcher struct {
	url          string
	retryLimit   int
	retryBackoff time.Duration
	client       *http.Client
}

// NewDispatcher builds a webhook dispatcher. Callers should pass a validated config.
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, errors.New("webhook url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	retries := cfg.RetryLimit
	if retries < 0 {
		retries = 0
	}

	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Dispatcher{
		url:          url,
		retryLimit:   retries,
		retryBackoff: backoff,
		client:       hc,
	}, nil
}

// Dispatch forwards the job input downstream and returns the raw JSON result.
// Transient failures (network errors, 5xx) are retried up to the budget with
// linear backoff; a 4xx answer fails immediately. The caller guarantees
// at-most-one Dispatch per job, so retries here never double-process a job
// that already succeeded.
func (d *Dispatcher) Dispatch(ctx context.Context, job *model.Job) (json.RawMessage, error) {
	body, err := json.Marshal(d.payload(job))
	if err != nil {
		return nil, fmt.Errorf("encode webhook payload: %w", err)
	}

	attempts := d.retryLimit + 1
	var lastErr error
	for attempt := range attempts {
		result, err := d.post(ctx, body)
		if err == nil {
			return result, nil
		}
		if !apperrors.IsUnavailable(err) {
			return nil, err
		}
		lastErr = err

		if attempt < attempts-1 {
			// Linear backoff to avoid hammering a struggling downstream.
			delay := time.Duration(attempt+1) * d.retryBackoff
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, apperrors.Wrapf(lastErr, apperrors.ErrCodeDispatchFailed,
		"webhook failed after %d attempts", attempts)
}

// payload flattens the ordered input pairs into the keyed object the webhook
// expects, with the job id and purchaser identifier added for correlation.
func (d *Dispatcher) payload(job *model.Job) map[string]string {
	p := job.InputData.Map()
	p["job_id"] = job.ID
	p["identifier_from_purchaser"] = job.PurchaserID
	return p
}

func (d *Dispatcher) post(ctx context.Context, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "webhook request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "read webhook response")
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if !json.Valid(data) {
			return nil, apperrors.DispatchFailed(fmt.Sprintf(
				"webhook returned non-JSON response: %s", truncate(data, 256)))
		}
		return json.RawMessage(data), nil
	case resp.StatusCode >= 500:
		return nil, apperrors.Unavailable(fmt.Sprintf(
			"webhook error: status %d: %s", resp.StatusCode, truncate(data, 256)))
	default:
		return nil, apperrors.DispatchFailed(fmt.Sprintf(
			"webhook rejected request: status %d: %s", resp.StatusCode, truncate(data, 256)))
	}
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
