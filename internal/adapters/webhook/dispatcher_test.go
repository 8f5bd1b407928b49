package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/domain/model"
	apperrors "github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/errors"
)

func testJob() *model.Job {
	job := model.NewJob("a@b.com", model.InputData{
		{Key: "csv_url", Value: "https://x/y.csv"},
		{Key: "mode", Value: "fast"},
	})
	return job
}

func newTestDispatcher(t *testing.T, url string, retries int) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(Config{
		URL:          url,
		Timeout:      2 * time.Second,
		RetryLimit:   retries,
		RetryBackoff: time.Millisecond,
	})
	require.NoError(t, err)
	return d
}

func TestNewDispatcherValidation(t *testing.T) {
	if _, err := NewDispatcher(Config{}); err == nil {
		t.Fatal("expected error when webhook url missing")
	}
}

func TestDispatchSuccess(t *testing.T) {
	var captured map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]string{"filename": "out.csv", "csv_text": "..."})
	}))
	defer srv.Close()

	job := testJob()
	d := newTestDispatcher(t, srv.URL, 2)

	result, err := d.Dispatch(context.Background(), job)
	require.NoError(t, err)
	assert.JSONEq(t, `{"filename":"out.csv","csv_text":"..."}`, string(result))

	// Flattened input plus correlation fields.
	assert.Equal(t, map[string]string{
		"csv_url":                   "https://x/y.csv",
		"mode":                      "fast",
		"job_id":                    job.ID,
		"identifier_from_purchaser": "a@b.com",
	}, captured)
}

func TestDispatchRetriesTransientThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "temporarily down", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer srv.Close()

	d := newTestDispatcher(t, srv.URL, 2)

	result, err := d.Dispatch(context.Background(), testJob())
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(result))
	assert.Equal(t, int32(3), calls.Load())
}

func TestDispatchExhaustsRetryBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := newTestDispatcher(t, srv.URL, 2)

	_, err := d.Dispatch(context.Background(), testJob())
	require.Error(t, err)
	assert.True(t, apperrors.IsDispatchFailed(err))
	assert.Equal(t, int32(3), calls.Load(), "retry budget is attempts = limit + 1")
}

func TestDispatchClientErrorDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	d := newTestDispatcher(t, srv.URL, 3)

	_, err := d.Dispatch(context.Background(), testJob())
	require.Error(t, err)
	assert.True(t, apperrors.IsDispatchFailed(err))
	assert.Equal(t, int32(1), calls.Load(), "4xx must fail immediately")
}

func TestDispatchNetworkErrorRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	d := newTestDispatcher(t, srv.URL, 1)

	_, err := d.Dispatch(context.Background(), testJob())
	require.Error(t, err)
	assert.True(t, apperrors.IsDispatchFailed(err))
}

func TestDispatchNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Accepted"))
	}))
	defer srv.Close()

	d := newTestDispatcher(t, srv.URL, 0)

	_, err := d.Dispatch(context.Background(), testJob())
	require.Error(t, err)
	assert.True(t, apperrors.IsDispatchFailed(err))
}

func TestDispatchHonorsContextDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d, err := NewDispatcher(Config{
		URL:          srv.URL,
		Timeout:      time.Second,
		RetryLimit:   5,
		RetryBackoff: time.Hour, // would stall without cancellation
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = d.Dispatch(ctx, testJob())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
