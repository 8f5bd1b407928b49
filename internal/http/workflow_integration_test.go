package httpx

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

	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/adapters/masumi"
	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/adapters/webhook"
	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/data"
	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/service"
)

// fakePaymentService imitates the payment API: it hands out a payment request
// and reports "paid" after a configurable number of resolve calls.
type fakePaymentService struct {
	resolveCalls atomic.Int64
	paidAfter    int64
}

func (f *fakePaymentService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /payment/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"blockchainIdentifier": "blk-workflow",
			"address":              "addr_test1qz...",
			"amounts":              []map[string]string{{"amount": "10000000", "unit": "lovelace"}},
		})
	})
	mux.HandleFunc("POST /payment/resolve-blockchain-identifier", func(w http.ResponseWriter, r *http.Request) {
		status := "pending"
		if f.resolveCalls.Add(1) >= f.paidAfter {
			status = "paid"
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  status,
			"amounts": []map[string]string{{"amount": "10000000", "unit": "lovelace"}},
		})
	})
	return mux
}

// TestWorkflowSubmitPayDispatch walks a job through the whole lifecycle over
// real HTTP boundaries: submission, on-chain confirmation, webhook dispatch,
// and result polling.
func TestWorkflowSubmitPayDispatch(t *testing.T) {
	fake := &fakePaymentService{paidAfter: 2}
	paymentSrv := httptest.NewServer(fake.handler())
	defer paymentSrv.Close()

	var webhookPayload map[string]any
	webhookSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&webhookPayload))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"emails_generated": 12, "download_url": "https://make.example/out.zip"}`))
	}))
	defer webhookSrv.Close()

	payments, err := masumi.NewClient(masumi.Config{
		BaseURL:         paymentSrv.URL,
		APIKey:          "test-key",
		AgentIdentifier: "linkedin-outreach-generator",
		SellerVKey:      "vkey-test",
		Amount:          "10000000",
		Unit:            "lovelace",
	})
	require.NoError(t, err)

	dispatcher, err := webhook.NewDispatcher(webhook.Config{URL: webhookSrv.URL})
	require.NoError(t, err)

	svc := service.MustNewJobService(service.JobServiceOptions{
		Store:      data.NewMemoryJobStore(),
		Payments:   payments,
		Dispatcher: dispatcher,
		Monitor:    service.MonitorConfig{PollInterval: 5 * time.Millisecond, PollTimeout: 2 * time.Second},
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, svc.Shutdown(ctx))
	}()

	router := NewRouter(RouterServices{
		Jobs:        svc,
		ServiceName: "Masumi Make.com Proxy",
		Version:     "1.0.0",
	})

	rec := doRequest(router, http.MethodPost, "/start_job", startJobBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var started StartJobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	assert.Equal(t, "blk-workflow", started.BlockchainID)
	assert.Equal(t, "addr_test1qz...", started.PaymentAddr)

	var status struct {
		Status string          `json:"status"`
		Result json.RawMessage `json:"result"`
	}
	require.Eventually(t, func() bool {
		rec := doRequest(router, http.MethodGet, "/status?job_id="+started.JobID, "")
		if rec.Code != http.StatusOK {
			return false
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
			return false
		}
		return status.Status == "completed"
	}, 5*time.Second, 10*time.Millisecond, "job never completed (last status %q)", status.Status)

	assert.JSONEq(t,
		`{"emails_generated": 12, "download_url": "https://make.example/out.zip"}`,
		string(status.Result))

	// The webhook received the flattened input plus tracking fields.
	require.NotNil(t, webhookPayload)
	assert.Equal(t, "https://example.com/contacts.csv", webhookPayload["csv_url"])
	assert.Equal(t, started.JobID, webhookPayload["job_id"])
	assert.Equal(t, "a@b.com", webhookPayload["identifier_from_purchaser"])
	assert.GreaterOrEqual(t, fake.resolveCalls.Load(), int64(2))
}
