package masumi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/domain/model"
	apperrors "github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/errors"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:         baseURL,
		APIKey:          "test-key",
		AgentIdentifier: "linkedin-outreach-generator",
		SellerVKey:      "vkey123",
		Amount:          "10000000",
		Unit:            "lovelace",
		Timeout:         2 * time.Second,
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error when base url missing")
	}
	if _, err := NewClient(Config{BaseURL: "http://x"}); err == nil {
		t.Fatal("expected error when api key missing")
	}
	if _, err := NewClient(Config{BaseURL: "http://x", APIKey: "k"}); err == nil {
		t.Fatal("expected error when amount/unit missing")
	}
}

func TestCreatePaymentRequest(t *testing.T) {
	var captured createPaymentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payment/", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(createPaymentResponse{
			BlockchainIdentifier: "blk-abc",
			Address:              "addr_test1qz...",
			Amounts:              []wireAmount{{Amount: "10000000", Unit: "lovelace"}},
		})
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	input := model.InputData{{Key: "csv_url", Value: "https://x/y.csv"}}
	details, err := client.CreatePaymentRequest(context.Background(), "a@b.com", input)
	require.NoError(t, err)

	assert.Equal(t, "blk-abc", details.BlockchainID)
	assert.Equal(t, "addr_test1qz...", details.Address)
	assert.Equal(t, "10000000", details.Amount)
	assert.Equal(t, "lovelace", details.Unit)

	assert.Equal(t, "linkedin-outreach-generator", captured.AgentIdentifier)
	assert.Equal(t, "vkey123", captured.SellerVKey)
	assert.Equal(t, "a@b.com", captured.IdentifierFromPurchaser)
	require.Len(t, captured.Amounts, 1)
	assert.Equal(t, wireAmount{Amount: "10000000", Unit: "lovelace"}, captured.Amounts[0])
	assert.Equal(t, input, captured.InputData)
}

func TestCreatePaymentRequestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	_, err = client.CreatePaymentRequest(context.Background(), "a@b.com", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))
}

func TestCreatePaymentRequestUnreachable(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	_, err = client.CreatePaymentRequest(context.Background(), "a@b.com", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))
}

func TestCreatePaymentRequestIncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"blockchainIdentifier": ""})
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	_, err = client.CreatePaymentRequest(context.Background(), "a@b.com", nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))
}

func TestCheckPaymentPaid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment/resolve-blockchain-identifier", r.URL.Path)
		var req resolveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "blk-abc", req.BlockchainIdentifier)

		json.NewEncoder(w).Encode(resolveResponse{
			Status: "paid",
			Amounts: []wireAmount{
				{Amount: "500", Unit: "other-token"},
				{Amount: "12000000", Unit: "lovelace"},
			},
		})
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	state, err := client.CheckPayment(context.Background(), "blk-abc")
	require.NoError(t, err)
	assert.True(t, state.Confirmed)
	assert.Equal(t, "12000000", state.ObservedAmount)
}

func TestCheckPaymentPending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(resolveResponse{Status: "pending"})
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	state, err := client.CheckPayment(context.Background(), "blk-abc")
	require.NoError(t, err)
	assert.False(t, state.Confirmed)
	assert.Empty(t, state.ObservedAmount)
}

// A transient failure must be distinguishable from "not yet paid" so the
// monitoring loop keeps polling instead of failing the job.
func TestCheckPaymentTransientVsPermanent(t *testing.T) {
	status := http.StatusInternalServerError
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", status)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL))
	require.NoError(t, err)

	_, err = client.CheckPayment(context.Background(), "blk-abc")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err), "5xx must classify as transient")

	status = http.StatusBadRequest
	_, err = client.CheckPayment(context.Background(), "blk-abc")
	require.Error(t, err)
	assert.True(t, apperrors.IsPaymentFailed(err), "4xx must classify as permanent")
}

func TestCheckPaymentEmptyIdentifier(t *testing.T) {
	client, err := NewClient(testConfig("http://localhost:1"))
	require.NoError(t, err)

	_, err = client.CheckPayment(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsPaymentFailed(err))
}

func TestPrice(t *testing.T) {
	client, err := NewClient(testConfig("http://localhost:1"))
	require.NoError(t, err)

	amount, unit := client.Price()
	assert.Equal(t, "10000000", amount)
	assert.Equal(t, "lovelace", unit)
}
