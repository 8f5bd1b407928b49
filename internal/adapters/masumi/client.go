// Package masumi implements the payment service boundary against the Masumi
// payment API: creating payment requests and resolving their on-chain state.
package masumi

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

	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/core"
	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/domain/model"
	apperrors "github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/errors"
)

const (
	createPaymentPath = "/payment/"
	resolvePath       = "/payment/resolve-blockchain-identifier"

	statusPaid = "paid"
)

// Config captures the subset of the Masumi payment API behaviour we need.
type Config struct {
	BaseURL         string
	APIKey          string
	AgentIdentifier string
	SellerVKey      string
	// Amount and Unit are the fixed price of this agent, e.g. "10000000"
	// "lovelace".
	Amount  string
	Unit    string
	Timeout time.Duration
	Client  *http.Client
}

// Client talks to the Masumi payment service. One instance is shared by the
// orchestrator and all monitoring goroutines; it is safe for concurrent use.
type Client struct {
	baseURL         string
	apiKey          string
	agentIdentifier string
	sellerVKey      string
	amount          string
	unit            string
	client          *http.Client
}

// NewClient builds a Masumi payment client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("payment service base url is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("payment service api key is required")
	}
	if strings.TrimSpace(cfg.Amount) == "" || strings.TrimSpace(cfg.Unit) == "" {
		return nil, errors.New("payment amount and unit are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:         baseURL,
		apiKey:          strings.TrimSpace(cfg.APIKey),
		agentIdentifier: strings.TrimSpace(cfg.AgentIdentifier),
		sellerVKey:      strings.TrimSpace(cfg.SellerVKey),
		amount:          strings.TrimSpace(cfg.Amount),
		unit:            strings.TrimSpace(cfg.Unit),
		client:          hc,
	}, nil
}

// Price returns the configured amount and unit this agent charges per job.
func (c *Client) Price() (amount, unit string) {
	return c.amount, c.unit
}

type wireAmount struct {
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

type createPaymentRequest struct {
	AgentIdentifier         string          `json:"agentIdentifier"`
	SellerVKey              string          `json:"sellerVKey"`
	IdentifierFromPurchaser string          `json:"identifierFromPurchaser"`
	Amounts                 []wireAmount    `json:"amounts"`
	InputData               model.InputData `json:"inputData"`
}

type createPaymentResponse struct {
	BlockchainIdentifier string       `json:"blockchainIdentifier"`
	Address              string       `json:"address"`
	Amounts              []wireAmount `json:"amounts"`
}

type resolveRequest struct {
	BlockchainIdentifier string `json:"blockchainIdentifier"`
}

type resolveResponse struct {
	Status  string       `json:"status"`
	Amounts []wireAmount `json:"amounts"`
	Message string       `json:"message"`
}

// CreatePaymentRequest registers a payment request with the Masumi service.
// Any failure is reported as unavailable: creation either fully succeeds or
// the submission is aborted.
func (c *Client) CreatePaymentRequest(
	ctx context.Context,
	purchaserID string,
	input model.InputData,
) (*core.PaymentDetails, error) {
	body := createPaymentRequest{
		AgentIdentifier:         c.agentIdentifier,
		SellerVKey:              c.sellerVKey,
		IdentifierFromPurchaser: purchaserID,
		Amounts:                 []wireAmount{{Amount: c.amount, Unit: c.unit}},
		InputData:               input,
	}

	// Every creation failure surfaces as unavailability: the submitter gets a
	// synchronous error and no job is persisted.
	var resp createPaymentResponse
	if err := c.post(ctx, createPaymentPath, body, &resp); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "create payment request")
	}

	if resp.BlockchainIdentifier == "" || resp.Address == "" {
		return nil, apperrors.Unavailable("payment service returned an incomplete payment response")
	}

	amount, unit := c.amount, c.unit
	if len(resp.Amounts) > 0 {
		amount, unit = resp.Amounts[0].Amount, resp.Amounts[0].Unit
	}

	return &core.PaymentDetails{
		Address:      resp.Address,
		Amount:       amount,
		Unit:         unit,
		BlockchainID: resp.BlockchainIdentifier,
	}, nil
}

// CheckPayment resolves the current on-chain state of a payment. Transient
// failures (network, 5xx) come back as unavailable errors; a definitive
// rejection from the service (4xx) is a permanent payment failure.
func (c *Client) CheckPayment(ctx context.Context, blockchainID string) (*core.PaymentState, error) {
	if blockchainID == "" {
		return nil, apperrors.PaymentFailed("blockchain identifier is empty")
	}

	var resp resolveResponse
	if err := c.post(ctx, resolvePath, resolveRequest{BlockchainIdentifier: blockchainID}, &resp); err != nil {
		return nil, err
	}

	state := &core.PaymentState{Confirmed: resp.Status == statusPaid}
	for _, amt := range resp.Amounts {
		if amt.Unit == c.unit {
			state.ObservedAmount = amt.Amount
			break
		}
	}
	return state, nil
}

// post sends a JSON POST and decodes the JSON answer. HTTP and transport
// failures are classified: 4xx are permanent payment failures, everything
// else is transient unavailability.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "payment service request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "read payment service response")
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := json.Unmarshal(data, out); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "decode payment service response")
		}
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return apperrors.PaymentFailed(fmt.Sprintf(
			"payment service rejected request: status %d: %s", resp.StatusCode, truncate(data, 256)))
	default:
		return apperrors.Unavailable(fmt.Sprintf(
			"payment service error: status %d: %s", resp.StatusCode, truncate(data, 256)))
	}
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
