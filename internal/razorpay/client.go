// Package razorpay talks to the Razorpay orders API and verifies payment signatures.
package razorpay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

const ordersPath = "/v1/orders"

// Client is a minimal Razorpay API client.
type Client struct {
	http          *http.Client
	baseURL       string
	keyID         string
	keySecret     string
	webhookSecret string
	log           *zap.SugaredLogger
}

// Options configure a Client.
type Options struct {
	BaseURL       string
	KeyID         string
	KeySecret     string
	WebhookSecret string
	Timeout       time.Duration
}

// New constructs a Client.
func New(log *zap.SugaredLogger, opts Options) *Client {
	return &Client{
		http:          &http.Client{Timeout: opts.Timeout},
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		keyID:         opts.KeyID,
		keySecret:     opts.KeySecret,
		webhookSecret: opts.WebhookSecret,
		log:           log.Named("razorpay"),
	}
}

// KeyID returns the public key id handed to checkout clients.
func (c *Client) KeyID() string { return c.keyID }

// Configured reports whether API credentials are present.
func (c *Client) Configured() bool { return c.keyID != "" && c.keySecret != "" }

// OrderRequest creates an order. Amount is in the smallest currency unit.
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is the gateway's order object.
type Order struct {
	ID         string `json:"id"`
	Entity     string `json:"entity"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"`
	CreatedAt  int64  `json:"created_at"`
}

// APIError is a non-2xx gateway response.
type APIError struct {
	StatusCode  int
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Error implements error.
func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay: http %d: %s: %s", e.StatusCode, e.Code, e.Description)
}

// CreateOrder creates a payment order.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ordersPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.SetBasicAuth(c.keyID, c.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		var env struct {
			Error APIError `json:"error"`
		}
		_ = json.Unmarshal(raw, &env)
		env.Error.StatusCode = resp.StatusCode
		c.log.Errorw("create order failed", "status", resp.StatusCode, "code", env.Error.Code, "receipt", req.Receipt)
		return nil, &env.Error
	}

	var order Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	c.log.Infow("order created", "order_id", order.ID, "receipt", req.Receipt, "amount", order.Amount)
	return &order, nil
}
