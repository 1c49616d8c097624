package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// ErrInvalidSignature is returned when a signature does not match.
var ErrInvalidSignature = errors.New("razorpay: invalid signature")

// Sign returns the hex HMAC-SHA256 of payload with secret.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func verify(payload []byte, signature, secret string) error {
	if secret == "" || signature == "" {
		return ErrInvalidSignature
	}
	expected := Sign(payload, secret)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// VerifyPaymentSignature checks the checkout redirect signature over "order_id|payment_id".
func (c *Client) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	return verify([]byte(orderID+"|"+paymentID), signature, c.keySecret)
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header over the raw body.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) error {
	return verify(body, signature, c.webhookSecret)
}

// Webhook events handled by the application.
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
	EventOrderPaid       = "order.paid"
)

// WebhookEvent is the subset of a webhook payload the application uses.
type WebhookEvent struct {
	Event       string
	PaymentID   string
	OrderID     string
	Amount      int64
	Currency    string
	Status      string
	Method      string
	ErrorReason string
}

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID          string `json:"id"`
				OrderID     string `json:"order_id"`
				Amount      int64  `json:"amount"`
				Currency    string `json:"currency"`
				Status      string `json:"status"`
				Method      string `json:"method"`
				ErrorReason string `json:"error_reason"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ParseWebhook decodes a webhook body.
func ParseWebhook(body []byte) (WebhookEvent, error) {
	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return WebhookEvent{}, fmt.Errorf("decode webhook: %w", err)
	}
	if p.Event == "" {
		return WebhookEvent{}, errors.New("decode webhook: missing event")
	}
	e := p.Payload.Payment.Entity
	return WebhookEvent{
		Event:       p.Event,
		PaymentID:   e.ID,
		OrderID:     e.OrderID,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Status:      e.Status,
		Method:      e.Method,
		ErrorReason: e.ErrorReason,
	}, nil
}
