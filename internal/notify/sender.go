package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// Sender delivers one message to its recipient.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// GatewayError is a non-2xx response from the delivery gateway.
type GatewayError struct {
	StatusCode int
	Body       string
}

// Error implements error.
func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway: http %d: %s", e.StatusCode, e.Body)
}

// HTTPSender posts messages as JSON to an SMS/email gateway.
type HTTPSender struct {
	client *http.Client
	url    string
	token  string
}

// NewHTTPSender constructs an HTTPSender.
func NewHTTPSender(url, token string, timeout time.Duration) *HTTPSender {
	return &HTTPSender{client: &http.Client{Timeout: timeout}, url: url, token: token}
}

type gatewayRequest struct {
	Reference string `json:"reference"`
	Channel   string `json:"channel"`
	To        string `json:"to"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body"`
}

// Send implements Sender.
func (s *HTTPSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(gatewayRequest{
		Reference: msg.ID.String(),
		Channel:   string(msg.Channel),
		To:        msg.Recipient,
		Subject:   msg.Subject,
		Body:      msg.Body,
	})
	if err != nil {
		return fmt.Errorf("encode gateway request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &GatewayError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return nil
}
