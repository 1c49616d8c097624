package razorpay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string) *Client {
	return New(zap.NewNop().Sugar(), Options{
		BaseURL:       baseURL,
		KeyID:         "rzp_test_key",
		KeySecret:     "key_secret",
		WebhookSecret: "hook_secret",
		Timeout:       time.Second,
	})
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, ordersPath, r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "rzp_test_key", user)
		require.Equal(t, "key_secret", pass)

		var req OrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, int64(177000), req.Amount)

		_ = json.NewEncoder(w).Encode(Order{ID: "order_1", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt, Status: "created"})
	}))
	defer srv.Close()

	order, err := newTestClient(srv.URL).CreateOrder(context.Background(), OrderRequest{Amount: 177000, Currency: "INR", Receipt: "INV-1"})
	require.NoError(t, err)
	require.Equal(t, "order_1", order.ID)
	require.Equal(t, "created", order.Status)
}

func TestCreateOrderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateOrder(context.Background(), OrderRequest{Amount: 1, Currency: "INR"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "BAD_REQUEST_ERROR", apiErr.Code)
}

func TestVerifyPaymentSignature(t *testing.T) {
	c := newTestClient("http://unused")
	sig := Sign([]byte("order_1|pay_1"), "key_secret")

	require.NoError(t, c.VerifyPaymentSignature("order_1", "pay_1", sig))
	require.ErrorIs(t, c.VerifyPaymentSignature("order_1", "pay_2", sig), ErrInvalidSignature)
	require.ErrorIs(t, c.VerifyPaymentSignature("order_1", "pay_1", ""), ErrInvalidSignature)
}

func TestWebhookSignatureAndParse(t *testing.T) {
	c := newTestClient("http://unused")
	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_9","order_id":"order_9","amount":50000,"currency":"INR","status":"captured","method":"upi"}}}}`)

	require.NoError(t, c.VerifyWebhookSignature(body, Sign(body, "hook_secret")))
	require.ErrorIs(t, c.VerifyWebhookSignature(body, Sign(body, "other")), ErrInvalidSignature)

	ev, err := ParseWebhook(body)
	require.NoError(t, err)
	require.Equal(t, WebhookEvent{
		Event: EventPaymentCaptured, PaymentID: "pay_9", OrderID: "order_9",
		Amount: 50000, Currency: "INR", Status: "captured", Method: "upi",
	}, ev)

	_, err = ParseWebhook([]byte(`{}`))
	require.Error(t, err)
}
