package paypal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayPal struct {
	tokenCalls int32
	lastOrder  map[string]interface{}
	capture    string
}

func (f *fakePayPal) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.tokenCalls, 1)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client", user)
		assert.Equal(t, "secret", pass)
		_, _ = io.WriteString(w, `{"access_token":"tok-1","expires_in":32400}`)
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastOrder))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"PP-123","status":"CREATED","links":[
			{"rel":"self","href":"https://paypal/self"},
			{"rel":"approve","href":"https://paypal/approve/PP-123"}]}`)
	})
	mux.HandleFunc("/v2/checkout/orders/PP-123/capture", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"PP-123","status":"`+f.capture+`",
			"purchase_units":[{"payments":{"captures":[{"id":"CAP-9","status":"COMPLETED"}]}}]}`)
	})
	mux.HandleFunc("/v2/checkout/orders/PP-404/capture", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"name":"UNPROCESSABLE_ENTITY","message":"order not approved"}`)
	})
	return mux
}

func newTestClient(t *testing.T, f *fakePayPal) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", ClientID: "client", Secret: "secret"})
}

func TestCreateOrder(t *testing.T) {
	f := &fakePayPal{}
	c := newTestClient(t, f)

	order, err := c.CreateOrder(context.Background(), decimal.RequireFromString("149.5"), "usd", "Order ORD-1", "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "PP-123", order.ID)
	assert.Equal(t, "CREATED", order.Status)
	assert.Equal(t, "https://paypal/approve/PP-123", order.ApproveURL)

	units := f.lastOrder["purchase_units"].([]interface{})
	amount := units[0].(map[string]interface{})["amount"].(map[string]interface{})
	assert.Equal(t, "149.50", amount["value"])
	assert.Equal(t, "USD", amount["currency_code"])

	// token reaproveitado do cache
	_, err = c.CreateOrder(context.Background(), decimal.NewFromInt(1), "USD", "x", "y")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&f.tokenCalls))
}

func TestCaptureOrder(t *testing.T) {
	f := &fakePayPal{capture: StatusCompleted}
	c := newTestClient(t, f)

	capture, err := c.CaptureOrder(context.Background(), "PP-123")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, capture.Status)
	assert.Equal(t, "CAP-9", capture.CaptureID)

	f.capture = "PAYER_ACTION_REQUIRED"
	capture, err = c.CaptureOrder(context.Background(), "PP-123")
	require.NoError(t, err)
	assert.NotEqual(t, StatusCompleted, capture.Status)
}

func TestCaptureOrderProviderError(t *testing.T) {
	c := newTestClient(t, &fakePayPal{})
	_, err := c.CaptureOrder(context.Background(), "PP-404")
	require.ErrorIs(t, err, ErrProvider)
	assert.Contains(t, err.Error(), "order not approved")
}

func TestNotConfigured(t *testing.T) {
	c := New(Config{})
	_, err := c.CreateOrder(context.Background(), decimal.NewFromInt(1), "USD", "x", "y")
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.CaptureOrder(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	c := newTestClient(t, &fakePayPal{})
	_, err := c.CreateOrder(context.Background(), decimal.Zero, "USD", "x", "y")
	assert.ErrorIs(t, err, ErrProvider)
}
