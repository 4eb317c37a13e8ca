package payment_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"artisanconnect/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	sig := payment.Sign("secret", "order_1", "pay_1")
	assert.Len(t, sig, 64)
	assert.True(t, payment.VerifySignature("secret", "order_1", "pay_1", sig))

	assert.False(t, payment.VerifySignature("secret", "order_1", "pay_2", sig))
	assert.False(t, payment.VerifySignature("other", "order_1", "pay_1", sig))
	assert.False(t, payment.VerifySignature("secret", "order_1", "pay_1", sig[:63]+"0"))
	assert.False(t, payment.VerifySignature("secret", "order_1", "pay_1", ""))
}

func TestMockGateway(t *testing.T) {
	gw := payment.NewMockGateway()
	assert.True(t, gw.Mock())

	intent, err := gw.CreateOrder(25000, "INR", "order_abc")
	require.NoError(t, err)
	assert.True(t, payment.IsMockOrderID(intent.ID))
	assert.Equal(t, int64(25000), intent.Amount)
	assert.Equal(t, "order_abc", intent.Receipt)

	other, err := gw.CreateOrder(100, "INR", "order_def")
	require.NoError(t, err)
	assert.NotEqual(t, intent.ID, other.ID)

	assert.True(t, gw.VerifySignature(intent.ID, "anything", "not-a-signature"))
}

func TestRazorpayClient_CreateOrder(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_live_key", user)
		assert.Equal(t, "shh", pass)
		_ = json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_LIVE1","amount":25000,"currency":"INR","receipt":"order_abc","status":"created"}`))
	}))
	defer srv.Close()

	client := payment.NewRazorpayClient("rzp_live_key", "shh", srv.URL+"/v1/", 5*time.Second)
	assert.False(t, client.Mock())

	intent, err := client.CreateOrder(25000, "INR", "order_abc")
	require.NoError(t, err)
	assert.Equal(t, "order_LIVE1", intent.ID)
	assert.Equal(t, int64(25000), intent.Amount)
	assert.False(t, payment.IsMockOrderID(intent.ID))

	assert.EqualValues(t, 25000, got["amount"])
	assert.Equal(t, "INR", got["currency"])
	assert.Equal(t, "order_abc", got["receipt"])
}

func TestRazorpayClient_CreateOrderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`))
	}))
	defer srv.Close()

	client := payment.NewRazorpayClient("rzp_live_key", "wrong", srv.URL, 5*time.Second)
	_, err := client.CreateOrder(100, "INR", "order_x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Authentication failed")
}

func TestRazorpayClient_VerifySignature(t *testing.T) {
	client := payment.NewRazorpayClient("rzp_live_key", "shh", "http://unused", time.Second)
	sig := payment.Sign("shh", "order_LIVE1", "pay_1")
	assert.True(t, client.VerifySignature("order_LIVE1", "pay_1", sig))
	assert.False(t, client.VerifySignature("order_LIVE1", "pay_1", "tampered"))
}
