package sms_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"artisanconnect/internal/sms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCleanNumber(t *testing.T) {
	assert.Equal(t, "9876543210", sms.CleanNumber("+919876543210"))
	assert.Equal(t, "9876543210", sms.CleanNumber("+91 98765 43210"))
	assert.Equal(t, "9876543210", sms.CleanNumber("9876543210"))
}

func TestMessages(t *testing.T) {
	assert.Equal(t,
		"New Order! Customer: asha, Product: Clay Pot, Qty: 2, Total: Rs.200. Check dashboard - Artisan Connect",
		sms.ArtisanPurchaseMessage("asha", "Clay Pot", 2, 200))
	assert.Equal(t,
		"Order Confirmed! Order #order_1, Total: Rs.250.5. Track in your dashboard - Artisan Connect",
		sms.CustomerConfirmationMessage("order_1", 250.5))
}

func TestMockSender(t *testing.T) {
	s := sms.NewMockSender(zap.NewNop())

	res, err := s.Send("+919876543210", "hello")
	require.NoError(t, err)
	assert.True(t, res.Mock)

	_, err = s.Send("", "hello")
	assert.ErrorIs(t, err, sms.ErrNoPhone)
}

func TestFast2SMSClient_Send(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "api-key", r.Header.Get("authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"return":true,"request_id":"req-42","message":["SMS sent successfully."]}`))
	}))
	defer srv.Close()

	client := sms.NewFast2SMSClient("api-key", srv.URL, 5*time.Second)
	res, err := client.Send("+91 9876543210", "hello")
	require.NoError(t, err)
	assert.Equal(t, "req-42", res.MessageID)
	assert.False(t, res.Mock)
	assert.Equal(t, "9876543210", got["numbers"])
	assert.Equal(t, "q", got["route"])
	assert.Equal(t, "hello", got["message"])
}

func TestFast2SMSClient_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"return":false,"status_code":412,"message":"Invalid Authentication"}`))
	}))
	defer srv.Close()

	client := sms.NewFast2SMSClient("bad-key", srv.URL, 5*time.Second)
	_, err := client.Send("9876543210", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Authentication")

	_, err = client.Send("", "hello")
	assert.ErrorIs(t, err, sms.ErrNoPhone)
}
