// Package payment talks to the payment gateway: it opens payment intents
// and checks the signatures the gateway hands back after checkout.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// MockOrderPrefix marks gateway order ids synthesized locally in mock mode.
const MockOrderPrefix = "mock_order_"

// Intent is a payment intent opened at the gateway.
// Amount is in the currency's minor unit.
type Intent struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status,omitempty"`
}

// Gateway opens payment intents and validates payment proofs.
type Gateway interface {
	CreateOrder(amount int64, currency, receipt string) (*Intent, error)
	// VerifySignature reports whether signature proves paymentID was paid
	// against gatewayOrderID.
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
	// Mock reports whether the gateway is a local stand-in.
	Mock() bool
}

// IsMockOrderID reports whether id was synthesized by the mock gateway.
// Such ids are never accepted while a live gateway is configured.
func IsMockOrderID(id string) bool {
	return strings.HasPrefix(id, MockOrderPrefix)
}

// Sign computes the hex HMAC-SHA256 of "gatewayOrderID|paymentID" under secret.
func Sign(secret, gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares signature against the expected value byte for byte.
func VerifySignature(secret, gatewayOrderID, paymentID, signature string) bool {
	expected := Sign(secret, gatewayOrderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
