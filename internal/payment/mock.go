package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MockGateway stands in for the gateway when no credentials are configured.
// It never leaves the process and accepts every payment proof.
type MockGateway struct{}

// NewMockGateway creates a MockGateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// CreateOrder synthesizes an intent whose id carries MockOrderPrefix.
func (g *MockGateway) CreateOrder(amount int64, currency, receipt string) (*Intent, error) {
	return &Intent{
		ID:       fmt.Sprintf("%s%d_%s", MockOrderPrefix, time.Now().UnixMilli(), uuid.NewString()[:8]),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

// VerifySignature always succeeds in mock mode.
func (g *MockGateway) VerifySignature(string, string, string) bool { return true }

// Mock is true for the stand-in gateway.
func (g *MockGateway) Mock() bool { return true }
