package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RazorpayClient is the live gateway client.
type RazorpayClient struct {
	keyID     string
	keySecret string
	baseURL   string
	timeout   time.Duration
}

// NewRazorpayClient creates a live client. baseURL is usually https://api.razorpay.com/v1.
func NewRazorpayClient(keyID, keySecret, baseURL string, timeout time.Duration) *RazorpayClient {
	return &RazorpayClient{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   strings.TrimRight(baseURL, "/"),
		timeout:   timeout,
	}
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder opens an order at the gateway for amount minor units.
func (c *RazorpayClient) CreateOrder(amount int64, currency, receipt string) (*Intent, error) {
	agent := fiber.Post(c.baseURL + "/orders")
	agent.BasicAuth(c.keyID, c.keySecret)
	if c.timeout > 0 {
		agent.Timeout(c.timeout)
	}
	agent.JSON(fiber.Map{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	})

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("razorpay request failed: %w", errors.Join(errs...))
	}
	if code < 200 || code >= 300 {
		var apiErr razorpayError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("razorpay returned %d: %s", code, apiErr.Error.Description)
		}
		return nil, fmt.Errorf("razorpay returned %d", code)
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("failed to decode razorpay order: %w", err)
	}
	if intent.ID == "" {
		return nil, fmt.Errorf("razorpay order response carried no id")
	}
	return &intent, nil
}

// VerifySignature checks the checkout signature with the key secret.
func (c *RazorpayClient) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	return VerifySignature(c.keySecret, gatewayOrderID, paymentID, signature)
}

// Mock is false for the live client.
func (c *RazorpayClient) Mock() bool { return false }
