// Package sms sends text notifications through Fast2SMS, or logs them in mock mode.
package sms

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrNoPhone is returned when there is no number to send to.
var ErrNoPhone = errors.New("no phone number provided")

var countryCode = regexp.MustCompile(`^\+91`)

// Result describes an accepted message.
type Result struct {
	MessageID string
	Mock      bool
}

// Sender delivers a single text message.
type Sender interface {
	Send(phone, message string) (*Result, error)
}

// CleanNumber strips the +91 prefix and whitespace; the provider takes bare 10-digit numbers.
func CleanNumber(phone string) string {
	phone = countryCode.ReplaceAllString(phone, "")
	return strings.Join(strings.Fields(phone), "")
}

// ArtisanPurchaseMessage is sent to an artisan when one of their products sells.
func ArtisanPurchaseMessage(customerName, productName string, quantity int, total float64) string {
	return fmt.Sprintf("New Order! Customer: %s, Product: %s, Qty: %d, Total: Rs.%s. Check dashboard - Artisan Connect",
		customerName, productName, quantity, formatAmount(total))
}

// CustomerConfirmationMessage is sent to the buyer once payment is verified.
func CustomerConfirmationMessage(orderNumber string, total float64) string {
	return fmt.Sprintf("Order Confirmed! Order #%s, Total: Rs.%s. Track in your dashboard - Artisan Connect",
		orderNumber, formatAmount(total))
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MockSender only logs messages.
type MockSender struct {
	logger *zap.Logger
}

// NewMockSender creates a MockSender.
func NewMockSender(logger *zap.Logger) *MockSender {
	return &MockSender{logger: logger}
}

// Send logs the message and reports success.
func (s *MockSender) Send(phone, message string) (*Result, error) {
	if phone == "" {
		return nil, ErrNoPhone
	}
	s.logger.Info("mock sms", zap.String("to", CleanNumber(phone)), zap.String("message", message))
	return &Result{Mock: true}, nil
}

// Fast2SMSClient is the live sender.
type Fast2SMSClient struct {
	apiKey  string
	url     string
	timeout time.Duration
}

// NewFast2SMSClient creates a live sender posting to url (the bulkV2 endpoint).
func NewFast2SMSClient(apiKey, url string, timeout time.Duration) *Fast2SMSClient {
	return &Fast2SMSClient{apiKey: apiKey, url: url, timeout: timeout}
}

type fast2smsResponse struct {
	Return    bool            `json:"return"`
	RequestID string          `json:"request_id"`
	Message   json.RawMessage `json:"message"`
}

// Send posts one quick-route message.
func (c *Fast2SMSClient) Send(phone, message string) (*Result, error) {
	if phone == "" {
		return nil, ErrNoPhone
	}

	agent := fiber.Post(c.url)
	agent.Set("authorization", c.apiKey)
	if c.timeout > 0 {
		agent.Timeout(c.timeout)
	}
	agent.JSON(fiber.Map{
		"route":    "q",
		"message":  message,
		"language": "english",
		"flash":    0,
		"numbers":  CleanNumber(phone),
	})

	_, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("fast2sms request failed: %w", errors.Join(errs...))
	}

	var resp fast2smsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode fast2sms response: %w", err)
	}
	if !resp.Return {
		return nil, fmt.Errorf("fast2sms rejected message: %s", describe(resp.Message))
	}
	return &Result{MessageID: resp.RequestID}, nil
}

// describe flattens the provider's message field, which is a string or a list of strings.
func describe(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return "failed to send SMS"
}
