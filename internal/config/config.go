package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Placeholder credentials shipped in sample env files. Seeing one of these
// means the provider was never configured.
var (
	paymentKeyPlaceholders = []string{"rzp_test_YourKeyIdHere", "your_razorpay_key_id"}
	smsKeyPlaceholders     = []string{"your_fast2sms_api_key"}
)

// Config is the application configuration, resolved once at startup.
type Config struct {
	AppPort        string
	AllowedOrigins []string

	DatabaseDriver string
	DatabaseDSN    string

	JWTSecret string
	JWTTTL    time.Duration

	SuperadminUser string
	SuperadminPass string

	Payment PaymentConfig
	SMS     SMSConfig

	RabbitMQURL string
	RedisAddr   string
	LedgerTTL   time.Duration

	LogLevel string
	LogFile  string

	HTTPClientTimeout time.Duration
}

// PaymentConfig configures the payment gateway. Mock is decided at load time.
type PaymentConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Currency  string
	Mock      bool
}

// SMSConfig configures the SMS provider. Mock is decided at load time.
type SMSConfig struct {
	APIKey string
	URL    string
	Mock   bool
}

// Load reads configuration from defaults and environment variables.
func Load() Config {
	v := viper.New()
	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "artisanconnect.db")
	v.SetDefault("JWT_SECRET", "dev-secret")
	v.SetDefault("JWT_TTL", "6h")
	v.SetDefault("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1")
	v.SetDefault("PAYMENT_CURRENCY", "INR")
	v.SetDefault("FAST2SMS_URL", "https://www.fast2sms.com/dev/bulkV2")
	v.SetDefault("LEDGER_TTL", "72h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_CLIENT_TIMEOUT", "15s")
	v.AutomaticEnv()

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	cfg := Config{
		AppPort:        v.GetString("APP_PORT"),
		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		DatabaseDriver: v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTTTL:         v.GetDuration("JWT_TTL"),
		SuperadminUser: v.GetString("SUPERADMIN_USER"),
		SuperadminPass: v.GetString("SUPERADMIN_PASS"),
		Payment: PaymentConfig{
			KeyID:     v.GetString("RAZORPAY_KEY_ID"),
			KeySecret: v.GetString("RAZORPAY_KEY_SECRET"),
			BaseURL:   v.GetString("RAZORPAY_BASE_URL"),
			Currency:  v.GetString("PAYMENT_CURRENCY"),
		},
		SMS: SMSConfig{
			APIKey: v.GetString("FAST2SMS_API_KEY"),
			URL:    v.GetString("FAST2SMS_URL"),
		},
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		LedgerTTL:         v.GetDuration("LEDGER_TTL"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFile:           v.GetString("LOG_FILE"),
		HTTPClientTimeout: v.GetDuration("HTTP_CLIENT_TIMEOUT"),
	}
	cfg.Payment.Mock = isUnset(cfg.Payment.KeyID, paymentKeyPlaceholders) || cfg.Payment.KeySecret == ""
	cfg.SMS.Mock = isUnset(cfg.SMS.APIKey, smsKeyPlaceholders)
	return cfg
}

// Mode renders a mock flag for logs and the health endpoint.
func Mode(mock bool) string {
	if mock {
		return "mock"
	}
	return "live"
}

func isUnset(value string, placeholders []string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return true
	}
	for _, p := range placeholders {
		if value == p {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
