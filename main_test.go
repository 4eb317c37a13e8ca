package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"artisanconnect/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T, env map[string]string) config.Config {
	t.Helper()
	v := viper.New()
	v.SetDefault("DATABASE_DRIVER", "memory")
	v.SetDefault("JWT_SECRET", "test_jwt_secret")
	v.SetDefault("JWT_TTL", "1h")
	v.SetDefault("PAYMENT_CURRENCY", "INR")
	for k, val := range env {
		v.Set(k, val)
	}
	return config.FromViper(v)
}

func newTestServer(t *testing.T, env map[string]string) *server {
	t.Helper()
	cfg := testConfig(t, env)
	repos, err := openRepositories(cfg)
	require.NoError(t, err)
	srv, err := newServer(cfg, repos, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthReportsProviderModes(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		paymentMode string
		smsMode     string
	}{
		{"unconfigured", nil, "mock", "mock"},
		{"placeholder key", map[string]string{"RAZORPAY_KEY_ID": "rzp_test_YourKeyIdHere", "RAZORPAY_KEY_SECRET": "x"}, "mock", "mock"},
		{"live payments", map[string]string{"RAZORPAY_KEY_ID": "rzp_test_abc", "RAZORPAY_KEY_SECRET": "secret"}, "live", "mock"},
		{"live sms", map[string]string{"FAST2SMS_API_KEY": "real-key"}, "mock", "live"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.env)

			resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "healthy", body["status"])
			assert.Equal(t, tt.paymentMode, body["paymentMode"])
			assert.Equal(t, tt.smsMode, body["smsMode"])
			assert.NotEmpty(t, body["time"])
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	_, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/products", nil), -1)
	require.NoError(t, err)

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "http_requests_total"))
}

func TestOpenRepositories_SQLite(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"DATABASE_DRIVER": "sqlite",
		"DATABASE_DSN":    "file:main_test?mode=memory&cache=shared",
	})
	repos, err := openRepositories(cfg)
	require.NoError(t, err)

	products, err := repos.products.GetAll()
	require.NoError(t, err)
	assert.Empty(t, products)

	_, err = openRepositories(testConfig(t, map[string]string{"DATABASE_DRIVER": "oracle"}))
	assert.Error(t, err)
}

func TestCORSOriginLists(t *testing.T) {
	tests := []struct {
		name            string
		origins         string
		wantOrigin      string
		wantCredentials string
	}{
		{"wildcard", "*", "*", ""},
		{"wildcard among origins", "http://localhost:5173, *", "*", ""},
		{"explicit list", "http://localhost:5173,https://shop.example.com", "https://shop.example.com", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var srv *server
			require.NotPanics(t, func() {
				srv = newTestServer(t, map[string]string{"ALLOWED_ORIGINS": tt.origins})
			})

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("Origin", "https://shop.example.com")
			resp, err := srv.app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, resp.Header.Get("Access-Control-Allow-Credentials"))
		})
	}
}
