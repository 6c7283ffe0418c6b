package middleware_test

import (
	"bytes"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/donation_ledger/internal/middleware"
	"github.com/SscSPs/donation_ledger/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

const testSecret = "test-secret-key-that-is-long-enough"

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.Any("/probe", func(c *gin.Context) {
		userID, _ := middleware.GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userID": userID})
	})
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(middleware.AuthMiddleware(testSecret))

	valid, err := utils.GenerateJWT("owner-1", testSecret, time.Hour, "test")
	require.NoError(t, err)
	expired, err := utils.GenerateJWT("owner-1", testSecret, -time.Minute, "test")
	require.NoError(t, err)
	foreign, err := utils.GenerateJWT("owner-1", "another-secret", time.Hour, "test")
	require.NoError(t, err)
	anonymous, err := utils.GenerateJWT("", testSecret, time.Hour, "test")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, `{"userID":"owner-1"}`},
		{"scheme is case insensitive", "bearer " + valid, http.StatusOK, `{"userID":"owner-1"}`},
		{"missing header", "", http.StatusUnauthorized, `{"error":"Authorization header required"}`},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, `{"error":"Authorization header format must be Bearer {token}"}`},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, `{"error":"Token has expired"}`},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized, `{"error":"Invalid token"}`},
		{"no subject", "Bearer " + anonymous, http.StatusUnauthorized, `{"error":"Invalid token claims"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestWebhookSignature(t *testing.T) {
	body := []byte(`{"intentId":"pi_1"}`)
	r := newRouter(middleware.WebhookSignature(testSecret))

	signed := httptest.NewRequest(http.MethodPost, "/probe", bytes.NewReader(body))
	signed.Header.Set(middleware.WebhookSignatureHeader, hex.EncodeToString(middleware.SignWebhookBody(testSecret, body)))
	assert.Equal(t, http.StatusOK, serve(r, signed).Code)

	tampered := httptest.NewRequest(http.MethodPost, "/probe", bytes.NewReader([]byte(`{"intentId":"pi_2"}`)))
	tampered.Header.Set(middleware.WebhookSignatureHeader, hex.EncodeToString(middleware.SignWebhookBody(testSecret, body)))
	assert.Equal(t, http.StatusUnauthorized, serve(r, tampered).Code)

	unsigned := httptest.NewRequest(http.MethodPost, "/probe", bytes.NewReader(body))
	assert.Equal(t, http.StatusUnauthorized, serve(r, unsigned).Code)

	open := newRouter(middleware.WebhookSignature(""))
	assert.Equal(t, http.StatusOK, serve(open, httptest.NewRequest(http.MethodPost, "/probe", bytes.NewReader(body))).Code)
}

func TestWebhookSignature_BodyStillReadable(t *testing.T) {
	body := []byte(`{"intentId":"pi_1","methodId":"pm_card_visa"}`)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/hook", middleware.WebhookSignature(testSecret), func(c *gin.Context) {
		var payload map[string]string
		require.NoError(t, c.ShouldBindJSON(&payload))
		c.JSON(http.StatusOK, payload)
	})

	req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body))
	req.Header.Set(middleware.WebhookSignatureHeader, hex.EncodeToString(middleware.SignWebhookBody(testSecret, body)))
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, string(body), w.Body.String())
}

func TestRateLimit(t *testing.T) {
	rate, err := limiter.NewRateFromFormatted("2-M")
	require.NoError(t, err)
	r := newRouter(middleware.RateLimit(limiter.New(limitermemory.NewStore(), rate)))

	first := serve(r, httptest.NewRequest(http.MethodGet, "/probe", nil))
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/probe", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/probe", nil)).Code)
}

func TestStructuredLoggingMiddleware_RequestID(t *testing.T) {
	r := newRouter(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Request-ID", "req-42")
	assert.Equal(t, "req-42", serve(r, req).Header().Get("X-Request-ID"))

	generated := serve(r, httptest.NewRequest(http.MethodGet, "/probe", nil)).Header().Get("X-Request-ID")
	assert.Len(t, generated, 36)
}

func TestEventNameForRoute(t *testing.T) {
	assert.Equal(t, "post_wallets_id_deposit", middleware.EventNameForRoute(http.MethodPost, "/api/v1/wallets/:id/deposit"))
	assert.Equal(t, "get_exchange-rates_from_to", middleware.EventNameForRoute(http.MethodGet, "/api/v1/exchange-rates/:from/:to"))
	assert.Equal(t, "post_webhooks_payments", middleware.EventNameForRoute(http.MethodPost, "/webhooks/payments"))
	assert.Equal(t, "", middleware.EventNameForRoute(http.MethodGet, ""))
}
