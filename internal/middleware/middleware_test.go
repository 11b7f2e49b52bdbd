package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitMiddleware(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	m := NewRateLimitMiddleware()
	m.now = func() time.Time { return now }

	calls := 0
	handler := m.RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	serve := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/payment/return", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, serve("127.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, serve("127.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, serve("127.0.0.1:5002"))
	assert.Equal(t, http.StatusOK, serve("10.0.0.2:5000"))

	now = now.Add(61 * time.Second)
	assert.Equal(t, http.StatusOK, serve("127.0.0.1:5003"))
	assert.Equal(t, 4, calls)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	assert.Equal(t, "192.168.1.1", getClientIP(req))

	req.Header.Set("X-Real-IP", "10.1.1.1")
	assert.Equal(t, "10.1.1.1", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", getClientIP(req))
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusAccepted, w.Code)
}
