package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimitMiddleware caps requests per client address in a sliding window.
type RateLimitMiddleware struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	now      func() time.Time
}

// NewRateLimitMiddleware creates a new rate limiting middleware
func NewRateLimitMiddleware() *RateLimitMiddleware {
	return &RateLimitMiddleware{
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// RateLimit allows at most maxRequests per client within window.
func (m *RateLimitMiddleware) RateLimit(maxRequests int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)
			now := m.now()
			windowStart := now.Add(-window)

			m.mu.Lock()
			kept := m.requests[clientIP][:0]
			for _, ts := range m.requests[clientIP] {
				if ts.After(windowStart) {
					kept = append(kept, ts)
				}
			}

			if len(kept) >= maxRequests {
				m.requests[clientIP] = kept
				m.mu.Unlock()
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			m.requests[clientIP] = append(kept, now)
			m.mu.Unlock()

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
