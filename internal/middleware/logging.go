// Package middleware holds the HTTP middleware of the portal's local
// listener.
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request with its status and latency.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		entry := log.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"elapsed":    time.Since(start),
			"request_id": chimw.GetReqID(r.Context()),
		})
		if ww.Status() >= http.StatusInternalServerError {
			entry.Error("Request failed")
			return
		}
		entry.Info("Request handled")
	})
}
