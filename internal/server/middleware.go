package server

import (
	"net/http"
	"time"

	"github.com/Ckr1111/darlybot/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// CORS allows the companion web page (served from another origin) to call
// the bridge, and answers preflight requests directly.
func CORS() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger tags each request with a generated ID and logs method,
// path, and duration.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := shared.GenerateID()
			start := time.Now()
			r.Header.Set("X-Request-ID", id)
			next.ServeHTTP(w, r)
			logger.Info("request",
				"id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start),
			)
		})
	}
}

// RateLimit rejects requests beyond the configured rate with 429. The
// selection endpoint drives a physical key sequence, so bursts from the web
// page must not queue up behind each other.
func RateLimit(limit float64, burst int) Middleware {
	if limit <= 0 {
		limit = 2
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(limit), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && !limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, errorBody{
					Error:  "rate_limited",
					Detail: "too many selection requests",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
