// package server exposes the song-select bridge over HTTP for the companion
// web page: resolve a request, compute the key plan, hand it to the input
// backend, and report the result as JSON.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// The bridge uses middleware for CORS, request logging, and rate limiting.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for the bridge's HTTP request handlers.
// Implementations serve one endpoint group (selection, status, history).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the "METHOD /path" patterns this handler serves
}

// writeJSON encodes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are gone at this point; nothing left to do but log.
		log.Default().Error("failed to encode response", "err", err)
	}
}

// errorBody is the uniform JSON error shape: a stable kind plus a
// human-readable detail, and optional candidate/suggestion lists.
type errorBody struct {
	Error       string   `json:"error"`
	Detail      string   `json:"detail,omitempty"`
	Candidates  []string `json:"candidates,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}
