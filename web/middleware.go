package web

import (
	"log/slog"
	"net/http"
)

// Size limit constants
const (
	DefaultMaxBodySize     = 512 << 10 // 512 KB
	SaveRequestMaxBodySize = 1 << 20   // 1 MB
)

// RequestSizeLimitMiddleware limits the size of request bodies
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Wrap the request body with MaxBytesReader
			// This prevents the server from reading more than maxBytes
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}

// handleMaxBytesError checks if an error is due to request body being too large
func handleMaxBytesError(w http.ResponseWriter, r *http.Request, err error, maxBytes int64) bool {
	if err == nil {
		return false
	}

	errMsg := err.Error()
	if errMsg != "http: request body too large" &&
		errMsg != "request body too large" {
		return false
	}

	slog.Warn("Request body size limit exceeded",
		"remote_addr", r.RemoteAddr,
		"method", r.Method,
		"path", r.URL.Path,
		"max_bytes", maxBytes)

	writeJSONResponse(w, errorResponse{Error: "Request body exceeds maximum allowed size"},
		http.StatusRequestEntityTooLarge)
	return true
}
