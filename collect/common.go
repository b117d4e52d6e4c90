package collect

import (
	"context"
	"errors"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
)

const (
	MaxRetryCount = 3
	SleepTime     = 1 * time.Second

	// Deadline attached to every remote call.
	callTimeout = 30 * time.Second

	// Limiter settings for outbound Gmail calls, shared by listing and
	// per-message fetches within a request.
	callsPerSecond = 50
	callBurst      = 5
)

func isRetryError(err error) bool {
	// Deadline expiry on an idempotent read is a transient failure.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		return googleErr.Code == http.StatusTooManyRequests
	}
	return false
}
