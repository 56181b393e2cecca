// Package errhttp maps inventory error kinds to HTTP responses.
// Add a case to statusFor for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/ghuser/stockkeeper/pkg/httpx"
	"github.com/ghuser/stockkeeper/pkg/telemetry"
	"github.com/ghuser/stockkeeper/services/inventory/domain"
)

// RetryAfterSeconds is advertised on lock timeouts; the operation is safe to retry.
const RetryAfterSeconds = "1"

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error      string     `json:"error"                 example:"insufficient Cocoa Butter: need 350kg, have 200kg"`
	Kind       string     `json:"kind,omitempty"        example:"insufficient_stock"`
	ResourceID *uuid.UUID `json:"resource_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
} // @name ErrorResponse

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly. 5xx errors
// are reported to Sentry, and in production their message is replaced with the
// status text.
func WriteError(w http.ResponseWriter, r *http.Request, err error, isProduction bool) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		telemetry.CaptureError(r.Context(), err)
	}
	body := ErrorResponse{
		Error: httpx.SafeError(err, status, isProduction),
		Kind:  domain.Kind(err),
	}
	if id, ok := domain.ResourceID(err); ok {
		body.ResourceID = &id
	}
	if status == http.StatusConflict {
		w.Header().Set("Retry-After", RetryAfterSeconds)
	}
	httpx.JSON(w, status, body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound // 404
	case errors.Is(err, domain.ErrInvalidAdjustment),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidRecipe),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidStockItem):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, domain.ErrLockTimeout):
		return http.StatusConflict // 409, retryable
	default:
		return http.StatusInternalServerError // 500
	}
}
