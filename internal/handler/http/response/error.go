package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses by their kind.
func HandleError(w http.ResponseWriter, err error) {
	// Field errors carry per-field details.
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired), errors.Is(err, auth.ErrMissingPrincipal):
		Unauthorized(w, apperror.Message(err))
	case errors.Is(err, apperror.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, CodeValidation, apperror.Message(err))
	case errors.Is(err, apperror.ErrConflict):
		Conflict(w, apperror.Message(err))
	case errors.Is(err, apperror.ErrForbidden):
		Forbidden(w, apperror.Message(err))
	case errors.Is(err, apperror.ErrNotFound):
		NotFound(w, apperror.Message(err))
	case errors.Is(err, apperror.ErrUnavailable):
		slog.Warn("Record store unavailable", "error", err)
		ServiceUnavailable(w, "The record store did not respond, the operation may or may not have been applied")

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
