package api

import (
	"errors"
	"net/http"

	"truckrental/internal/domain"

	"github.com/rs/zerolog"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	writeJSON(w, statusCode, errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFrom(r.Context()),
	})
}

// respondDomainError maps service errors onto HTTP status codes.
func respondDomainError(w http.ResponseWriter, r *http.Request, logger *zerolog.Logger, err error) {
	var conflict domain.ConflictError

	switch {
	case domain.IsValidation(err):
		writeError(w, r, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsInvalidState(err):
		writeError(w, r, http.StatusBadRequest, "invalid_state", err.Error())
	case domain.IsUnauthorized(err):
		writeError(w, r, http.StatusUnauthorized, "unauthorized", err.Error())
	case domain.IsForbidden(err):
		writeError(w, r, http.StatusForbidden, "forbidden", err.Error())
	case domain.IsNotFound(err):
		writeError(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.As(err, &conflict):
		msg := conflict.Msg
		if msg == "" {
			msg = conflict.Error()
		}
		writeError(w, r, http.StatusConflict, "conflict", msg)
	case domain.IsRateLimited(err):
		writeError(w, r, http.StatusTooManyRequests, "rate_limited", err.Error())
	default:
		logger.Error().Err(err).Str("request_id", requestIDFrom(r.Context())).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
