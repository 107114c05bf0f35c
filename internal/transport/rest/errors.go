package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/mushaf-layout/internal/domain"
)

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrOutOfRange), errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPageNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStoreNotFound):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Error codes carried in the "error" field of every error body.
const (
	codeOutOfRange        = "out_of_range"
	codeValidation        = "validation"
	codePageNotFound      = "page_not_found"
	codeStoreNotFound     = "store_not_found"
	codeRemoteUnavailable = "remote_unavailable"
	codeTimeout           = "timeout"
	codeLayoutAnomaly     = "layout_anomaly"
	codeInternal          = "internal"
)

// codeFor maps domain errors to stable error codes.
func codeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrOutOfRange):
		return codeOutOfRange
	case errors.Is(err, domain.ErrValidation):
		return codeValidation
	case errors.Is(err, domain.ErrPageNotFound):
		return codePageNotFound
	case errors.Is(err, domain.ErrStoreNotFound):
		return codeStoreNotFound
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return codeRemoteUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return codeTimeout
	case errors.Is(err, domain.ErrLayoutAnomaly):
		return codeLayoutAnomaly
	default:
		return codeInternal
	}
}

// handleError writes the mapped status. Unexpected errors are logged and
// their message is not exposed.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, code := statusFor(err), codeFor(err)
	switch {
	case status == http.StatusInternalServerError:
		log.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, status, code, "internal server error")
		return
	case status > http.StatusInternalServerError:
		log.WarnContext(r.Context(), "page source unavailable",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	writeError(w, status, code, err.Error())
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}
