package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/lepinkainen/cinefeed/internal/errors"
	"github.com/lepinkainen/cinefeed/internal/tmdb"
)

// Envelope is the body of every API response.
type Envelope struct {
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Details map[string]string `json:"details,omitempty"`
	Success bool              `json:"success"`
}

// writeJSON writes data wrapped in an envelope. Success follows the status code.
func writeJSON(w http.ResponseWriter, status int, envelope Envelope, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	envelope.Success = status < 400
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

func success(w http.ResponseWriter, data any, logger *slog.Logger) {
	writeJSON(w, http.StatusOK, Envelope{Data: data}, logger)
}

func errorResponse(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	writeJSON(w, status, Envelope{Error: message}, logger)
}

// handleError maps an error to a status code:
// validation and unknown kind/category -> 400, unresolvable genre -> 404,
// upstream rate limit -> 503 with Retry-After, other upstream failures -> 502.
func handleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, Envelope{Error: validationErr.Message, Details: validationErr.Fields}, logger)
		return
	}

	if errors.Is(err, tmdb.ErrInvalidMediaType) || errors.Is(err, tmdb.ErrInvalidCategory) {
		errorResponse(w, http.StatusBadRequest, err.Error(), logger)
		return
	}

	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		errorResponse(w, http.StatusNotFound, fmt.Sprintf("genre %q not found", notFound.Slug), logger)
		return
	}

	var rateLimited *apperrors.RateLimitError
	if errors.As(err, &rateLimited) {
		if rateLimited.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(rateLimited.RetryAfter.Seconds())))
		}
		errorResponse(w, http.StatusServiceUnavailable, "upstream catalog is rate limiting requests", logger)
		return
	}

	var fetchErr *apperrors.FetchError
	if errors.As(err, &fetchErr) {
		logger.Warn("Upstream fetch failed", "status", fetchErr.StatusCode, "endpoint", fetchErr.Endpoint)
		errorResponse(w, http.StatusBadGateway, "upstream catalog request failed", logger)
		return
	}

	logger.Error("Unhandled error", "error", err)
	errorResponse(w, http.StatusBadGateway, "upstream catalog unavailable", logger)
}
