package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
)

// handleError maps service errors to HTTP responses
func handleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	// Check for custom AppError
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		status := mapErrorCodeToHTTPStatus(appErr.Code)
		respondError(w, status, appErr.Code, appErr.Message)
		return
	}

	var apiErr *models.APIError
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondError(w, http.StatusNotFound, models.CodeNotFound, err.Error())

	case errors.Is(err, models.ErrConflict):
		respondError(w, http.StatusConflict, models.CodeConflict, err.Error())

	case errors.Is(err, models.ErrUnavailable):
		logger.Warn("customer API unavailable", slog.String("error", err.Error()))
		respondError(w, http.StatusBadGateway, models.CodeUpstream, "The customer service is unavailable")

	case errors.As(err, &apiErr):
		logger.Warn("customer API rejected request",
			slog.Int("status", apiErr.Status),
			slog.String("error", err.Error()),
		)
		respondError(w, http.StatusBadGateway, models.CodeUpstream, apiErr.Message)

	default:
		// Log internal errors but don't expose details to client
		logger.Error("internal server error",
			slog.String("error", err.Error()),
		)
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case models.CodeInvalidInput:
		return http.StatusBadRequest
	case models.CodeNotFound:
		return http.StatusNotFound
	case models.CodeConflict:
		return http.StatusConflict
	case models.CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
