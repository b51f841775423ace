package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
	"github.com/Raymond9734/pizza-customer-console/internal/service"
)

// FeedbackHandler handles customer feedback notes
type FeedbackHandler struct {
	feedbackService service.FeedbackService
	logger          *slog.Logger
}

// NewFeedbackHandler creates a new feedback handler
func NewFeedbackHandler(feedbackService service.FeedbackService, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		logger:          logger,
	}
}

// List handles GET /customers/{id}/feedback
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	entries, err := h.feedbackService.List(r.Context(), customerID)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondSuccess(w, entries)
}

// Add handles POST /customers/{id}/feedback
func (h *FeedbackHandler) Add(w http.ResponseWriter, r *http.Request) {
	customerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req service.FeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.feedbackService.Add(r.Context(), customerID, &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondCreated(w, entry)
}

// Update handles PUT /feedback/{feedbackID}
func (h *FeedbackHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, h.feedbackService.Update)
}

// Patch handles PATCH /feedback/{feedbackID}
func (h *FeedbackHandler) Patch(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, h.feedbackService.Patch)
}

// Delete handles DELETE /feedback/{feedbackID}
func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "feedbackID")
	if !ok {
		return
	}

	if err := h.feedbackService.Delete(r.Context(), id); err != nil {
		handleError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *FeedbackHandler) edit(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id uuid.UUID, req *service.FeedbackRequest) (*models.Feedback, error)) {
	id, ok := pathID(w, r, "feedbackID")
	if !ok {
		return
	}

	var req service.FeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := apply(r.Context(), id, &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondSuccess(w, entry)
}
