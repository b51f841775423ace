package repository

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
)

// FeedbackRepository defines the interface for customer feedback access
type FeedbackRepository interface {
	List(ctx context.Context, customerID uuid.UUID) ([]*models.Feedback, error)
	Add(ctx context.Context, customerID uuid.UUID, text string) (*models.Feedback, error)
	Update(ctx context.Context, id uuid.UUID, text string) (*models.Feedback, error)
	Patch(ctx context.Context, id uuid.UUID, text string) (*models.Feedback, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type feedbackRepository struct {
	api    *APIClient
	logger *slog.Logger
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(api *APIClient, logger *slog.Logger) FeedbackRepository {
	return &feedbackRepository{api: api, logger: logger}
}

// List retrieves the feedback left for a customer
func (r *feedbackRepository) List(ctx context.Context, customerID uuid.UUID) ([]*models.Feedback, error) {
	var out []*models.Feedback
	if err := r.api.do(ctx, http.MethodGet, "/api/feedback/"+customerID.String(), nil, "", &out); err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	if out == nil {
		out = []*models.Feedback{}
	}
	return out, nil
}

// Add leaves a note about a customer
func (r *feedbackRepository) Add(ctx context.Context, customerID uuid.UUID, text string) (*models.Feedback, error) {
	fb, err := r.sendText(ctx, http.MethodPost, "/api/feedback/"+customerID.String(), text)
	if err != nil {
		return nil, fmt.Errorf("failed to add feedback: %w", err)
	}
	return fb, nil
}

// Update replaces the text of a note
func (r *feedbackRepository) Update(ctx context.Context, id uuid.UUID, text string) (*models.Feedback, error) {
	fb, err := r.sendText(ctx, http.MethodPut, "/api/feedback/"+id.String(), text)
	if err != nil {
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}
	return fb, nil
}

// Patch partially updates a note
func (r *feedbackRepository) Patch(ctx context.Context, id uuid.UUID, text string) (*models.Feedback, error) {
	fb, err := r.sendText(ctx, http.MethodPatch, "/api/feedback/"+id.String(), text)
	if err != nil {
		return nil, fmt.Errorf("failed to patch feedback: %w", err)
	}
	return fb, nil
}

// Delete removes a note
func (r *feedbackRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.api.do(ctx, http.MethodDelete, "/api/feedback/"+id.String(), nil, "", nil)
	if isNotFound(err) {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("feedback with ID %s not found", id))
	}
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	return nil
}

func (r *feedbackRepository) sendText(ctx context.Context, method, path, text string) (*models.Feedback, error) {
	form := url.Values{}
	form.Set("text", strings.TrimSpace(text))

	fb := &models.Feedback{}
	err := r.api.do(ctx, method, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", fb)
	if err != nil {
		return nil, err
	}
	return fb, nil
}
