package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
	"github.com/Raymond9734/pizza-customer-console/internal/repository"
)

// FeedbackService handles customer feedback
type FeedbackService interface {
	List(ctx context.Context, customerID uuid.UUID) ([]*models.Feedback, error)
	Add(ctx context.Context, customerID uuid.UUID, req *FeedbackRequest) (*models.Feedback, error)
	Update(ctx context.Context, id uuid.UUID, req *FeedbackRequest) (*models.Feedback, error)
	Patch(ctx context.Context, id uuid.UUID, req *FeedbackRequest) (*models.Feedback, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
	logger       *slog.Logger
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(feedbackRepo repository.FeedbackRepository, logger *slog.Logger) FeedbackService {
	return &feedbackService{feedbackRepo: feedbackRepo, logger: logger}
}

func (s *feedbackService) List(ctx context.Context, customerID uuid.UUID) ([]*models.Feedback, error) {
	return s.feedbackRepo.List(ctx, customerID)
}

// Add leaves a note about a customer
func (s *feedbackService) Add(ctx context.Context, customerID uuid.UUID, req *FeedbackRequest) (*models.Feedback, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fb, err := s.feedbackRepo.Add(ctx, customerID, req.Text)
	if err != nil {
		s.logger.Error("failed to add feedback",
			slog.String("customer_id", customerID.String()),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("feedback added",
		slog.String("customer_id", customerID.String()),
		slog.String("feedback_id", fb.ID.String()),
	)
	return fb, nil
}

// Update replaces the text of a note
func (s *feedbackService) Update(ctx context.Context, id uuid.UUID, req *FeedbackRequest) (*models.Feedback, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.feedbackRepo.Update(ctx, id, req.Text)
}

// Patch edits the text of a note in place
func (s *feedbackService) Patch(ctx context.Context, id uuid.UUID, req *FeedbackRequest) (*models.Feedback, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.feedbackRepo.Patch(ctx, id, req.Text)
}

func (s *feedbackService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.feedbackRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("feedback deleted", slog.String("feedback_id", id.String()))
	return nil
}
