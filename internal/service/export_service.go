package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
	"github.com/Raymond9734/pizza-customer-console/internal/notify"
	"github.com/Raymond9734/pizza-customer-console/internal/queue"
)

const msgExporting = "Exporting customer data..."

// ExportService queues exports of the customer list
type ExportService interface {
	Enqueue(ctx context.Context, req *ExportRequest, query models.ListQuery) (*models.ExportJob, error)
}

type exportService struct {
	queueClient queue.Client
	notifier    notify.Notifier
	logger      *slog.Logger
}

// NewExportService creates a new export service
func NewExportService(queueClient queue.Client, notifier notify.Notifier, logger *slog.Logger) ExportService {
	return &exportService{
		queueClient: queueClient,
		notifier:    notifier,
		logger:      logger,
	}
}

// Enqueue snapshots query into an export job and publishes it
func (s *exportService) Enqueue(ctx context.Context, req *ExportRequest, query models.ListQuery) (*models.ExportJob, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	job := &models.ExportJob{
		ID:     uuid.New(),
		Format: req.Format,
		Query:  query,
	}

	if err := s.queueClient.Publish(ctx, job); err != nil {
		s.logger.Error("failed to queue export",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()),
		)
		s.notifier.Show("Failed to start export.", notify.KindError)
		return nil, fmt.Errorf("failed to queue export: %w", err)
	}

	s.logger.Info("export queued",
		slog.String("job_id", job.ID.String()),
		slog.String("format", job.Format),
	)
	s.notifier.Show(msgExporting, notify.KindSuccess)
	return job, nil
}
