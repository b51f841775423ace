package queue

import (
	"context"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
)

// Client defines the interface for export queue operations
type Client interface {
	// Publish sends an export job to the queue
	Publish(ctx context.Context, job *models.ExportJob) error

	// Consume receives jobs from the queue and processes them with the handler.
	// concurrency controls how many jobs can be processed simultaneously
	Consume(ctx context.Context, handler JobHandler, concurrency int) error

	// Close closes the queue connection
	Close() error

	// QueueLength returns the number of exports waiting to run
	QueueLength(ctx context.Context) (int64, error)

	// Health checks if the queue is healthy
	Health(ctx context.Context) error
}

// JobHandler is a function that processes an export job
type JobHandler func(ctx context.Context, job *models.ExportJob) error
