package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Raymond9734/pizza-customer-console/internal/listing"
	"github.com/Raymond9734/pizza-customer-console/internal/models"
	"github.com/Raymond9734/pizza-customer-console/internal/report"
)

// ExportProcessor turns export jobs into files
type ExportProcessor struct {
	source     listing.Source
	store      ExportStore
	fetchCap   int
	maxRetries int
	retryDelay time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// NewExportProcessor creates a new export processor
func NewExportProcessor(
	source listing.Source,
	store ExportStore,
	fetchCap int,
	maxRetries int,
	logger *slog.Logger,
) *ExportProcessor {
	if fetchCap <= 0 {
		fetchCap = models.MaxPageSize
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &ExportProcessor{
		source:     source,
		store:      store,
		fetchCap:   fetchCap,
		maxRetries: maxRetries,
		retryDelay: time.Second,
		now:        time.Now,
		logger:     logger,
	}
}

// Process handles a single export job
func (p *ExportProcessor) Process(ctx context.Context, job *models.ExportJob) error {
	if !models.IsValidExportFormat(job.Format) {
		return models.ErrInvalidInput(fmt.Sprintf("unsupported export format %q", job.Format))
	}

	page, err := p.fetch(ctx)
	if err != nil {
		p.logger.Error("export failed to load customers",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to load customers: %w", err)
	}

	now := p.now()
	q := job.Query
	rows := listing.Apply(page.Content, q.EffectiveSearch, q.Filters, q.Sort, now)

	name := job.ID.String() + "." + job.Format
	path, err := p.store.Save(ctx, name, func(w io.Writer) error {
		return report.Render(w, job.Format, rows, now)
	})
	if err != nil {
		p.logger.Error("failed to write export",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to write export: %w", err)
	}

	p.logger.Info("export written",
		slog.String("job_id", job.ID.String()),
		slog.String("format", job.Format),
		slog.Int("rows", len(rows)),
		slog.String("path", path),
	)
	return nil
}

// fetch loads every customer, retrying while the API is unreachable
func (p *ExportProcessor) fetch(ctx context.Context) (*models.CustomerPage, error) {
	params := models.CustomerListParams{
		PageSize: p.fetchCap,
		Sort:     models.DefaultSort.Key + "," + string(models.DefaultSort.Direction),
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		page, err := p.source.List(ctx, params)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if !errors.Is(err, models.ErrUnavailable) || attempt == p.maxRetries {
			break
		}

		p.logger.Warn("customer API unavailable, retrying export fetch",
			slog.Int("attempt", attempt),
			slog.Int("max_retries", p.maxRetries),
		)

		select {
		case <-time.After(p.retryDelay * time.Duration(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}
