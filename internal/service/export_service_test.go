package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
	"github.com/Raymond9734/pizza-customer-console/internal/notify"
	"github.com/Raymond9734/pizza-customer-console/internal/queue"
)

// mockQueueClient records published jobs
type mockQueueClient struct {
	published []*models.ExportJob
	err       error
}

func (m *mockQueueClient) Publish(ctx context.Context, job *models.ExportJob) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, job)
	return nil
}

func (m *mockQueueClient) Consume(ctx context.Context, handler queue.JobHandler, concurrency int) error {
	return nil
}

func (m *mockQueueClient) QueueLength(ctx context.Context) (int64, error) {
	return int64(len(m.published)), nil
}

func (m *mockQueueClient) Close() error                     { return nil }
func (m *mockQueueClient) Health(ctx context.Context) error { return m.err }

func TestExportService_Enqueue(t *testing.T) {
	query := models.ListQuery{
		EffectiveSearch: "john",
		Sort:            models.SortConfig{Key: "email", Direction: models.SortDesc},
		Filters:         models.Filters{Country: "India"},
	}

	tests := []struct {
		name       string
		format     string
		wantFormat string
		wantErr    bool
	}{
		{"default csv", "", models.ExportCSV, false},
		{"pdf upper case", "PDF", models.ExportPDF, false},
		{"unsupported", "xlsx", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &mockQueueClient{}
			n := &mockNotifier{}
			svc := NewExportService(q, n, testLogger())

			job, err := svc.Enqueue(context.Background(), &ExportRequest{Format: tt.format}, query)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Enqueue() should fail")
				}
				if len(q.published) != 0 {
					t.Error("nothing should be published")
				}
				return
			}

			if err != nil {
				t.Fatalf("Enqueue() error = %v", err)
			}
			if job.Format != tt.wantFormat || job.Query != query {
				t.Errorf("job = %+v", job)
			}
			if len(q.published) != 1 || q.published[0].ID != job.ID {
				t.Errorf("published = %v", q.published)
			}
			if got := n.last(t); got.Message != msgExporting || got.Kind != notify.KindSuccess {
				t.Errorf("toast = %+v", got)
			}
		})
	}
}

func TestExportService_PublishFailure(t *testing.T) {
	q := &mockQueueClient{err: errors.New("redis down")}
	n := &mockNotifier{}
	svc := NewExportService(q, n, testLogger())

	if _, err := svc.Enqueue(context.Background(), &ExportRequest{}, models.ListQuery{}); err == nil {
		t.Fatal("Enqueue() should fail when the queue is down")
	}
	if got := n.last(t); got.Kind != notify.KindError {
		t.Errorf("toast = %+v", got)
	}
}
