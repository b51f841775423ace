package worker

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
)

// mockSource serves customers, failing the first failures calls
type mockSource struct {
	customers []*models.CustomerRecord
	failures  int
	err       error
	calls     int
}

func (m *mockSource) List(ctx context.Context, params models.CustomerListParams) (*models.CustomerPage, error) {
	m.calls++
	if m.calls <= m.failures {
		return nil, m.err
	}
	return &models.CustomerPage{Content: m.customers, TotalElements: int64(len(m.customers))}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestProcessor(t *testing.T, src *mockSource, maxRetries int) (*ExportProcessor, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	p := NewExportProcessor(src, store, 0, maxRetries, testLogger())
	p.retryDelay = time.Millisecond
	p.now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }
	return p, dir
}

func customers() []*models.CustomerRecord {
	return []*models.CustomerRecord{
		{ID: uuid.New(), FirstName: "Zara", Email: "zara@x.com", Country: "India"},
		{ID: uuid.New(), FirstName: "Amit", Email: "amit@x.com", Country: "India"},
		{ID: uuid.New(), FirstName: "Bob", Email: "bob@x.com", Country: "USA"},
	}
}

func TestExportProcessor_CSVAppliesQuery(t *testing.T) {
	p, dir := newTestProcessor(t, &mockSource{customers: customers()}, 1)

	job := &models.ExportJob{
		ID:     uuid.New(),
		Format: models.ExportCSV,
		Query: models.ListQuery{
			Sort:    models.DefaultSort,
			Filters: models.Filters{Country: "India"},
		},
	}
	if err := p.Process(context.Background(), job); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	f, err := os.Open(filepath.Join(dir, job.ID.String()+".csv"))
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(rows) != 3 || rows[1][1] != "Amit" || rows[2][1] != "Zara" {
		t.Errorf("rows = %v, want header then Amit, Zara", rows)
	}
}

func TestExportProcessor_PDF(t *testing.T) {
	p, dir := newTestProcessor(t, &mockSource{customers: customers()}, 1)

	job := &models.ExportJob{ID: uuid.New(), Format: models.ExportPDF, Query: models.ListQuery{Sort: models.DefaultSort}}
	if err := p.Process(context.Background(), job); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, job.ID.String()+".pdf"))
	if err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Error("export is not a PDF")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, temp files should be gone", len(entries))
	}
}

func TestExportProcessor_Retries(t *testing.T) {
	tests := []struct {
		name       string
		failures   int
		err        error
		maxRetries int
		wantErr    bool
		wantCalls  int
	}{
		{"recovers after outage", 2, models.ErrUnavailable, 3, false, 3},
		{"gives up after max retries", 5, models.ErrUnavailable, 3, true, 3},
		{"no retry on client errors", 5, &models.APIError{Status: 400}, 3, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &mockSource{customers: customers(), failures: tt.failures, err: tt.err}
			p, _ := newTestProcessor(t, src, tt.maxRetries)

			err := p.Process(context.Background(), &models.ExportJob{ID: uuid.New(), Format: models.ExportCSV})
			if (err != nil) != tt.wantErr {
				t.Errorf("Process() error = %v, wantErr %v", err, tt.wantErr)
			}
			if src.calls != tt.wantCalls {
				t.Errorf("API calls = %d, want %d", src.calls, tt.wantCalls)
			}
			if tt.wantErr && !errors.Is(err, tt.err) {
				t.Errorf("error %v should wrap %v", err, tt.err)
			}
		})
	}
}

func TestExportProcessor_RejectsUnknownFormat(t *testing.T) {
	src := &mockSource{customers: customers()}
	p, _ := newTestProcessor(t, src, 1)

	if err := p.Process(context.Background(), &models.ExportJob{ID: uuid.New(), Format: "xls"}); err == nil {
		t.Error("Process() should reject unknown formats")
	}
	if src.calls != 0 {
		t.Error("unknown formats should not hit the API")
	}
}
