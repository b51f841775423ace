package worker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ExportStore persists finished export files
type ExportStore interface {
	// Save streams an export named name through write and returns where it landed
	Save(ctx context.Context, name string, write func(w io.Writer) error) (string, error)
}

// fileStore writes exports into a local directory
type fileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating it if needed
func NewFileStore(dir string) (ExportStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &fileStore{dir: dir}, nil
}

// Save writes to a temp file first so readers never see a partial export
func (s *fileStore) Save(ctx context.Context, name string, write func(w io.Writer) error) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move export into place: %w", err)
	}
	return path, nil
}
