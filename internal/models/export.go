package models

import "github.com/google/uuid"

// Export formats
const (
	ExportCSV = "csv"
	ExportPDF = "pdf"
)

// ExportJob asks the worker to write the customers matching Query to a file
type ExportJob struct {
	ID     uuid.UUID `json:"id"`
	Format string    `json:"format"`
	Query  ListQuery `json:"query"`
}

// IsValidExportFormat checks if the export format is supported
func IsValidExportFormat(format string) bool {
	return format == ExportCSV || format == ExportPDF
}
