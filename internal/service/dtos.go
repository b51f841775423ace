package service

import (
	"strings"
	"unicode/utf8"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
)

// MaxFeedbackLength is the longest note the customer API stores
const MaxFeedbackLength = 1000

// FeedbackRequest represents a request to add or edit a note
type FeedbackRequest struct {
	Text string `json:"text"`
}

// Validate trims the text and checks it fits
func (r *FeedbackRequest) Validate() error {
	r.Text = strings.TrimSpace(r.Text)
	if r.Text == "" {
		return models.ErrInvalidInput("feedback text is required")
	}
	if utf8.RuneCountInString(r.Text) > MaxFeedbackLength {
		return models.ErrInvalidInput("feedback text must be at most 1000 characters")
	}
	return nil
}

// ExportRequest represents a request to export the current customer list
type ExportRequest struct {
	Format string `json:"format"`
}

// Validate performs validation on the export request
func (r *ExportRequest) Validate() error {
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	if r.Format == "" {
		r.Format = models.ExportCSV
	}
	if !models.IsValidExportFormat(r.Format) {
		return models.ErrInvalidInput("invalid format (must be 'csv' or 'pdf')")
	}
	return nil
}

// SubmitResult is the outcome of a form submission
type SubmitResult struct {
	Customer *models.CustomerRecord `json:"customer"`
	Message  string                 `json:"message"`
}
