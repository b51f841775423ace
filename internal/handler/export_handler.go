package handler

import (
	"log/slog"
	"net/http"

	"github.com/Raymond9734/pizza-customer-console/internal/listing"
	"github.com/Raymond9734/pizza-customer-console/internal/service"
)

// ExportHandler queues exports of the customer list
type ExportHandler struct {
	exportService service.ExportService
	list          *listing.Controller
	logger        *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService service.ExportService, list *listing.Controller, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		list:          list,
		logger:        logger,
	}
}

// Create handles POST /exports. The job captures the list's current query.
func (h *ExportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ExportRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	job, err := h.exportService.Enqueue(r.Context(), &req, h.list.Query())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondAccepted(w, job)
}
