package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Raymond9734/pizza-customer-console/internal/listing"
	"github.com/Raymond9734/pizza-customer-console/internal/service"
)

// ListHandler exposes the customer list view
type ListHandler struct {
	list            *listing.Controller
	customerService service.CustomerService
	logger          *slog.Logger
}

// NewListHandler creates a new list handler
func NewListHandler(list *listing.Controller, customerService service.CustomerService, logger *slog.Logger) *ListHandler {
	return &ListHandler{
		list:            list,
		customerService: customerService,
		logger:          logger,
	}
}

type searchRequest struct {
	Term string `json:"term"`
}

type sortRequest struct {
	Key string `json:"key"`
}

type filterRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type pageRequest struct {
	Page int `json:"page"`
}

type modeRequest struct {
	Mode listing.ViewMode `json:"mode"`
}

// View handles GET /customers/view
func (h *ListHandler) View(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.list.View())
}

// Search handles POST /customers/view/search. The term applies after the
// search delay; an empty term clears the search at once.
func (h *ListHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Term == "" {
		h.list.ClearSearch()
	} else {
		h.list.SetSearchTerm(req.Term)
	}
	respondAccepted(w, h.list.View())
}

// Sort handles POST /customers/view/sort
func (h *ListHandler) Sort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.list.SetSort(req.Key); err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondSuccess(w, h.list.View())
}

// SetFilter handles POST /customers/view/filters
func (h *ListHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.list.SetFilter(req.Name, req.Value); err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondSuccess(w, h.list.View())
}

// ClearFilters handles DELETE /customers/view/filters
func (h *ListHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	h.list.ClearFilters()
	respondSuccess(w, h.list.View())
}

// Page handles POST /customers/view/page
func (h *ListHandler) Page(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.list.SetPage(req.Page)
	respondSuccess(w, h.list.View())
}

// Mode handles POST /customers/view/mode
func (h *ListHandler) Mode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.list.SetViewMode(req.Mode); err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondSuccess(w, h.list.View())
}

// Refresh handles POST /customers/view/refresh?background=true.
// A failed load is reported inside the view, not as an HTTP error.
func (h *ListHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	background, _ := strconv.ParseBool(r.URL.Query().Get("background"))

	if err := h.list.Refresh(r.Context(), background); err != nil {
		h.logger.Warn("customer list refresh failed", slog.String("error", err.Error()))
	}
	respondSuccess(w, h.list.View())
}

// DeleteCustomer handles DELETE /customers/{id}
func (h *ListHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.customerService.Delete(r.Context(), id, h.list); err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondSuccess(w, h.list.View())
}
