package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Raymond9734/pizza-customer-console/internal/form"
	"github.com/Raymond9734/pizza-customer-console/internal/models"
	"github.com/Raymond9734/pizza-customer-console/internal/service"
	"github.com/Raymond9734/pizza-customer-console/internal/validation"
)

// maxPhotoBytes bounds a photo upload
const maxPhotoBytes = 5 << 20

// FormRegistry keeps the open forms by ID
type FormRegistry struct {
	mu    sync.Mutex
	forms map[uuid.UUID]*openForm
}

type openForm struct {
	ctrl       *form.Controller
	customerID uuid.UUID
}

// NewFormRegistry creates an empty registry
func NewFormRegistry() *FormRegistry {
	return &FormRegistry{forms: make(map[uuid.UUID]*openForm)}
}

func (r *FormRegistry) open(ctrl *form.Controller, customerID uuid.UUID) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.forms[id] = &openForm{ctrl: ctrl, customerID: customerID}
	return id
}

func (r *FormRegistry) get(id uuid.UUID) (*openForm, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[id]
	return f, ok
}

func (r *FormRegistry) close(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.forms, id)
}

// Len returns the number of open forms
func (r *FormRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

// FormHandler handles registration and edit forms
type FormHandler struct {
	customerService service.CustomerService
	forms           *FormRegistry
	logger          *slog.Logger
}

// NewFormHandler creates a new form handler
func NewFormHandler(customerService service.CustomerService, forms *FormRegistry, logger *slog.Logger) *FormHandler {
	return &FormHandler{
		customerService: customerService,
		forms:           forms,
		logger:          logger,
	}
}

type openFormRequest struct {
	Mode       string    `json:"mode"`
	CustomerID uuid.UUID `json:"customerId"`
}

type fieldChange struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Checked *bool  `json:"checked,omitempty"`
}

type fieldsRequest struct {
	Changes []fieldChange `json:"changes"`
}

type blurRequest struct {
	Name string `json:"name"`
}

// FormResponse carries a form ID and its state
type FormResponse struct {
	ID    uuid.UUID  `json:"id"`
	State form.State `json:"state"`
}

// SubmitErrorResponse is returned when a submission is refused
type SubmitErrorResponse struct {
	Error ErrorDetail `json:"error"`
	State form.State  `json:"state"`
}

// Open handles POST /forms. Edit mode loads the customer first.
func (h *FormHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openFormRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	mode, ok := validation.ParseMode(req.Mode)
	if !ok {
		respondError(w, http.StatusBadRequest, models.CodeInvalidInput, "mode must be 'create' or 'edit'")
		return
	}

	var ctrl *form.Controller
	if mode == validation.ModeEdit {
		if req.CustomerID == uuid.Nil {
			respondError(w, http.StatusBadRequest, models.CodeInvalidInput, "customerId is required to edit")
			return
		}
		var err error
		ctrl, err = h.customerService.LoadForEdit(r.Context(), req.CustomerID)
		if err != nil {
			handleError(w, err, h.logger)
			return
		}
	} else {
		ctrl = h.customerService.NewForm()
	}

	id := h.forms.open(ctrl, req.CustomerID)
	h.logger.Info("form opened",
		slog.String("form_id", id.String()),
		slog.String("mode", mode.String()),
	)
	respondCreated(w, FormResponse{ID: id, State: ctrl.Snapshot()})
}

// Get handles GET /forms/{formID}
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, f, ok := h.lookup(w, r)
	if !ok {
		return
	}
	respondSuccess(w, FormResponse{ID: id, State: f.ctrl.Snapshot()})
}

// UpdateFields handles PATCH /forms/{formID}/fields. Changes apply in order;
// the first unknown field stops the batch.
func (h *FormHandler) UpdateFields(w http.ResponseWriter, r *http.Request) {
	id, f, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req fieldsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	for _, ch := range req.Changes {
		var err error
		switch {
		case ch.Name == validation.FieldInterests:
			f.ctrl.ToggleInterest(ch.Value, ch.Checked == nil || *ch.Checked)
		case ch.Checked != nil:
			err = f.ctrl.SetChecked(ch.Name, *ch.Checked)
		default:
			err = f.ctrl.SetField(ch.Name, ch.Value)
		}
		if err != nil {
			handleError(w, err, h.logger)
			return
		}
	}

	respondSuccess(w, FormResponse{ID: id, State: f.ctrl.Snapshot()})
}

// Blur handles POST /forms/{formID}/blur
func (h *FormHandler) Blur(w http.ResponseWriter, r *http.Request) {
	id, f, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req blurRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	f.ctrl.Blur(req.Name)

	respondSuccess(w, FormResponse{ID: id, State: f.ctrl.Snapshot()})
}

// SetPhoto handles PUT /forms/{formID}/photo with a multipart "photo" file
func (h *FormHandler) SetPhoto(w http.ResponseWriter, r *http.Request) {
	id, f, ok := h.lookup(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes+1<<10)
	file, header, err := r.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, models.CodeInvalidInput, "photo must be at most 5 MB")
			return
		}
		respondError(w, http.StatusBadRequest, models.CodeInvalidInput, "photo file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, models.CodeInvalidInput, "failed to read photo")
		return
	}
	if len(data) > maxPhotoBytes {
		respondError(w, http.StatusRequestEntityTooLarge, models.CodeInvalidInput, "photo must be at most 5 MB")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		respondError(w, http.StatusBadRequest, models.CodeInvalidInput, "photo must be an image")
		return
	}

	f.ctrl.SetPhoto(&models.Attachment{
		FileName:    header.Filename,
		ContentType: contentType,
		Data:        data,
	})

	respondSuccess(w, FormResponse{ID: id, State: f.ctrl.Snapshot()})
}

// RemovePhoto handles DELETE /forms/{formID}/photo
func (h *FormHandler) RemovePhoto(w http.ResponseWriter, r *http.Request) {
	id, f, ok := h.lookup(w, r)
	if !ok {
		return
	}
	f.ctrl.SetPhoto(nil)
	respondSuccess(w, FormResponse{ID: id, State: f.ctrl.Snapshot()})
}

// Submit handles POST /forms/{formID}/submit. A saved form is closed; a
// refused one stays open and its state is returned with the error.
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, f, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var (
		result *service.SubmitResult
		err    error
	)
	if f.ctrl.Mode() == validation.ModeEdit {
		result, err = h.customerService.Update(r.Context(), f.customerID, f.ctrl)
	} else {
		result, err = h.customerService.Register(r.Context(), f.ctrl)
	}

	if err != nil {
		h.respondSubmitError(w, err, f.ctrl.Snapshot())
		return
	}

	h.forms.close(id)
	if f.ctrl.Mode() == validation.ModeEdit {
		respondSuccess(w, result)
		return
	}
	respondCreated(w, result)
}

// Discard handles DELETE /forms/{formID}
func (h *FormHandler) Discard(w http.ResponseWriter, r *http.Request) {
	id, _, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.forms.close(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *FormHandler) lookup(w http.ResponseWriter, r *http.Request) (uuid.UUID, *openForm, bool) {
	id, ok := pathID(w, r, "formID")
	if !ok {
		return uuid.Nil, nil, false
	}
	f, ok := h.forms.get(id)
	if !ok {
		respondError(w, http.StatusNotFound, models.CodeNotFound, "form not found")
		return uuid.Nil, nil, false
	}
	return id, f, true
}

func (h *FormHandler) respondSubmitError(w http.ResponseWriter, err error, state form.State) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		handleError(w, err, h.logger)
		return
	}
	respondJSON(w, mapErrorCodeToHTTPStatus(appErr.Code), SubmitErrorResponse{
		Error: ErrorDetail{Code: appErr.Code, Message: appErr.Message},
		State: state,
	})
}
