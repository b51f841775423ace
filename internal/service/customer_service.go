package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/google/uuid"

	"github.com/Raymond9734/pizza-customer-console/internal/form"
	"github.com/Raymond9734/pizza-customer-console/internal/location"
	"github.com/Raymond9734/pizza-customer-console/internal/models"
	"github.com/Raymond9734/pizza-customer-console/internal/notify"
	"github.com/Raymond9734/pizza-customer-console/internal/repository"
	"github.com/Raymond9734/pizza-customer-console/internal/validation"
)

// Toast texts shown for customer operations
const (
	msgRegistered       = "Registration successful!"
	msgUpdated          = "Customer updated successfully!"
	msgDeleted          = "Customer deleted successfully."
	msgFixForm          = "Please fix the highlighted fields."
	msgRegisterFailed   = "Registration failed. Please check your information and try again."
	msgUpdateFailed     = "Update failed. Please check your information and try again."
	msgDeleteFailed     = "Failed to delete customer."
	msgLoadCustomerFail = "Failed to load customer data."
)

// ListRefresher is the part of the customer list reloaded after a delete
type ListRefresher interface {
	Refresh(ctx context.Context, background bool) error
}

// CustomerService handles customer business logic
type CustomerService interface {
	NewForm() *form.Controller
	LoadForEdit(ctx context.Context, id uuid.UUID) (*form.Controller, error)
	Register(ctx context.Context, f *form.Controller) (*SubmitResult, error)
	Update(ctx context.Context, id uuid.UUID, f *form.Controller) (*SubmitResult, error)
	Delete(ctx context.Context, id uuid.UUID, list ListRefresher) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
	validator    *validation.Validator
	locations    *location.Directory
	notifier     notify.Notifier
	photoBase    string
	logger       *slog.Logger
}

// NewCustomerService creates a new customer service.
// photoBase is prefixed to stored photo paths to build preview URLs.
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	validator *validation.Validator,
	locations *location.Directory,
	notifier notify.Notifier,
	photoBase string,
	logger *slog.Logger,
) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		validator:    validator,
		locations:    locations,
		notifier:     notifier,
		photoBase:    photoBase,
		logger:       logger,
	}
}

// NewForm starts an empty registration form
func (s *customerService) NewForm() *form.Controller {
	return form.New(validation.ModeCreate, nil, s.validator, s.locations)
}

// LoadForEdit fetches a customer and opens an edit form on it
func (s *customerService) LoadForEdit(ctx context.Context, id uuid.UUID) (*form.Controller, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load customer for edit",
			slog.String("customer_id", id.String()),
			slog.String("error", err.Error()),
		)
		s.notifier.Show(msgLoadCustomerFail, notify.KindError)
		return nil, err
	}

	return form.NewEdit(customer, s.photoBase, s.validator, s.locations), nil
}

// Register submits a registration form
func (s *customerService) Register(ctx context.Context, f *form.Controller) (*SubmitResult, error) {
	if f.Mode() != validation.ModeCreate {
		return nil, models.ErrInvalidInput("form is not a registration form")
	}
	if err := s.checkForm(f); err != nil {
		return nil, err
	}

	saved, err := s.customerRepo.Create(ctx, f.Draft())
	if err != nil {
		return nil, s.rejected(f, err, msgRegisterFailed)
	}

	s.logger.Info("customer registered",
		slog.String("customer_id", saved.ID.String()),
	)
	s.notifier.Show(msgRegistered, notify.KindSuccess)

	return &SubmitResult{Customer: saved, Message: msgRegistered}, nil
}

// Update submits an edit form for customer id
func (s *customerService) Update(ctx context.Context, id uuid.UUID, f *form.Controller) (*SubmitResult, error) {
	if f.Mode() != validation.ModeEdit {
		return nil, models.ErrInvalidInput("form is not an edit form")
	}
	if err := s.checkForm(f); err != nil {
		return nil, err
	}

	saved, err := s.customerRepo.Update(ctx, id, f.Draft())
	if err != nil {
		return nil, s.rejected(f, err, msgUpdateFailed)
	}

	s.logger.Info("customer updated",
		slog.String("customer_id", id.String()),
	)
	s.notifier.Show(msgUpdated, notify.KindSuccess)

	return &SubmitResult{Customer: saved, Message: msgUpdated}, nil
}

// Delete removes a customer and refreshes the list in the background
func (s *customerService) Delete(ctx context.Context, id uuid.UUID, list ListRefresher) error {
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete customer",
			slog.String("customer_id", id.String()),
			slog.String("error", err.Error()),
		)
		s.notifier.Show(failureMessage(err, msgDeleteFailed), notify.KindError)
		return err
	}

	s.logger.Info("customer deleted", slog.String("customer_id", id.String()))
	s.notifier.Show(msgDeleted, notify.KindSuccess)

	if list != nil {
		// The list records its own failed state; the delete itself succeeded
		if err := list.Refresh(ctx, true); err != nil {
			s.logger.Warn("failed to refresh customers after delete",
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// checkForm runs every rule and blocks submission when any fails
func (s *customerService) checkForm(f *form.Controller) error {
	if f.ValidateAll() {
		return nil
	}
	s.notifier.Show(msgFixForm, notify.KindError)
	return &models.AppError{
		Code:    models.CodeInvalidInput,
		Message: msgFixForm,
	}
}

// rejected merges the API's field errors into the form and raises a toast.
// The toast prefers the API message, then the first field message, then fallback.
func (s *customerService) rejected(f *form.Controller, err error, fallback string) error {
	s.logger.Error("customer submission rejected",
		slog.String("mode", f.Mode().String()),
		slog.String("error", err.Error()),
	)

	var apiErr *models.APIError
	if !errors.As(err, &apiErr) {
		s.notifier.Show(fallback, notify.KindError)
		return &models.AppError{Code: models.CodeUpstream, Message: fallback, Err: err}
	}

	if apiErr.HasFieldErrors() {
		f.MergeServerErrors(apiErr.FieldErrors)
	}

	msg := apiErr.Message
	if msg == "" {
		msg = firstFieldMessage(apiErr.FieldErrors, f.Mode())
	}
	if msg == "" {
		msg = fallback
	}
	s.notifier.Show(msg, notify.KindError)

	code := models.CodeUpstream
	switch {
	case apiErr.Status == http.StatusConflict:
		code = models.CodeConflict
	case apiErr.Status == http.StatusNotFound:
		code = models.CodeNotFound
	case apiErr.Status >= 400 && apiErr.Status < 500:
		code = models.CodeInvalidInput
	}
	return &models.AppError{Code: code, Message: msg, Err: err}
}

// firstFieldMessage picks the message of the earliest field in form order
func firstFieldMessage(fieldErrs map[string]string, mode validation.Mode) string {
	if len(fieldErrs) == 0 {
		return ""
	}
	for _, name := range mode.Rules().Fields() {
		if msg := fieldErrs[name]; msg != "" {
			return msg
		}
	}

	rest := make([]string, 0, len(fieldErrs))
	for name := range fieldErrs {
		rest = append(rest, name)
	}
	sort.Strings(rest)
	for _, name := range rest {
		if msg := fieldErrs[name]; msg != "" {
			return msg
		}
	}
	return ""
}

// failureMessage returns the API's message for err, or fallback
func failureMessage(err error, fallback string) string {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
