package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
)

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	List(ctx context.Context, params models.CustomerListParams) (*models.CustomerPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.CustomerRecord, error)
	Create(ctx context.Context, customer *models.CustomerRecord) (*models.CustomerRecord, error)
	Update(ctx context.Context, id uuid.UUID, customer *models.CustomerRecord) (*models.CustomerRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// customerRepository implements CustomerRepository over the customer REST API
type customerRepository struct {
	api    *APIClient
	logger *slog.Logger
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(api *APIClient, logger *slog.Logger) CustomerRepository {
	return &customerRepository{api: api, logger: logger}
}

// List retrieves one page of customers. A search term switches to the search endpoint.
func (r *customerRepository) List(ctx context.Context, params models.CustomerListParams) (*models.CustomerPage, error) {
	models.ValidateAndSetDefaults(&params)

	q := url.Values{}
	path := "/api/customers"
	if term := strings.TrimSpace(params.SearchTerm); term != "" {
		path = "/api/customers/search"
		q.Set("keyword", term)
	}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("size", strconv.Itoa(params.PageSize))
	q.Set("sort", params.Sort)

	page := &models.CustomerPage{}
	if err := r.api.do(ctx, http.MethodGet, path+"?"+q.Encode(), nil, "", page); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	if page.Content == nil {
		page.Content = []*models.CustomerRecord{}
	}
	return page, nil
}

// GetByID retrieves a customer by ID
func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CustomerRecord, error) {
	customer := &models.CustomerRecord{}
	err := r.api.do(ctx, http.MethodGet, "/api/customers/"+id.String(), nil, "", customer)
	if isNotFound(err) {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

// Create registers a new customer
func (r *customerRepository) Create(ctx context.Context, customer *models.CustomerRecord) (*models.CustomerRecord, error) {
	saved, err := r.send(ctx, http.MethodPost, "/api/customers", customer, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return saved, nil
}

// Update replaces an existing customer
func (r *customerRepository) Update(ctx context.Context, id uuid.UUID, customer *models.CustomerRecord) (*models.CustomerRecord, error) {
	saved, err := r.send(ctx, http.MethodPut, "/api/customers/"+id.String(), customer, true)
	if isNotFound(err) {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return saved, nil
}

// Delete removes a customer
func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.api.do(ctx, http.MethodDelete, "/api/customers/"+id.String(), nil, "", nil)
	if isNotFound(err) {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %s not found", id))
	}
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

// send posts a customer as JSON, or as multipart when a photo is attached
func (r *customerRepository) send(ctx context.Context, method, path string, customer *models.CustomerRecord, isUpdate bool) (*models.CustomerRecord, error) {
	payload := models.NewCustomerPayload(customer, isUpdate)
	saved := &models.CustomerRecord{}

	if customer.Photo == nil {
		if err := r.api.doJSON(ctx, method, path, payload, saved); err != nil {
			return nil, err
		}
		return saved, nil
	}

	body, contentType, err := encodeMultipart(payload, customer.Photo)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("sending customer with photo",
		slog.String("path", path),
		slog.String("file", customer.Photo.FileName),
		slog.Int("bytes", len(customer.Photo.Data)),
	)

	if err := r.api.do(ctx, method, path, body, contentType, saved); err != nil {
		return nil, err
	}
	return saved, nil
}

// encodeMultipart writes a "customer" JSON part followed by a "photo" file part
func encodeMultipart(payload models.CustomerPayload, photo *models.Attachment) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="customer"; filename="customer.json"`)
	header.Set("Content-Type", "application/json")
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create customer part: %w", err)
	}
	if err := json.NewEncoder(part).Encode(payload); err != nil {
		return nil, "", fmt.Errorf("failed to encode customer part: %w", err)
	}

	contentType := photo.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header = make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename=%q`, photo.FileName))
	header.Set("Content-Type", contentType)
	part, err = mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create photo part: %w", err)
	}
	if _, err := part.Write(photo.Data); err != nil {
		return nil, "", fmt.Errorf("failed to write photo part: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return buf, mw.FormDataContentType(), nil
}
