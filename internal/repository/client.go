package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
)

// APIConfig holds the customer API connection settings
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// APIClient performs requests against the customer API
type APIClient struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewAPIClient creates a client for the customer API
func NewAPIClient(cfg APIConfig, logger *slog.Logger) *APIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &APIClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// BaseURL returns the API root, used to resolve stored photo paths
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// Ping checks that the customer API answers at all
func (c *APIClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/customers?page=0&size=1", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", models.ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// do sends a request and decodes a JSON answer into out (when out is non-nil)
func (c *APIClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("customer API request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %v", models.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("customer API request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// doJSON marshals in as the request body
func (c *APIClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, method, path, bytes.NewReader(data), "application/json", out)
}

// fieldError is one entry of a rejected-binding answer
type fieldError struct {
	Field          string `json:"field"`
	DefaultMessage string `json:"defaultMessage"`
	Message        string `json:"message"`
}

func (f fieldError) text() string {
	if f.DefaultMessage != "" {
		return f.DefaultMessage
	}
	return f.Message
}

// decodeAPIError turns a non-2xx answer into *models.APIError. The API reports
// field errors either as a bare array or under "errors" in an object.
func decodeAPIError(status int, body []byte) error {
	apiErr := &models.APIError{Status: status}
	trimmed := bytes.TrimSpace(body)

	switch {
	case len(trimmed) > 0 && trimmed[0] == '[':
		var list []fieldError
		if err := json.Unmarshal(trimmed, &list); err == nil {
			apiErr.FieldErrors = collectFieldErrors(list)
			for _, fe := range list {
				if fe.Field == "" && fe.text() != "" {
					apiErr.Message = fe.text()
					break
				}
			}
		}

	case len(trimmed) > 0 && trimmed[0] == '{':
		var obj struct {
			Message string          `json:"message"`
			Error   string          `json:"error"`
			Errors  json.RawMessage `json:"errors"`
		}
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			apiErr.Message = obj.Message
			if apiErr.Message == "" {
				apiErr.Message = obj.Error
			}
			apiErr.FieldErrors = decodeErrorsField(obj.Errors)
		}

	case len(trimmed) > 0:
		apiErr.Message = string(trimmed)
	}

	if apiErr.Message == "" && !apiErr.HasFieldErrors() {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// decodeErrorsField reads "errors" as either {field: message} or a field error array
func decodeErrorsField(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}

	var byField map[string]string
	if err := json.Unmarshal(raw, &byField); err == nil {
		if len(byField) == 0 {
			return nil
		}
		return byField
	}

	var list []fieldError
	if err := json.Unmarshal(raw, &list); err == nil {
		return collectFieldErrors(list)
	}
	return nil
}

func collectFieldErrors(list []fieldError) map[string]string {
	out := make(map[string]string)
	for _, fe := range list {
		if fe.Field == "" {
			continue
		}
		if _, seen := out[fe.Field]; !seen {
			out[fe.Field] = fe.text()
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// isNotFound reports whether err is a 404 from the API
func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
