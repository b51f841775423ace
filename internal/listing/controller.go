// Package listing implements the customer list view: a client-side
// search/sort/filter/paginate pipeline over the customers fetched from the
// customer API, with debounced search and stale-response protection.
package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
)

// Status is the fetch lifecycle of the list
type Status string

const (
	StatusIdle       Status = "idle"
	StatusLoading    Status = "loading"
	StatusRefreshing Status = "refreshing"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// ViewMode selects the page size of the list
type ViewMode string

const (
	ViewTable ViewMode = "table"
	ViewGrid  ViewMode = "grid"
)

// PageSize returns the number of customers shown per page in the mode
func (m ViewMode) PageSize() int {
	if m == ViewGrid {
		return models.GridPageSize
	}
	return models.TablePageSize
}

// Source is the part of the customer repository the list needs
type Source interface {
	List(ctx context.Context, params models.CustomerListParams) (*models.CustomerPage, error)
}

// Config tunes a Controller
type Config struct {
	SearchDelay time.Duration
	FetchCap    int
	ViewMode    ViewMode
	Now         func() time.Time
}

// Stats summarizes the list for the header cards
type Stats struct {
	Total     int `json:"total"`
	Countries int `json:"countries"`
}

// View is what the list renders
type View struct {
	Customers     []*models.CustomerRecord `json:"customers"`
	Query         models.ListQuery         `json:"query"`
	ViewMode      ViewMode                 `json:"viewMode"`
	TotalPages    int                      `json:"totalPages"`
	TotalElements int                      `json:"totalElements"`
	DisplayRange  string                   `json:"displayRange"`
	Status        Status                   `json:"status"`
	Loading       bool                     `json:"loading"`
	Refreshing    bool                     `json:"refreshing"`
	Error         string                   `json:"error,omitempty"`
	Stats         Stats                    `json:"stats"`
}

// Controller owns the query state of one customer list
type Controller struct {
	mu sync.Mutex

	source    Source
	logger    *slog.Logger
	now       func() time.Time
	fetchCap  int
	debouncer *Debouncer

	all       []*models.CustomerRecord
	query     models.ListQuery
	viewMode  ViewMode
	status    Status
	lastError string
	token     uint64
	observers []func(models.ListQuery)
}

// NewController creates a list in the idle state; call FetchPage to load it
func NewController(source Source, cfg Config, logger *slog.Logger) *Controller {
	if cfg.SearchDelay <= 0 {
		cfg.SearchDelay = 300 * time.Millisecond
	}
	if cfg.FetchCap <= 0 {
		cfg.FetchCap = models.MaxPageSize
	}
	if cfg.ViewMode == "" {
		cfg.ViewMode = ViewTable
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	c := &Controller{
		source:   source,
		logger:   logger,
		now:      cfg.Now,
		fetchCap: cfg.FetchCap,
		viewMode: cfg.ViewMode,
		status:   StatusIdle,
		query: models.ListQuery{
			PageSize: cfg.ViewMode.PageSize(),
			Sort:     models.DefaultSort,
		},
	}
	c.debouncer = NewDebouncer(cfg.SearchDelay, c.applySearch)
	return c
}

// OnQueryChange registers a callback run after every effective query change
func (c *Controller) OnQueryChange(fn func(models.ListQuery)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// SetSearchTerm stores the raw input now; the effective term follows once
// the input has been quiet for the search delay.
func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	c.query.SearchTerm = term
	c.mu.Unlock()

	c.debouncer.Trigger(term)
}

// ClearSearch drops any pending input and clears the search immediately
func (c *Controller) ClearSearch() {
	c.debouncer.Cancel()

	c.mu.Lock()
	c.query.SearchTerm = ""
	changed := c.query.EffectiveSearch != ""
	if changed {
		c.query.EffectiveSearch = ""
		c.query.Page = 0
	}
	q, observers := c.query, c.observers
	c.mu.Unlock()

	if changed {
		notify(observers, q)
	}
}

// SetSort sorts by key. Picking the current key again flips the direction.
func (c *Controller) SetSort(key string) error {
	if !IsSortKey(key) {
		return models.ErrInvalidInput(fmt.Sprintf("cannot sort by %q", key))
	}

	c.mutate(func(q *models.ListQuery) {
		if q.Sort.Key == key && q.Sort.Direction == models.SortAsc {
			q.Sort.Direction = models.SortDesc
		} else {
			q.Sort = models.SortConfig{Key: key, Direction: models.SortAsc}
		}
	})
	return nil
}

// SetFilter sets one filter; an empty value removes it
func (c *Controller) SetFilter(name, value string) error {
	switch name {
	case models.FilterCountry:
	case models.FilterGender:
		if value != "" && !models.IsValidGender(value) {
			return models.ErrInvalidInput(fmt.Sprintf("invalid gender %q", value))
		}
	case models.FilterAgeRange:
		if _, ok := models.ParseAgeRange(value); value != "" && !ok {
			return models.ErrInvalidInput(fmt.Sprintf("invalid age range %q", value))
		}
	default:
		return models.ErrInvalidInput(fmt.Sprintf("unknown filter %q", name))
	}

	c.mutate(func(q *models.ListQuery) {
		switch name {
		case models.FilterCountry:
			q.Filters.Country = value
		case models.FilterGender:
			q.Filters.Gender = value
		case models.FilterAgeRange:
			q.Filters.AgeRange = value
		}
	})
	return nil
}

// ClearFilters removes every filter
func (c *Controller) ClearFilters() {
	c.mutate(func(q *models.ListQuery) {
		q.Filters = models.Filters{}
	})
}

// SetPage moves to page, clamped to the pages that exist
func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	total := models.TotalPages(int64(len(c.filtered())), c.query.PageSize)
	page = models.ClampPage(page, total)
	changed := page != c.query.Page
	c.query.Page = page
	q, observers := c.query, c.observers
	c.mu.Unlock()

	if changed {
		notify(observers, q)
	}
}

// SetViewMode switches between table and grid page sizes
func (c *Controller) SetViewMode(mode ViewMode) error {
	if mode != ViewTable && mode != ViewGrid {
		return models.ErrInvalidInput(fmt.Sprintf("unknown view mode %q", mode))
	}

	c.mu.Lock()
	c.viewMode = mode
	c.mu.Unlock()

	c.mutate(func(q *models.ListQuery) {
		q.PageSize = mode.PageSize()
	})
	return nil
}

// FetchPage loads the customers, blocking the view while it runs
func (c *Controller) FetchPage(ctx context.Context) error {
	return c.fetch(ctx, StatusLoading)
}

// Refresh reloads the customers. A background refresh keeps the current rows
// on screen; otherwise the view shows the blocking loading state.
func (c *Controller) Refresh(ctx context.Context, background bool) error {
	if background {
		return c.fetch(ctx, StatusRefreshing)
	}
	return c.fetch(ctx, StatusLoading)
}

// Query returns the current query state
func (c *Controller) Query() models.ListQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// View derives the current page of the list
func (c *Controller) View() View {
	c.mu.Lock()

	filtered := c.filtered()
	total := len(filtered)
	totalPages := models.TotalPages(int64(total), c.query.PageSize)
	clamped := c.clamp(totalPages)
	q, observers := c.query, c.observers

	rows := Paginate(filtered, c.query.Page, c.query.PageSize)
	countries := make(map[string]struct{})
	for _, r := range rows {
		countries[r.Country] = struct{}{}
	}

	view := View{
		Customers:     rows,
		Query:         q,
		ViewMode:      c.viewMode,
		TotalPages:    totalPages,
		TotalElements: total,
		DisplayRange:  DisplayRange(c.query.Page, c.query.PageSize, total),
		Status:        c.status,
		Loading:       c.status == StatusLoading,
		Refreshing:    c.status == StatusRefreshing,
		Error:         c.lastError,
		Stats: Stats{
			Total:     total,
			Countries: len(countries),
		},
	}
	c.mu.Unlock()

	if clamped {
		notify(observers, q)
	}
	return view
}

// Close stops the debounce timer
func (c *Controller) Close() {
	c.debouncer.Stop()
}

func (c *Controller) fetch(ctx context.Context, pending Status) error {
	c.mu.Lock()
	c.token++
	token := c.token
	c.status = pending
	c.lastError = ""
	c.mu.Unlock()

	page, err := c.source.List(ctx, models.CustomerListParams{
		Page:     0,
		PageSize: c.fetchCap,
		Sort:     models.DefaultSort.Key + "," + string(models.DefaultSort.Direction),
	})

	c.mu.Lock()

	if token != c.token {
		c.mu.Unlock()
		c.logger.Debug("discarding stale customer list response",
			slog.Uint64("token", token),
			slog.Uint64("latest", c.token),
		)
		return nil
	}

	if err != nil {
		c.status = StatusFailed
		c.lastError = errorMessage(err)
		c.all = nil
		clamped := c.clamp(0)
		q, observers := c.query, c.observers
		c.mu.Unlock()

		if clamped {
			notify(observers, q)
		}
		c.logger.Error("failed to load customers",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to load customers: %w", err)
	}

	c.all = nil
	if page != nil {
		c.all = page.Content
	}
	c.status = StatusReady
	clamped := c.clamp(models.TotalPages(int64(len(c.filtered())), c.query.PageSize))
	q, observers, count := c.query, c.observers, len(c.all)
	c.mu.Unlock()

	if clamped {
		notify(observers, q)
	}
	c.logger.Info("customers loaded",
		slog.Int("count", count),
		slog.Int("page", q.Page),
	)
	return nil
}

// applySearch runs when the debounce delay expires. A term the input no
// longer holds was superseded by ClearSearch and is dropped.
func (c *Controller) applySearch(term string) {
	c.mu.Lock()
	if term != c.query.SearchTerm || c.query.EffectiveSearch == term {
		c.mu.Unlock()
		return
	}
	c.query.EffectiveSearch = term
	c.query.Page = 0
	q, observers := c.query, c.observers
	c.mu.Unlock()

	notify(observers, q)
}

// mutate applies a query change that always returns the list to page 0
func (c *Controller) mutate(fn func(q *models.ListQuery)) {
	c.mu.Lock()
	fn(&c.query)
	c.query.Page = 0
	q, observers := c.query, c.observers
	c.mu.Unlock()

	notify(observers, q)
}

// filtered applies search, filters and sort. Caller holds mu.
func (c *Controller) filtered() []*models.CustomerRecord {
	return Apply(c.all, c.query.EffectiveSearch, c.query.Filters, c.query.Sort, c.now())
}

// clamp pulls an out-of-range page back to the last one and reports
// whether the page moved. Caller holds mu.
func (c *Controller) clamp(totalPages int) bool {
	if c.query.Page > 0 && c.query.Page >= totalPages {
		c.query.Page = models.ClampPage(c.query.Page, totalPages)
		return true
	}
	return false
}

func notify(observers []func(models.ListQuery), q models.ListQuery) {
	for _, fn := range observers {
		fn(q)
	}
}

func errorMessage(err error) string {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
