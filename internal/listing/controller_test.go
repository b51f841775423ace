package listing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
)

var testNow = time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC)

// stubSource answers List calls through respond, counting calls
type stubSource struct {
	mu      sync.Mutex
	calls   int
	respond func(call int) (*models.CustomerPage, error)
}

func (s *stubSource) List(ctx context.Context, params models.CustomerListParams) (*models.CustomerPage, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.mu.Unlock()
	return s.respond(call)
}

func staticSource(records ...*models.CustomerRecord) *stubSource {
	return &stubSource{respond: func(int) (*models.CustomerPage, error) {
		return &models.CustomerPage{Content: records, TotalElements: int64(len(records))}, nil
	}}
}

func newTestController(src Source, delay time.Duration) *Controller {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewController(src, Config{
		SearchDelay: delay,
		Now:         func() time.Time { return testNow },
	}, logger)
}

func customer(first, last, email string) *models.CustomerRecord {
	return &models.CustomerRecord{FirstName: first, LastName: last, Email: email}
}

func names(rows []*models.CustomerRecord) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.FirstName + "/" + r.Email
	}
	return out
}

func TestController_SortToggleIsStable(t *testing.T) {
	src := staticSource(
		customer("Amy", "One", "amy1@x.com"),
		customer("Bob", "Two", "bob@x.com"),
		customer("Amy", "Three", "amy3@x.com"),
	)
	c := newTestController(src, time.Hour)
	defer c.Close()

	if err := c.FetchPage(context.Background()); err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}

	asc := names(c.View().Customers)
	wantAsc := []string{"Amy/amy1@x.com", "Amy/amy3@x.com", "Bob/bob@x.com"}
	assertOrder(t, asc, wantAsc)

	if err := c.SetSort("firstName"); err != nil {
		t.Fatalf("SetSort() error = %v", err)
	}
	if got := c.Query().Sort.Direction; got != models.SortDesc {
		t.Fatalf("direction = %s, want desc", got)
	}
	wantDesc := []string{"Bob/bob@x.com", "Amy/amy1@x.com", "Amy/amy3@x.com"}
	assertOrder(t, names(c.View().Customers), wantDesc)

	_ = c.SetSort("firstName")
	if got := c.Query().Sort.Direction; got != models.SortAsc {
		t.Errorf("second toggle direction = %s, want asc", got)
	}

	_ = c.SetSort("email")
	_ = c.SetSort("lastName")
	if got := c.Query().Sort; got.Key != "lastName" || got.Direction != models.SortAsc {
		t.Errorf("new key sort = %+v, want lastName asc", got)
	}

	if err := c.SetSort("password"); err == nil {
		t.Error("sorting by an unknown key should fail")
	}
}

func TestController_DebouncedSearch(t *testing.T) {
	src := staticSource(
		customer("Long", "Silver", "long.john@x.com"),
		customer("Jane", "Roe", "jane@x.com"),
	)
	c := newTestController(src, 40*time.Millisecond)
	defer c.Close()
	_ = c.FetchPage(context.Background())

	var mu sync.Mutex
	var applied []string
	c.OnQueryChange(func(q models.ListQuery) {
		mu.Lock()
		applied = append(applied, q.EffectiveSearch)
		mu.Unlock()
	})

	for _, term := range []string{"j", "jo", "joh", "john"} {
		c.SetSearchTerm(term)
		time.Sleep(5 * time.Millisecond)
	}

	if got := c.Query().SearchTerm; got != "john" {
		t.Errorf("raw search term = %q, want john", got)
	}
	if got := c.Query().EffectiveSearch; got != "" {
		t.Errorf("effective term applied before the quiet period: %q", got)
	}

	time.Sleep(250 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 1 || applied[0] != "john" {
		t.Fatalf("effective changes = %v, want exactly [john]", applied)
	}

	rows := c.View().Customers
	if len(rows) != 1 || rows[0].Email != "long.john@x.com" {
		t.Errorf("search results = %v, want only long.john@x.com", names(rows))
	}
}

func TestController_ClearSearchIsImmediate(t *testing.T) {
	c := newTestController(staticSource(customer("Ann", "Lee", "ann@x.com")), time.Hour)
	defer c.Close()

	c.SetSearchTerm("zzz")
	c.ClearSearch()

	q := c.Query()
	if q.SearchTerm != "" || q.EffectiveSearch != "" {
		t.Errorf("query after ClearSearch = %+v", q)
	}
}

func TestController_AgeFilter(t *testing.T) {
	turning35 := &models.CustomerRecord{FirstName: "A", DOB: "1989-06-15"}
	turning36 := &models.CustomerRecord{FirstName: "B", DOB: "1988-06-15"}
	noDOB := &models.CustomerRecord{FirstName: "C"}

	c := newTestController(staticSource(turning35, turning36, noDOB), time.Hour)
	defer c.Close()
	_ = c.FetchPage(context.Background())

	if err := c.SetFilter(models.FilterAgeRange, "19-35"); err != nil {
		t.Fatalf("SetFilter() error = %v", err)
	}

	rows := c.View().Customers
	if len(rows) != 1 || rows[0].FirstName != "A" {
		t.Errorf("19-35 rows = %v, want only A", names(rows))
	}

	_ = c.SetFilter(models.FilterAgeRange, "36+")
	rows = c.View().Customers
	if len(rows) != 1 || rows[0].FirstName != "B" {
		t.Errorf("36+ rows = %v, want only B", names(rows))
	}

	if err := c.SetFilter(models.FilterAgeRange, "old"); err == nil {
		t.Error("malformed age range should be rejected")
	}
	if err := c.SetFilter("planet", "Mars"); err == nil {
		t.Error("unknown filter should be rejected")
	}
}

func TestController_CountryAndGenderFilters(t *testing.T) {
	records := []*models.CustomerRecord{
		{FirstName: "A", Country: "India", Gender: "Female"},
		{FirstName: "B", Country: "India", Gender: "male"},
		{FirstName: "C", Country: "USA", Gender: "female"},
	}
	c := newTestController(staticSource(records...), time.Hour)
	defer c.Close()
	_ = c.FetchPage(context.Background())

	_ = c.SetFilter(models.FilterCountry, "India")
	_ = c.SetFilter(models.FilterGender, "female")

	rows := c.View().Customers
	if len(rows) != 1 || rows[0].FirstName != "A" {
		t.Errorf("rows = %v, want only A", names(rows))
	}

	c.ClearFilters()
	if got := c.View().TotalElements; got != 3 {
		t.Errorf("TotalElements after ClearFilters = %d, want 3", got)
	}
}

func TestController_QueryChangesResetPage(t *testing.T) {
	c := newTestController(staticSource(manyCustomers(35)...), time.Hour)
	defer c.Close()
	_ = c.FetchPage(context.Background())

	tests := []struct {
		name   string
		change func()
	}{
		{"sort", func() { _ = c.SetSort("email") }},
		{"filter", func() { _ = c.SetFilter(models.FilterGender, "") }},
		{"clear filters", func() { c.ClearFilters() }},
		{"view mode", func() { _ = c.SetViewMode(ViewGrid) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.SetPage(2)
			if got := c.Query().Page; got != 2 {
				t.Fatalf("SetPage(2) page = %d", got)
			}
			tt.change()
			if got := c.Query().Page; got != 0 {
				t.Errorf("page after %s = %d, want 0", tt.name, got)
			}
		})
	}
}

func TestController_PaginationAndDisplayRange(t *testing.T) {
	c := newTestController(staticSource(manyCustomers(25)...), time.Hour)
	defer c.Close()
	_ = c.FetchPage(context.Background())

	v := c.View()
	if v.TotalPages != 3 || v.TotalElements != 25 {
		t.Fatalf("TotalPages=%d TotalElements=%d, want 3/25", v.TotalPages, v.TotalElements)
	}
	if v.DisplayRange != "Showing 1 - 10 of 25" {
		t.Errorf("DisplayRange = %q", v.DisplayRange)
	}

	c.SetPage(99)
	v = c.View()
	if v.Query.Page != 2 || len(v.Customers) != 5 {
		t.Errorf("page=%d rows=%d, want 2/5", v.Query.Page, len(v.Customers))
	}
	if v.DisplayRange != "Showing 21 - 25 of 25" {
		t.Errorf("DisplayRange = %q", v.DisplayRange)
	}

	_ = c.SetViewMode(ViewGrid)
	if v := c.View(); v.Query.PageSize != 12 || v.TotalPages != 3 {
		t.Errorf("grid pageSize=%d totalPages=%d, want 12/3", v.Query.PageSize, v.TotalPages)
	}
}

func TestController_DeleteOnLastPageClamps(t *testing.T) {
	records := manyCustomers(21)
	src := &stubSource{}
	src.respond = func(int) (*models.CustomerPage, error) {
		return &models.CustomerPage{Content: records}, nil
	}

	c := newTestController(src, time.Hour)
	defer c.Close()
	_ = c.FetchPage(context.Background())

	c.SetPage(2)
	if v := c.View(); v.TotalPages != 3 || len(v.Customers) != 1 {
		t.Fatalf("setup: totalPages=%d rows=%d", v.TotalPages, len(v.Customers))
	}

	records = records[:20]
	if err := c.Refresh(context.Background(), true); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := c.Query().Page; got != 1 {
		t.Errorf("page after deleting last row = %d, want 1", got)
	}

	records = nil
	_ = c.Refresh(context.Background(), true)
	if got := c.Query().Page; got != 0 {
		t.Errorf("page with no rows = %d, want 0", got)
	}
	if v := c.View(); v.DisplayRange != "0 results" {
		t.Errorf("DisplayRange = %q, want 0 results", v.DisplayRange)
	}
}

func TestController_FetchErrorAndRetry(t *testing.T) {
	fail := true
	src := &stubSource{respond: func(int) (*models.CustomerPage, error) {
		if fail {
			return nil, &models.APIError{Status: 503, Message: "Service Unavailable"}
		}
		return &models.CustomerPage{Content: manyCustomers(2)}, nil
	}}

	c := newTestController(src, time.Hour)
	defer c.Close()

	if err := c.FetchPage(context.Background()); err == nil {
		t.Fatal("FetchPage() should report the failure")
	}
	v := c.View()
	if v.Status != StatusFailed || v.Error != "Service Unavailable" {
		t.Errorf("status=%s error=%q", v.Status, v.Error)
	}

	fail = false
	if err := c.FetchPage(context.Background()); err != nil {
		t.Fatalf("retry error = %v", err)
	}
	v = c.View()
	if v.Status != StatusReady || v.Error != "" || v.TotalElements != 2 {
		t.Errorf("after retry status=%s error=%q total=%d", v.Status, v.Error, v.TotalElements)
	}
}

func TestController_StaleResponseDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	slow := []*models.CustomerRecord{customer("Slow", "S", "slow@x.com")}
	fast := []*models.CustomerRecord{customer("Fast", "F", "fast@x.com")}

	src := &stubSource{respond: func(call int) (*models.CustomerPage, error) {
		if call == 1 {
			close(started)
			<-release
			return &models.CustomerPage{Content: slow}, nil
		}
		return &models.CustomerPage{Content: fast}, nil
	}}

	c := newTestController(src, time.Hour)
	defer c.Close()

	done := make(chan error, 1)
	go func() { done <- c.FetchPage(context.Background()) }()
	<-started

	if v := c.View(); !v.Loading {
		t.Errorf("status while first fetch in flight = %s, want loading", v.Status)
	}

	if err := c.Refresh(context.Background(), true); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("stale FetchPage() error = %v", err)
	}

	rows := c.View().Customers
	if len(rows) != 1 || rows[0].FirstName != "Fast" {
		t.Errorf("rows = %v, the slower earlier response must not win", names(rows))
	}
}

func TestController_RefreshingStatus(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	src := &stubSource{respond: func(call int) (*models.CustomerPage, error) {
		if call == 2 {
			close(started)
			<-release
		}
		return &models.CustomerPage{Content: manyCustomers(3)}, nil
	}}

	c := newTestController(src, time.Hour)
	defer c.Close()
	_ = c.FetchPage(context.Background())

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background(), true) }()
	<-started

	v := c.View()
	if !v.Refreshing || v.Loading {
		t.Errorf("background refresh flags refreshing=%v loading=%v", v.Refreshing, v.Loading)
	}
	if len(v.Customers) != 3 {
		t.Errorf("rows during background refresh = %d, want the previous 3", len(v.Customers))
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if v := c.View(); v.Status != StatusReady {
		t.Errorf("status after refresh = %s", v.Status)
	}
}

func TestController_IdleBeforeFetch(t *testing.T) {
	src := &stubSource{respond: func(int) (*models.CustomerPage, error) {
		return nil, errors.New("unused")
	}}
	c := newTestController(src, time.Hour)
	defer c.Close()

	if v := c.View(); v.Status != StatusIdle || v.TotalElements != 0 {
		t.Errorf("new controller view = %+v", v)
	}
}

func manyCustomers(n int) []*models.CustomerRecord {
	out := make([]*models.CustomerRecord, n)
	for i := range out {
		out[i] = customer(fmt.Sprintf("User%03d", i), "Test", fmt.Sprintf("user%03d@x.com", i))
	}
	return out
}

func assertOrder(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestController_ClearSearchWinsOverPendingDelivery(t *testing.T) {
	c := newTestController(staticSource(customer("Ann", "Lee", "ann@x.com")), time.Hour)
	defer c.Close()
	_ = c.FetchPage(context.Background())

	c.SetSearchTerm("zzz")
	c.ClearSearch()
	// The timer may already be past its check when ClearSearch runs
	c.applySearch("zzz")

	q := c.Query()
	if q.SearchTerm != "" || q.EffectiveSearch != "" {
		t.Errorf("query = %+v, want the cleared search to stick", q)
	}
	if got := c.View().TotalElements; got != 1 {
		t.Errorf("TotalElements = %d, want 1", got)
	}
}

func TestController_PageObserversOnlyOnChange(t *testing.T) {
	records := manyCustomers(25)
	src := &stubSource{}
	src.respond = func(int) (*models.CustomerPage, error) {
		return &models.CustomerPage{Content: records}, nil
	}
	c := newTestController(src, time.Hour)
	defer c.Close()
	_ = c.FetchPage(context.Background())

	var pages []int
	c.OnQueryChange(func(q models.ListQuery) {
		pages = append(pages, q.Page)
	})

	c.SetPage(0)
	if len(pages) != 0 {
		t.Fatalf("SetPage to the current page notified %v", pages)
	}

	c.SetPage(2)
	c.SetPage(2)
	c.SetPage(99)
	if len(pages) != 1 || pages[0] != 2 {
		t.Fatalf("notifications = %v, want [2]", pages)
	}

	records = records[:5]
	_ = c.Refresh(context.Background(), true)
	if len(pages) != 2 || pages[1] != 0 {
		t.Errorf("notifications after shrinking = %v, want [2 0]", pages)
	}

	c.View()
	if len(pages) != 2 {
		t.Errorf("View on an in-range page notified %v", pages)
	}
}

func TestController_GenderFilterValues(t *testing.T) {
	c := newTestController(staticSource(), time.Hour)
	defer c.Close()

	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: "female"},
		{value: "Male"},
		{value: "other"},
		{value: ""},
		{value: "robot", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := c.SetFilter(models.FilterGender, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("SetFilter(gender, %q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}
