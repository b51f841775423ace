package listing

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
)

// sortFields maps the sortable keys to their record values
var sortFields = map[string]func(c *models.CustomerRecord) string{
	"firstName":  func(c *models.CustomerRecord) string { return c.FirstName },
	"lastName":   func(c *models.CustomerRecord) string { return c.LastName },
	"email":      func(c *models.CustomerRecord) string { return c.Email },
	"phone":      func(c *models.CustomerRecord) string { return c.Phone },
	"dob":        func(c *models.CustomerRecord) string { return c.DOB },
	"gender":     func(c *models.CustomerRecord) string { return c.Gender },
	"country":    func(c *models.CustomerRecord) string { return c.Country },
	"state":      func(c *models.CustomerRecord) string { return c.State },
	"city":       func(c *models.CustomerRecord) string { return c.City },
	"postalCode": func(c *models.CustomerRecord) string { return c.PostalCode },
}

// IsSortKey reports whether key can be sorted on
func IsSortKey(key string) bool {
	_, ok := sortFields[key]
	return ok
}

// Age returns the full years elapsed between dob and now
func Age(dob string, now time.Time) (int, bool) {
	birth, err := time.Parse(models.DateLayout, dob)
	if err != nil {
		return 0, false
	}

	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age, true
}

// Matches reports whether a customer passes the search term and filters
func Matches(c *models.CustomerRecord, search string, f models.Filters, now time.Time) bool {
	if search != "" {
		term := strings.ToLower(search)
		if !strings.Contains(strings.ToLower(c.FirstName), term) &&
			!strings.Contains(strings.ToLower(c.LastName), term) &&
			!strings.Contains(strings.ToLower(c.Email), term) {
			return false
		}
	}

	if f.Country != "" && c.Country != f.Country {
		return false
	}

	if f.Gender != "" && !strings.EqualFold(c.Gender, f.Gender) {
		return false
	}

	if f.AgeRange != "" {
		bracket, ok := models.ParseAgeRange(f.AgeRange)
		if !ok {
			return false
		}
		age, ok := Age(c.DOB, now)
		if !ok || !bracket.Contains(age) {
			return false
		}
	}

	return true
}

// Apply filters and stably sorts customers. The input slice is not modified.
func Apply(all []*models.CustomerRecord, search string, f models.Filters, sortCfg models.SortConfig, now time.Time) []*models.CustomerRecord {
	unfiltered := search == "" && f.IsZero()
	out := make([]*models.CustomerRecord, 0, len(all))
	for _, c := range all {
		if c != nil && (unfiltered || Matches(c, search, f, now)) {
			out = append(out, c)
		}
	}

	field, ok := sortFields[sortCfg.Key]
	if !ok {
		return out
	}

	slices.SortStableFunc(out, func(a, b *models.CustomerRecord) int {
		cmp := strings.Compare(field(a), field(b))
		if sortCfg.Direction == models.SortDesc {
			return -cmp
		}
		return cmp
	})
	return out
}

// Paginate returns the slice of items shown on page
func Paginate(items []*models.CustomerRecord, page, pageSize int) []*models.CustomerRecord {
	if pageSize < 1 || page < 0 {
		return nil
	}
	start := page * pageSize
	if start >= len(items) {
		return []*models.CustomerRecord{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// DisplayRange renders the "Showing a - b of n" caption of a page
func DisplayRange(page, pageSize, total int) string {
	if total == 0 {
		return "0 results"
	}
	start := page*pageSize + 1
	end := (page + 1) * pageSize
	if end > total {
		end = total
	}
	return fmt.Sprintf("Showing %d - %d of %d", start, end, total)
}
