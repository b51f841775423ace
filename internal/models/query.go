package models

import (
	"strconv"
	"strings"
)

// SortDirection is the order applied to the sort key
type SortDirection string

// Sort directions
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Filter names accepted by the customer list
const (
	FilterCountry  = "country"
	FilterGender   = "gender"
	FilterAgeRange = "ageRange"
)

// SortConfig selects the field and direction of the customer list
type SortConfig struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

// DefaultSort is the order a fresh customer list starts with
var DefaultSort = SortConfig{Key: "firstName", Direction: SortAsc}

// Filters holds the optional narrowing criteria of the customer list
type Filters struct {
	Country  string `json:"country"`
	Gender   string `json:"gender"`
	AgeRange string `json:"ageRange"`
}

// IsZero reports whether no filter is set
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// ListQuery is the full query state of a customer list view
type ListQuery struct {
	Page            int        `json:"page"`
	PageSize        int        `json:"pageSize"`
	SearchTerm      string     `json:"searchTerm"`
	EffectiveSearch string     `json:"debouncedSearchTerm"`
	Sort            SortConfig `json:"sort"`
	Filters         Filters    `json:"filters"`
}

// AgeRange is an inclusive age bracket; Max < 0 means no upper bound
type AgeRange struct {
	Min int
	Max int
}

// Contains reports whether age falls inside the bracket
func (r AgeRange) Contains(age int) bool {
	if age < r.Min {
		return false
	}
	return r.Max < 0 || age <= r.Max
}

// ParseAgeRange reads "19-35", "51+" or "51-+"
func ParseAgeRange(s string) (AgeRange, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AgeRange{}, false
	}

	if strings.HasSuffix(s, "+") {
		minPart := strings.TrimSuffix(strings.TrimSuffix(s, "+"), "-")
		min, err := strconv.Atoi(minPart)
		if err != nil || min < 0 {
			return AgeRange{}, false
		}
		return AgeRange{Min: min, Max: -1}, true
	}

	minPart, maxPart, ok := strings.Cut(s, "-")
	if !ok {
		return AgeRange{}, false
	}
	min, err := strconv.Atoi(minPart)
	if err != nil || min < 0 {
		return AgeRange{}, false
	}
	max, err := strconv.Atoi(maxPart)
	if err != nil || max < min {
		return AgeRange{}, false
	}
	return AgeRange{Min: min, Max: max}, true
}
