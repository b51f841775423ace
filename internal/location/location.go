// Package location holds the read-only reference data used by the customer
// forms: the country → state → city hierarchy, calling codes and the terms text.
package location

import "sort"

// Directory answers cascade lookups over a country → state → city table
type Directory struct {
	countries map[string]map[string][]string
}

// NewDirectory wraps a hierarchy table. The table is not copied and must not
// be modified afterwards.
func NewDirectory(table map[string]map[string][]string) *Directory {
	return &Directory{countries: table}
}

// Default returns the directory shipped with the console
func Default() *Directory {
	return NewDirectory(defaultTable)
}

// Countries returns the known countries in alphabetical order
func (d *Directory) Countries() []string {
	out := make([]string, 0, len(d.countries))
	for c := range d.countries {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// States returns the states of a country in alphabetical order
func (d *Directory) States(country string) []string {
	states := d.countries[country]
	out := make([]string, 0, len(states))
	for s := range states {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Cities returns the cities of a state in table order
func (d *Directory) Cities(country, state string) []string {
	return append([]string(nil), d.countries[country][state]...)
}

// HasState reports whether state belongs to country
func (d *Directory) HasState(country, state string) bool {
	_, ok := d.countries[country][state]
	return ok
}

// HasCity reports whether city belongs to state within country
func (d *Directory) HasCity(country, state, city string) bool {
	for _, c := range d.countries[country][state] {
		if c == city {
			return true
		}
	}
	return false
}

// Table exposes the raw hierarchy for serialization
func (d *Directory) Table() map[string]map[string][]string {
	return d.countries
}

var defaultTable = map[string]map[string][]string{
	"India": {
		"Uttar Pradesh": {"Lucknow", "Kanpur", "Varanasi"},
		"Maharashtra":   {"Mumbai", "Pune", "Nagpur"},
		"Karnataka":     {"Bengaluru", "Mysuru", "Mangaluru"},
		"Delhi":         {"New Delhi", "Noida", "Gurgaon"},
		"Rajasthan":     {"Jaipur", "Udaipur", "Jodhpur"},
	},
	"USA": {
		"California": {"Los Angeles", "San Francisco", "San Diego"},
		"Texas":      {"Houston", "Austin", "Dallas"},
		"New York":   {"New York City", "Buffalo", "Rochester"},
		"Florida":    {"Miami", "Orlando", "Tampa"},
		"Illinois":   {"Chicago", "Aurora", "Naperville"},
	},
	"Canada": {
		"Ontario":          {"Toronto", "Ottawa", "Mississauga"},
		"Quebec":           {"Montreal", "Quebec City", "Gatineau"},
		"British Columbia": {"Vancouver", "Victoria", "Kelowna"},
		"Alberta":          {"Calgary", "Edmonton", "Red Deer"},
	},
	"United Kingdom": {
		"England":          {"London", "Manchester", "Birmingham"},
		"Scotland":         {"Glasgow", "Edinburgh", "Aberdeen"},
		"Wales":            {"Cardiff", "Swansea", "Newport"},
		"Northern Ireland": {"Belfast", "Derry", "Lisburn"},
	},
	"Australia": {
		"New South Wales": {"Sydney", "Newcastle", "Wollongong"},
		"Victoria":        {"Melbourne", "Geelong", "Ballarat"},
		"Queensland":      {"Brisbane", "Gold Coast", "Sunshine Coast"},
	},
	"Germany": {
		"Bavaria": {"Munich", "Nuremberg", "Augsburg"},
		"Berlin":  {"Berlin"},
		"Hamburg": {"Hamburg"},
	},
}
