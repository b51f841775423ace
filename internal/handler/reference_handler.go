package handler

import (
	"net/http"

	"github.com/Raymond9734/pizza-customer-console/internal/location"
)

// ReferenceHandler serves the static pickers shown by the forms
type ReferenceHandler struct {
	locations *location.Directory
}

// NewReferenceHandler creates a new reference handler
func NewReferenceHandler(locations *location.Directory) *ReferenceHandler {
	return &ReferenceHandler{locations: locations}
}

// Locations handles GET /reference/locations
func (h *ReferenceHandler) Locations(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.locations.Table())
}

// CountryCodes handles GET /reference/country-codes
func (h *ReferenceHandler) CountryCodes(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, location.CallingCodes)
}

// Terms handles GET /reference/terms
func (h *ReferenceHandler) Terms(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]string{"terms": location.TermsOfService})
}
