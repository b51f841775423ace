// Package form holds the editable draft of one customer together with its
// derived state: cascading location lists, touched fields, field errors and
// completion progress.
package form

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"regexp"
	"sync"

	"github.com/Raymond9734/pizza-customer-console/internal/location"
	"github.com/Raymond9734/pizza-customer-console/internal/models"
	"github.com/Raymond9734/pizza-customer-console/internal/validation"
)

var storedPhonePattern = regexp.MustCompile(`^(\+\d{1,4})(\d{10})$`)

// Controller owns a customer draft. All methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	mode      validation.Mode
	validator *validation.Validator
	locations *location.Directory

	draft        *models.CustomerRecord
	errors       map[string]string
	touched      map[string]bool
	states       []string
	cities       []string
	photoPreview string
	progress     float64
}

// State is a read-only snapshot of a form
type State struct {
	Mode         string                 `json:"mode"`
	Draft        *models.CustomerRecord `json:"draft"`
	PasswordSet  bool                   `json:"passwordSet"`
	Errors       map[string]string      `json:"errors"`
	Touched      map[string]bool        `json:"touched"`
	States       []string               `json:"states"`
	Cities       []string               `json:"cities"`
	PhotoPreview string                 `json:"photoPreview,omitempty"`
	Progress     float64                `json:"progress"`
}

// New creates a form in the given mode. A nil initial record starts an empty draft.
func New(mode validation.Mode, initial *models.CustomerRecord, v *validation.Validator, dir *location.Directory) *Controller {
	draft := models.NewCustomerRecord()
	if initial != nil {
		draft = initial.Clone()
		if draft.CountryCode == "" {
			draft.CountryCode = models.DefaultCountryCode
		}
		if draft.Interests == nil {
			draft.Interests = []string{}
		}
	}

	c := &Controller{
		mode:      mode,
		validator: v,
		locations: dir,
		draft:     draft,
		errors:    make(map[string]string),
		touched:   make(map[string]bool),
	}
	if draft.Photo != nil {
		c.photoPreview = previewOf(draft.Photo)
	}
	c.cascade()
	c.recomputeProgress()
	return c
}

// NewEdit prepares a form for an existing customer. A stored phone carrying
// its calling code is split back into code and 10 digits, the password is
// left blank and the photo preview points at previewBase+photoPath.
func NewEdit(rec *models.CustomerRecord, previewBase string, v *validation.Validator, dir *location.Directory) *Controller {
	initial := rec.Clone()
	initial.Password = ""
	initial.Photo = nil
	initial.CountryCode = models.DefaultCountryCode
	if m := storedPhonePattern.FindStringSubmatch(initial.Phone); m != nil {
		initial.CountryCode = m[1]
		initial.Phone = m[2]
	}

	c := New(validation.ModeEdit, initial, v, dir)
	if initial.PhotoPath != "" {
		c.photoPreview = previewBase + initial.PhotoPath
	}
	return c
}

// Mode returns the form mode
func (c *Controller) Mode() validation.Mode {
	return c.mode
}

// SetField updates a text field. Phone input is reduced to its first 10 digits.
// A field that was already blurred is re-validated immediately.
func (c *Controller) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := c.draft
	switch name {
	case validation.FieldFirstName:
		d.FirstName = value
	case validation.FieldLastName:
		d.LastName = value
	case validation.FieldEmail:
		d.Email = value
	case validation.FieldPassword:
		d.Password = value
	case validation.FieldPhone:
		d.Phone = validation.SanitizePhone(value)
	case validation.FieldCountryCode:
		d.CountryCode = value
	case validation.FieldDOB:
		d.DOB = value
	case validation.FieldGender:
		d.Gender = value
	case validation.FieldAddress:
		d.Address = value
	case validation.FieldCountry:
		d.Country = value
	case validation.FieldState:
		d.State = value
	case validation.FieldCity:
		d.City = value
	case validation.FieldPostalCode:
		d.PostalCode = value
	default:
		return models.ErrInvalidInput(fmt.Sprintf("unknown text field: %s", name))
	}

	c.changed(name)
	return nil
}

// SetChecked updates a checkbox field
func (c *Controller) SetChecked(name string, checked bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case validation.FieldTerms:
		c.draft.Terms = checked
	case validation.FieldNewsletter:
		c.draft.Newsletter = checked
	default:
		return models.ErrInvalidInput(fmt.Sprintf("unknown checkbox field: %s", name))
	}

	c.changed(name)
	return nil
}

// ToggleInterest adds or removes one interest; the interests behave as a set
func (c *Controller) ToggleInterest(interest string, checked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	has := c.draft.HasInterest(interest)
	switch {
	case checked && !has:
		c.draft.Interests = append(c.draft.Interests, interest)
	case !checked && has:
		kept := c.draft.Interests[:0]
		for _, i := range c.draft.Interests {
			if i != interest {
				kept = append(kept, i)
			}
		}
		c.draft.Interests = kept
	}

	c.changed(validation.FieldInterests)
}

// SetPhoto attaches a photo and derives its preview; nil removes it
func (c *Controller) SetPhoto(photo *models.Attachment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft.Photo = photo
	c.photoPreview = ""
	if photo != nil {
		c.photoPreview = previewOf(photo)
	}
	c.changed(validation.FieldPhoto)
}

// Blur marks the field touched and validates it. Returns the stored error.
func (c *Controller) Blur(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.touched[name] = true
	msg := c.validator.Field(name, c.draft, c.mode)
	c.errors[name] = msg
	return msg
}

// ValidateAll checks every field of the mode, touches them all and reports
// whether the draft can be submitted.
func (c *Controller) ValidateAll() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	found := c.validator.All(c.draft, c.mode)
	c.errors = make(map[string]string, len(found))
	for name, msg := range found {
		c.errors[name] = msg
	}

	rules := c.mode.Rules()
	for _, name := range rules.Fields() {
		c.touched[name] = true
	}
	for _, name := range rules.Required() {
		c.touched[name] = true
	}

	return len(found) == 0
}

// MergeServerErrors overlays errors reported by the customer API and touches
// those fields so they show without another blur.
func (c *Controller) MergeServerErrors(errs map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for name, msg := range errs {
		c.errors[name] = msg
		c.touched[name] = true
	}
}

// Progress returns the share of required fields filled in, in percent
func (c *Controller) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress
}

// States returns the states allowed for the selected country
func (c *Controller) States() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.states...)
}

// Cities returns the cities allowed for the selected state
func (c *Controller) Cities() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.cities...)
}

// Error returns the current message of a field
func (c *Controller) Error(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors[name]
}

// Touched reports whether the field was blurred or validated
func (c *Controller) Touched(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched[name]
}

// Draft returns a copy of the draft
func (c *Controller) Draft() *models.CustomerRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// Payload builds the API body for the draft
func (c *Controller) Payload() models.CustomerPayload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.NewCustomerPayload(c.draft, c.mode == validation.ModeEdit)
}

// Snapshot returns the full form state. The password itself is never exposed.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	draft := c.draft.Clone()
	passwordSet := draft.Password != ""
	draft.Password = ""

	errs := make(map[string]string, len(c.errors))
	for k, v := range c.errors {
		errs[k] = v
	}
	touched := make(map[string]bool, len(c.touched))
	for k, v := range c.touched {
		touched[k] = v
	}

	return State{
		Mode:         c.mode.String(),
		Draft:        draft,
		PasswordSet:  passwordSet,
		Errors:       errs,
		Touched:      touched,
		States:       append([]string{}, c.states...),
		Cities:       append([]string{}, c.cities...),
		PhotoPreview: c.photoPreview,
		Progress:     c.progress,
	}
}

// changed runs the derived-state updates after a mutation. Caller holds mu.
func (c *Controller) changed(name string) {
	switch name {
	case validation.FieldCountry, validation.FieldState, validation.FieldCity:
		c.cascade()
	}
	c.recomputeProgress()

	if c.touched[name] {
		c.errors[name] = c.validator.Field(name, c.draft, c.mode)
	}
}

// cascade keeps state within country and city within state
func (c *Controller) cascade() {
	d := c.draft

	if d.Country == "" {
		c.states = nil
		d.State = ""
	} else {
		c.states = c.locations.States(d.Country)
		if !c.locations.HasState(d.Country, d.State) {
			d.State = ""
		}
	}

	if d.State == "" {
		c.cities = nil
		d.City = ""
		return
	}
	c.cities = c.locations.Cities(d.Country, d.State)
	if !c.locations.HasCity(d.Country, d.State, d.City) {
		d.City = ""
	}
}

func (c *Controller) recomputeProgress() {
	required := c.mode.Rules().Required()
	if len(required) == 0 {
		c.progress = 0
		return
	}

	filled := 0
	for _, name := range required {
		if c.isFilled(name) {
			filled++
		}
	}
	c.progress = float64(filled) / float64(len(required)) * 100
}

func (c *Controller) isFilled(name string) bool {
	d := c.draft
	switch name {
	case validation.FieldFirstName:
		return d.FirstName != ""
	case validation.FieldLastName:
		return d.LastName != ""
	case validation.FieldEmail:
		return d.Email != ""
	case validation.FieldPassword:
		return d.Password != ""
	case validation.FieldPhone:
		return d.Phone != ""
	case validation.FieldDOB:
		return d.DOB != ""
	case validation.FieldGender:
		return d.Gender != ""
	case validation.FieldAddress:
		return d.Address != ""
	case validation.FieldCountry:
		return d.Country != ""
	case validation.FieldState:
		return d.State != ""
	case validation.FieldCity:
		return d.City != ""
	case validation.FieldPostalCode:
		return d.PostalCode != ""
	case validation.FieldTerms:
		return d.Terms
	}
	return false
}

func previewOf(photo *models.Attachment) string {
	contentType := photo.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(photo.Data)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(photo.Data)
}
