package models

import (
	"strings"

	"github.com/google/uuid"
)

// Gender values accepted by the customer API
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// IsValidGender reports whether g is one of the gender values, ignoring case
func IsValidGender(g string) bool {
	switch strings.ToLower(g) {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// DefaultCountryCode is the calling code shown next to the phone field
const DefaultCountryCode = "+91"

// DateLayout is the wire format for dates exchanged with the customer API
const DateLayout = "2006-01-02"

// Attachment is a file picked for upload together with a customer
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

// CustomerRecord represents a customer as exchanged with the customer API
type CustomerRecord struct {
	ID          uuid.UUID   `json:"id"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	Password    string      `json:"password,omitempty"`
	Phone       string      `json:"phone"`
	CountryCode string      `json:"countryCode,omitempty"`
	DOB         string      `json:"dob"`
	Gender      string      `json:"gender"`
	Address     string      `json:"address"`
	Country     string      `json:"country"`
	State       string      `json:"state"`
	City        string      `json:"city"`
	PostalCode  string      `json:"postalCode"`
	Interests   []string    `json:"interests"`
	Newsletter  bool        `json:"newsletter"`
	Terms       bool        `json:"terms"`
	PhotoPath   string      `json:"photoPath,omitempty"`
	Photo       *Attachment `json:"-"`
}

// NewCustomerRecord returns an empty draft with the display defaults applied
func NewCustomerRecord() *CustomerRecord {
	return &CustomerRecord{
		CountryCode: DefaultCountryCode,
		Interests:   []string{},
	}
}

// FullName joins first and last name
func (c *CustomerRecord) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// HasInterest reports whether the interest is selected
func (c *CustomerRecord) HasInterest(interest string) bool {
	for _, i := range c.Interests {
		if i == interest {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the record
func (c *CustomerRecord) Clone() *CustomerRecord {
	cp := *c
	cp.Interests = append([]string(nil), c.Interests...)
	if c.Photo != nil {
		photo := *c.Photo
		photo.Data = append([]byte(nil), c.Photo.Data...)
		cp.Photo = &photo
	}
	return &cp
}

// CustomerPayload is the body sent to the customer API on create and update
type CustomerPayload struct {
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Email      string   `json:"email"`
	Password   *string  `json:"password,omitempty"`
	Phone      string   `json:"phone"`
	DOB        string   `json:"dob"`
	Gender     string   `json:"gender"`
	Address    string   `json:"address"`
	PostalCode string   `json:"postalCode"`
	Country    string   `json:"country"`
	State      string   `json:"state"`
	City       string   `json:"city"`
	Interests  []string `json:"interests"`
	Newsletter bool     `json:"newsletter"`
	Terms      bool     `json:"terms"`
}

// NewCustomerPayload prepares a record for the wire.
// On update the password is only sent when the user typed a new one.
func NewCustomerPayload(c *CustomerRecord, isUpdate bool) CustomerPayload {
	p := CustomerPayload{
		FirstName:  strings.TrimSpace(c.FirstName),
		LastName:   strings.TrimSpace(c.LastName),
		Email:      strings.TrimSpace(c.Email),
		Phone:      c.Phone,
		DOB:        c.DOB,
		Gender:     c.Gender,
		Address:    strings.TrimSpace(c.Address),
		PostalCode: strings.TrimSpace(c.PostalCode),
		Country:    c.Country,
		State:      c.State,
		City:       c.City,
		Interests:  append([]string{}, c.Interests...),
		Newsletter: c.Newsletter,
		Terms:      c.Terms,
	}

	if isUpdate {
		if pw := strings.TrimSpace(c.Password); pw != "" {
			p.Password = &pw
		}
	} else {
		pw := c.Password
		p.Password = &pw
	}

	return p
}
