package validation

import (
	"testing"
	"time"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
)

var fixedNow = time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return New(func() time.Time { return fixedNow })
}

func validDraft() *models.CustomerRecord {
	return &models.CustomerRecord{
		FirstName:  "John",
		LastName:   "Doe",
		Email:      "john.doe@example.com",
		Password:   "Abcdef1!",
		Phone:      "9876543210",
		DOB:        "1990-05-20",
		Gender:     "male",
		Address:    "12 Baker Street",
		Country:    "India",
		State:      "Karnataka",
		City:       "Bengaluru",
		PostalCode: "560001",
		Terms:      true,
	}
}

func TestValidator_Phone(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		phone string
		valid bool
	}{
		{"9876543210", true},
		{"12345", false},
		{"12345678901", false},
		{"12345abcde", false},
		{"+919876543", false},
		{"98765 43210", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			d := validDraft()
			d.Phone = tt.phone
			msg := v.Field(FieldPhone, d, ModeCreate)
			if (msg == "") != tt.valid {
				t.Errorf("Field(phone=%q) = %q, want valid=%v", tt.phone, msg, tt.valid)
			}
		})
	}
}

func TestValidator_DOB(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		dob     string
		wantMsg string
	}{
		{"past", "1990-01-01", ""},
		{"today", "2024-06-15", ""},
		{"tomorrow", "2024-06-16", "Date of birth cannot be in the future."},
		{"far future", "2090-01-01", "Date of birth cannot be in the future."},
		{"missing", "", "Date of birth is required."},
		{"garbage", "15/06/1990", "Please enter a valid date."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			d.DOB = tt.dob
			if got := v.Field(FieldDOB, d, ModeCreate); got != tt.wantMsg {
				t.Errorf("Field(dob=%q) = %q, want %q", tt.dob, got, tt.wantMsg)
			}
		})
	}
}

func TestValidator_Password(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name     string
		password string
		mode     Mode
		valid    bool
	}{
		{"strong create", "Abcdef1!", ModeCreate, true},
		{"weak create", "abcdefgh", ModeCreate, false},
		{"empty create", "", ModeCreate, false},
		{"too short", "Ab1!", ModeCreate, false},
		{"disallowed char", "Abcdef1!#", ModeCreate, false},
		{"empty edit keeps current", "", ModeEdit, true},
		{"weak edit", "abcdefgh", ModeEdit, false},
		{"strong edit", "Xyz12345&", ModeEdit, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			d.Password = tt.password
			msg := v.Field(FieldPassword, d, tt.mode)
			if (msg == "") != tt.valid {
				t.Errorf("Field(password=%q, %s) = %q, want valid=%v", tt.password, tt.mode, msg, tt.valid)
			}
		})
	}
}

func TestValidator_FieldRules(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name   string
		field  string
		mutate func(d *models.CustomerRecord)
		valid  bool
	}{
		{"short first name", FieldFirstName, func(d *models.CustomerRecord) { d.FirstName = " J " }, false},
		{"two letter last name", FieldLastName, func(d *models.CustomerRecord) { d.LastName = "Li" }, true},
		{"email without tld", FieldEmail, func(d *models.CustomerRecord) { d.Email = "john@example" }, false},
		{"email with space", FieldEmail, func(d *models.CustomerRecord) { d.Email = "jo hn@example.com" }, false},
		{"postal 5 digits", FieldPostalCode, func(d *models.CustomerRecord) { d.PostalCode = "12345" }, true},
		{"postal 7 digits", FieldPostalCode, func(d *models.CustomerRecord) { d.PostalCode = "1234567" }, false},
		{"missing gender", FieldGender, func(d *models.CustomerRecord) { d.Gender = "" }, false},
		{"missing city", FieldCity, func(d *models.CustomerRecord) { d.City = "" }, false},
		{"terms unchecked", FieldTerms, func(d *models.CustomerRecord) { d.Terms = false }, false},
		{"address has no rule", FieldAddress, func(d *models.CustomerRecord) { d.Address = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(d)
			msg := v.Field(tt.field, d, ModeCreate)
			if (msg == "") != tt.valid {
				t.Errorf("Field(%s) = %q, want valid=%v", tt.field, msg, tt.valid)
			}
		})
	}
}

func TestValidator_All_TermsExemptInEdit(t *testing.T) {
	v := newTestValidator()

	d := validDraft()
	d.Terms = false

	createErrs := v.All(d, ModeCreate)
	if createErrs[FieldTerms] == "" {
		t.Errorf("expected terms error in create mode, got %v", createErrs)
	}
	if len(createErrs) != 1 {
		t.Errorf("expected only the terms error, got %v", createErrs)
	}

	if editErrs := v.All(d, ModeEdit); len(editErrs) != 0 {
		t.Errorf("expected no errors in edit mode, got %v", editErrs)
	}
}

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(987) 654-3210", "9876543210"},
		{"98765432109999", "9876543210"},
		{"abc", ""},
		{"+91 98765", "9198765"},
	}

	for _, tt := range tests {
		if got := SanitizePhone(tt.in); got != tt.want {
			t.Errorf("SanitizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
