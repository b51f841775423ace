package validation

import "github.com/Raymond9734/pizza-customer-console/internal/models"

// Field names, matching the JSON names used by the customer API
const (
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldPhone       = "phone"
	FieldCountryCode = "countryCode"
	FieldDOB         = "dob"
	FieldGender      = "gender"
	FieldAddress     = "address"
	FieldCountry     = "country"
	FieldState       = "state"
	FieldCity        = "city"
	FieldPostalCode  = "postalCode"
	FieldInterests   = "interests"
	FieldNewsletter  = "newsletter"
	FieldTerms       = "terms"
	FieldPhoto       = "photo"
)

// Mode selects between registering a new customer and editing an existing one
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// ParseMode reads "create" or "edit"
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "create", "":
		return ModeCreate, true
	case "edit":
		return ModeEdit, true
	}
	return ModeCreate, false
}

// Rules returns the rule set of the mode
func (m Mode) Rules() *RuleSet {
	if m == ModeEdit {
		return editRules
	}
	return createRules
}

// rule binds a field to a validator tag string.
// messages is keyed by the failing tag; fallback covers anything else.
type rule struct {
	tag      string
	messages map[string]string
	fallback string
	value    func(c *models.CustomerRecord) any
}

// RuleSet is the validation and completion contract of one form mode
type RuleSet struct {
	order    []string
	rules    map[string]rule
	required []string
}

// Fields returns the validated fields in display order
func (s *RuleSet) Fields() []string {
	return append([]string(nil), s.order...)
}

// Required returns the fields counted by the completion progress
func (s *RuleSet) Required() []string {
	return append([]string(nil), s.required...)
}

const (
	msgPassword = "Password must be 8+ characters with uppercase, lowercase, number, and special character."
)

func nameRule(label string, get func(c *models.CustomerRecord) any) rule {
	return rule{
		tag:      "trimmed_min=2",
		fallback: label + " must be at least 2 characters long.",
		value:    get,
	}
}

func requiredRule(label string, get func(c *models.CustomerRecord) any) rule {
	return rule{
		tag:      "required",
		fallback: label + " is required.",
		value:    get,
	}
}

func sharedRules() map[string]rule {
	return map[string]rule{
		FieldFirstName: nameRule("First name", func(c *models.CustomerRecord) any { return c.FirstName }),
		FieldLastName:  nameRule("Last name", func(c *models.CustomerRecord) any { return c.LastName }),
		FieldEmail: {
			tag:      "email_shape",
			fallback: "Please enter a valid email address.",
			value:    func(c *models.CustomerRecord) any { return c.Email },
		},
		FieldPhone: {
			tag:      "phone_digits",
			fallback: "Phone number must be exactly 10 digits.",
			value:    func(c *models.CustomerRecord) any { return c.Phone },
		},
		FieldDOB: {
			tag: "required,iso_date,not_future",
			messages: map[string]string{
				"required":   "Date of birth is required.",
				"iso_date":   "Please enter a valid date.",
				"not_future": "Date of birth cannot be in the future.",
			},
			value: func(c *models.CustomerRecord) any { return c.DOB },
		},
		FieldGender:  requiredRule("Gender", func(c *models.CustomerRecord) any { return c.Gender }),
		FieldCountry: requiredRule("Country", func(c *models.CustomerRecord) any { return c.Country }),
		FieldState:   requiredRule("State", func(c *models.CustomerRecord) any { return c.State }),
		FieldCity:    requiredRule("City", func(c *models.CustomerRecord) any { return c.City }),
		FieldPostalCode: {
			tag:      "postal_code",
			fallback: "Please enter a valid postal code.",
			value:    func(c *models.CustomerRecord) any { return c.PostalCode },
		},
	}
}

var createRules = func() *RuleSet {
	rules := sharedRules()
	rules[FieldPassword] = rule{
		tag:      "required,strong_password",
		fallback: msgPassword,
		value:    func(c *models.CustomerRecord) any { return c.Password },
	}
	rules[FieldTerms] = rule{
		tag:      "required",
		fallback: "You must agree to the terms and conditions.",
		value:    func(c *models.CustomerRecord) any { return c.Terms },
	}
	return &RuleSet{
		order: []string{
			FieldFirstName, FieldLastName, FieldEmail, FieldPassword, FieldPhone, FieldDOB,
			FieldGender, FieldCountry, FieldState, FieldCity, FieldPostalCode, FieldTerms,
		},
		rules: rules,
		required: []string{
			FieldFirstName, FieldLastName, FieldEmail, FieldPassword, FieldPhone, FieldDOB,
			FieldGender, FieldCountry, FieldState, FieldCity, FieldPostalCode, FieldTerms, FieldAddress,
		},
	}
}()

// Edit mode keeps the current password when left blank and never asks for terms again.
var editRules = func() *RuleSet {
	rules := sharedRules()
	rules[FieldPassword] = rule{
		tag:      "omitempty,strong_password",
		fallback: msgPassword,
		value:    func(c *models.CustomerRecord) any { return c.Password },
	}
	return &RuleSet{
		order: []string{
			FieldFirstName, FieldLastName, FieldEmail, FieldPassword, FieldPhone, FieldDOB,
			FieldGender, FieldCountry, FieldState, FieldCity, FieldPostalCode,
		},
		rules: rules,
		required: []string{
			FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldDOB,
			FieldGender, FieldCountry, FieldState, FieldCity, FieldPostalCode, FieldAddress,
		},
	}
}()
