// Package validation implements the customer form rules on top of
// go-playground/validator. Every rule is a tag string evaluated against a
// single field value, so the same engine serves blur-time and submit-time checks.
package validation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/Raymond9734/pizza-customer-console/internal/models"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern  = regexp.MustCompile(`^\d{10}$`)
	postalPattern = regexp.MustCompile(`^\d{5,6}$`)
)

const passwordSpecials = "@$!%*?&"

// Validator evaluates field rules for a customer draft
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New creates a validator. now decides what "the future" means for dates;
// nil means time.Now.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}

	v := &Validator{
		validate: validator.New(),
		now:      now,
	}

	// Registration only fails on an empty tag or nil func
	_ = v.validate.RegisterValidation("trimmed_min", trimmedMin)
	_ = v.validate.RegisterValidation("email_shape", matches(emailPattern))
	_ = v.validate.RegisterValidation("phone_digits", matches(phonePattern))
	_ = v.validate.RegisterValidation("postal_code", matches(postalPattern))
	_ = v.validate.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("iso_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(models.DateLayout, fl.Field().String())
		return err == nil
	})
	_ = v.validate.RegisterValidation("not_future", v.notFuture)

	return v
}

// Field validates one field of the draft and returns its message, "" when valid.
// Fields without a rule in the mode are always valid.
func (v *Validator) Field(name string, draft *models.CustomerRecord, mode Mode) string {
	r, ok := mode.Rules().rules[name]
	if !ok {
		return ""
	}

	err := v.validate.Var(r.value(draft), r.tag)
	if err == nil {
		return ""
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := r.messages[verrs[0].ActualTag()]; ok {
			return msg
		}
	}
	if r.fallback != "" {
		return r.fallback
	}
	return "This field is invalid."
}

// All validates every field of the mode and returns the non-empty messages
func (v *Validator) All(draft *models.CustomerRecord, mode Mode) map[string]string {
	errs := make(map[string]string)
	for _, name := range mode.Rules().order {
		if msg := v.Field(name, draft, mode); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

// IsStrongPassword checks the password policy: 8+ characters drawn from
// letters, digits and @$!%*?&, with at least one of each class.
func IsStrongPassword(s string) bool {
	if len(s) < 8 {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return false
		}
	}

	return lower && upper && digit && special
}

// SanitizePhone keeps the digits of s, truncated to 10
func SanitizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 10 {
				break
			}
		}
	}
	return b.String()
}

func (v *Validator) notFuture(fl validator.FieldLevel) bool {
	dob, err := time.Parse(models.DateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	now := v.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !dob.After(today)
}

func trimmedMin(fl validator.FieldLevel) bool {
	min, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= min
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}
