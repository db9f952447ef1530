// Package validation holds the syntactic input checks applied before any
// account operation touches storage.
package validation

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Password policy reasons, reported one at a time in this order.
const (
	ReasonPasswordTooShort = "Password must be at least 8 characters long"
	ReasonPasswordNoLetter = "Password must contain at least one letter"
	ReasonPasswordNoDigit  = "Password must contain at least one number"
	ReasonPasswordValid    = "Password is valid"
)

const minPasswordLength = 8

// emailPattern accepts local-part@domain.tld with an alphabetic TLD of two or
// more characters. No DNS or mailbox check is made.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validator wraps a go-playground engine with the account rules registered as
// the "emailshape" and "password" tags.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the custom tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for empty tag names or nil funcs.
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		ok, _ := checkPassword(fl.Field().String())
		return ok
	})
	return &Validator{v: v}
}

// Engine exposes the underlying engine so transport layers share the tags.
func (v *Validator) Engine() *validator.Validate {
	return v.v
}

// Struct runs the struct-tag rules of s.
func (v *Validator) Struct(s any) error {
	return v.v.Struct(s)
}

// ValidateEmail reports whether s has the shape of an email address.
func (v *Validator) ValidateEmail(s string) bool {
	return v.v.Var(s, "emailshape") == nil
}

// ValidatePassword checks the strength policy and returns the first failing
// reason, or ReasonPasswordValid.
func (v *Validator) ValidatePassword(s string) (bool, string) {
	return checkPassword(s)
}

func checkPassword(s string) (bool, string) {
	if utf8.RuneCountInString(s) < minPasswordLength {
		return false, ReasonPasswordTooShort
	}

	var hasLetter, hasDigit bool
	for _, r := range s {
		switch {
		case r < utf8.RuneSelf && unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		return false, ReasonPasswordNoLetter
	}
	if !hasDigit {
		return false, ReasonPasswordNoDigit
	}
	return true, ReasonPasswordValid
}
