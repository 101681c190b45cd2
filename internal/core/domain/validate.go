package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// FieldError describes a single invalid field in a request payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	// Accepts international numbers (optional +, 7-20 digits, no leading
	// zero) and local 10-digit numbers starting with 0. Spaces, dashes
	// and parentheses are stripped before matching.
	phonePattern = regexp.MustCompile(`^(?:\+?[1-9][0-9]{6,19}|0[1-9][0-9]{8})$`)
	phoneStrip   = regexp.MustCompile(`[\s\-()]`)

	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidPhoneNumber reports whether value is an acceptable phone number.
func ValidPhoneNumber(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	return phonePattern.MatchString(phoneStrip.ReplaceAllString(value, ""))
}

// ValidateCustomer checks a customer payload and returns one error per
// invalid field. An empty slice means the payload is acceptable.
func ValidateCustomer(p *CustomerPayload) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(p.FirstName) == "" {
		errs = append(errs, FieldError{Field: "firstName", Message: "First name is required"})
	} else if utf8.RuneCountInString(p.FirstName) > 50 {
		errs = append(errs, FieldError{Field: "firstName", Message: "First name can't be longer than 50 characters"})
	}

	if strings.TrimSpace(p.LastName) == "" {
		errs = append(errs, FieldError{Field: "lastName", Message: "Last name is required"})
	} else if utf8.RuneCountInString(p.LastName) > 50 {
		errs = append(errs, FieldError{Field: "lastName", Message: "Last name can't be longer than 50 characters"})
	}

	if utf8.RuneCountInString(p.Address) > 255 {
		errs = append(errs, FieldError{Field: "address", Message: "Address can't be longer than 255 characters"})
	}

	if strings.TrimSpace(p.PhoneNumber) == "" {
		errs = append(errs, FieldError{Field: "phoneNumber", Message: "Phone number is required"})
	} else if !ValidPhoneNumber(p.PhoneNumber) {
		errs = append(errs, FieldError{Field: "phoneNumber", Message: "Phone number format is invalid"})
	}

	if strings.TrimSpace(p.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "Email is required"})
	} else if !emailPattern.MatchString(p.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Email format is invalid"})
	}

	return errs
}
