package validator

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	// PasswordMinLen and PasswordMaxLen bound new passwords. The upper bound
	// is bcrypt's input limit on the server.
	PasswordMinLen = 8
	PasswordMaxLen = 72
)

// Required fails for empty or whitespace-only values.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:   field,
			Message: "field is required",
			Key:     "validation.required",
		},
	}
}

// MinLen counts characters, not bytes.
func MinLen(field, value string, minLen int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) >= minLen
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters long", minLen),
			Key:     "validation.min_length",
		},
	}
}

func MaxLen(field, value string, maxLen int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) <= maxLen
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be at most %d characters long", maxLen),
			Key:     "validation.max_length",
		},
	}
}

// ValidEmail accepts a bare address with a dotted domain.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return isEmail(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: "must be a valid email address",
			Key:     "validation.email",
		},
	}
}

// Equal fails when value differs from other. Used for confirmation fields,
// so the error is reported on field.
func Equal(field, value, other string) Rule {
	return Rule{
		Check: func() bool {
			return value == other
		},
		Error: ValidationError{
			Field:   field,
			Message: "values don't match",
			Key:     "validation.equal",
		},
	}
}

func isEmail(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}

	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}
