// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// Services validate every input they accept. Handlers only decode.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taibuivan/poetpiece/internal/platform/apperr"
)

// DateLayout is the calendar date format accepted by the API.
const DateLayout = "2006-01-02"

var (
	uuidRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// Validator collects field-level validation errors.
//
// It is not safe for concurrent use; create one per operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// Range fails if the value is outside [min, max].
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return v
}

// FloatRange fails if the value is outside [min, max].
func (v *Validator) FloatRange(field string, value, min, max float64) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Must be between %g and %g", min, max))
	}
	return v
}

// Email fails if the value is not a valid RFC 5322 address.
func (v *Validator) Email(field, value string) *Validator {
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// UUID fails if the value is not a valid UUID string (case-insensitive).
func (v *Validator) UUID(field, value string) *Validator {
	if !uuidRegex.MatchString(strings.ToLower(value)) {
		v.add(field, "Must be a valid UUID")
	}
	return v
}

// URL fails unless the value is an absolute http or https URL with a host.
func (v *Validator) URL(field, value string) *Validator {
	parsed, err := url.ParseRequestURI(value)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		v.add(field, "Must be a valid http(s) URL")
	}
	return v
}

// Pattern fails if the value does not match re.
func (v *Validator) Pattern(field, value string, re *regexp.Regexp, message string) *Validator {
	if !re.MatchString(value) {
		v.add(field, message)
	}
	return v
}

// PastDate fails unless value is a [DateLayout] date not after now.
func (v *Validator) PastDate(field, value string, now time.Time) *Validator {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		v.add(field, "Must be a date formatted YYYY-MM-DD")
		return v
	}
	if parsed.After(now) {
		v.add(field, "Must not be in the future")
	}
	return v
}

// OneOf fails if the value is not in the allowed set.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
//	v.Custom("index", index < 1, "Must be positive")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a VALIDATION_ERROR [apperr.AppError] if any rule failed, else nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
