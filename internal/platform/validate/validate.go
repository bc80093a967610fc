// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate collects field-level failures for account payloads and
// sale-search parameters, then reports them as one VALIDATION_ERROR.
package validate

import (
	"fmt"
	"math"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taibuivan/dvfmap/internal/platform/apperr"
)

// DateLayout is the calendar-date format used by DVF mutation dates (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator accumulates failures in call order. Use one per request.
type Validator struct {
	failures []apperr.FieldError
}

// # Text Rules

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.fail(field, "This field is required")
	}
	return v
}

// MinLen and MaxLen count runes, so accented names are measured as typed.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.fail(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.fail(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// Email fails unless value is a bare RFC 5322 address (no display name).
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	if err != nil || address.Address != strings.TrimSpace(value) {
		v.fail(field, "Must be a valid email address")
	}
	return v
}

// # Search Rules

// Coordinate fails unless both components are finite. Projected metres are
// accepted; range checks belong to the caller.
func (v *Validator) Coordinate(field string, x, y float64) *Validator {
	if !finite(x) || !finite(y) {
		v.fail(field, "Coordinates must be finite numbers")
	}
	return v
}

// Amounts checks a price interval: finite, non-negative and low <= high.
// An exact amount is passed as low == high.
func (v *Validator) Amounts(field string, low, high float64) *Validator {
	switch {
	case !finite(low) || !finite(high):
		v.fail(field, "Amounts must be finite numbers")
	case low < 0 || high < 0:
		v.fail(field, "Must not be negative")
	case low > high:
		v.fail(field, "Minimum must not exceed maximum")
	}
	return v
}

// Date fails if value is not a YYYY-MM-DD calendar date.
func (v *Validator) Date(field, value string) *Validator {
	if _, err := time.Parse(DateLayout, value); err != nil {
		v.fail(field, "Must be a date formatted YYYY-MM-DD")
	}
	return v
}

// DateSpan checks both bounds of a date interval and their order.
func (v *Validator) DateSpan(field, from, to string) *Validator {
	start, errFrom := time.Parse(DateLayout, from)
	end, errTo := time.Parse(DateLayout, to)

	if errFrom != nil || errTo != nil {
		v.fail(field, "Must be a date formatted YYYY-MM-DD")
		return v
	}
	if start.After(end) {
		v.fail(field, "Start must not be after end")
	}
	return v
}

// Custom adds message for field when failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.fail(field, message)
	}
	return v
}

// # Output

// Err returns VALIDATION_ERROR listing every failure, or nil.
func (v *Validator) Err() error {
	if len(v.failures) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.failures...)
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.failures) > 0
}

// Failed reports whether field already has a failure.
func (v *Validator) Failed(field string) bool {
	for _, failure := range v.failures {
		if failure.Field == field {
			return true
		}
	}
	return false
}

func (v *Validator) fail(field, message string) {
	v.failures = append(v.failures, apperr.FieldError{Field: field, Message: message})
}

func finite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
