package validation

import (
	"net/mail"
	"strings"
	"time"
)

// Violations maps a field name to a message code (see i18n).
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Map returns the violations as a plain map, or nil when empty.
func (v Violations) Map() map[string]string {
	if v.Empty() {
		return nil
	}
	return map[string]string(v)
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// ID requires a non-zero identifier.
func ID(field string, id uint, v Violations) {
	if id == 0 {
		v[field] = "required"
	}
}

// Date checks an ISO date. Empty values are left to Required.
func Date(field, value string, v Violations) {
	if value == "" {
		return
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		v[field] = "invalid_date"
	}
}

// Time checks an HH:MM time of day. Empty values are left to Required.
func Time(field, value string, v Violations) {
	if value == "" {
		return
	}
	if _, err := time.Parse("15:04", value); err != nil {
		v[field] = "invalid_time"
	}
}

// Email checks an address when one is given.
func Email(field, value string, v Violations) {
	if value == "" {
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		v[field] = "invalid_email"
	}
}

// OneOf requires value to be one of allowed.
func OneOf(field, value string, allowed []string, v Violations) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "invalid_choice"
}

// ToothNumber checks FDI notation for permanent teeth.
func ToothNumber(field string, n int, v Violations) {
	q, p := n/10, n%10
	if q < 1 || q > 4 || p < 1 || p > 8 {
		v[field] = "invalid_tooth"
	}
}
