package models

import (
	"math"
	"time"
)

// DateLayout is the ISO calendar date format used for every date column.
const DateLayout = "2006-01-02"

// TimeLayout is the time-of-day format used for appointments.
const TimeLayout = "15:04"

// All returns every persisted model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&Patient{},
		&Appointment{},
		&ToothRecord{},
		&ExamHistoryEntry{},
		&Image{},
		&Prescription{},
		&Procedure{},
		&Invoice{},
		&InvoiceLine{},
		&Payment{},
	}
}

// RoundCents rounds an amount to two decimals.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Today returns the current local date in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}

// ValidDate reports whether s is an ISO calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidTime reports whether s is an HH:MM time of day.
func ValidTime(s string) bool {
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}
