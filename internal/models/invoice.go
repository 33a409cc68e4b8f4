package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InvoiceStatus represents the payment status of an invoice.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "en attente"
	InvoicePartial InvoiceStatus = "partiel"
	InvoicePaid    InvoiceStatus = "payée"
)

// Valid reports whether s is a known status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoicePending, InvoicePartial, InvoicePaid:
		return true
	}
	return false
}

// StatusFor derives the status from the paid and total amounts, compared
// after rounding to cents.
func StatusFor(paid, total float64) InvoiceStatus {
	paid, total = RoundCents(paid), RoundCents(total)
	switch {
	case paid >= total:
		return InvoicePaid
	case paid > 0:
		return InvoicePartial
	default:
		return InvoicePending
	}
}

// PaymentMethods lists the accepted payment methods.
var PaymentMethods = []string{"Carte bancaire", "Espèces", "Chèque", "Virement"}

// Invoice is a bill for a patient. Number is unique across the table.
type Invoice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PatientID uint     `gorm:"index;not null" json:"patient_id"`
	Patient   *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`

	Number  string        `gorm:"size:20;uniqueIndex;not null" json:"number"`
	Date    string        `gorm:"size:10;not null;index" json:"date"`
	Total   float64       `gorm:"not null;default:0" json:"total"`
	Paid    float64       `gorm:"not null;default:0" json:"paid"`
	Status  InvoiceStatus `gorm:"size:20;not null;default:'en attente'" json:"status"`
	Details string        `gorm:"type:text" json:"details,omitempty"`
	PDFPath string        `gorm:"size:1024" json:"pdf_path,omitempty"`

	Lines []InvoiceLine `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

// Remaining returns the amount still due, never negative.
func (i *Invoice) Remaining() float64 {
	r := RoundCents(i.Total - i.Paid)
	if r < 0 {
		return 0
	}
	return r
}

// ApplyPayment adds amount to Paid and recomputes Status.
func (i *Invoice) ApplyPayment(amount float64) {
	i.Paid = RoundCents(i.Paid + amount)
	i.Status = StatusFor(i.Paid, i.Total)
}

// LinesTotal sums the line totals.
func (i *Invoice) LinesTotal() float64 {
	var total float64
	for _, l := range i.Lines {
		total += l.Total
	}
	return RoundCents(total)
}

// InvoiceLine is one billed item. Total is computed at write time.
type InvoiceLine struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	InvoiceID uint `gorm:"index;not null" json:"invoice_id"`

	ProcedureID *uint      `gorm:"index" json:"procedure_id,omitempty"`
	Procedure   *Procedure `gorm:"foreignKey:ProcedureID" json:"procedure,omitempty"`

	Label     string  `gorm:"size:255;not null" json:"label"`
	Quantity  int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	Total     float64 `gorm:"not null" json:"total"`
}

// ComputeTotal sets Total to quantity times unit price.
func (l *InvoiceLine) ComputeTotal() {
	l.Total = RoundCents(float64(l.Quantity) * l.UnitPrice)
}

// ProcedureCode returns the catalog code of the line, if any.
func (l *InvoiceLine) ProcedureCode() string {
	if l.Procedure == nil {
		return ""
	}
	return l.Procedure.Code
}

// Payment is money received from a patient, optionally against an invoice
// referenced by number.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PatientID     uint    `gorm:"index;not null" json:"patient_id"`
	Amount        float64 `gorm:"not null" json:"amount"`
	Date          string  `gorm:"size:10;not null;index" json:"date"`
	Method        string  `gorm:"size:50;not null" json:"method"`
	InvoiceNumber string  `gorm:"size:20;index" json:"invoice_number,omitempty"`
	Description   string  `gorm:"type:text" json:"description,omitempty"`
}

// Procedure is a catalog entry with its base tariff.
type Procedure struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Code        string  `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Label       string  `gorm:"size:255;not null" json:"label"`
	BaseTariff  float64 `gorm:"not null" json:"base_tariff"`
	Description string  `gorm:"type:text" json:"description,omitempty"`
}

// InvoicePrefix returns the number prefix for a year, e.g. "F2025-".
func InvoicePrefix(year int) string {
	return fmt.Sprintf("F%d-", year)
}

// FormatInvoiceNumber renders year and sequence as F<year>-<seq:03d>.
func FormatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("F%d-%03d", year, seq)
}

// InvoiceSequence extracts the sequence part of a number for the given
// year. ok is false when the number does not belong to that year.
func InvoiceSequence(number string, year int) (seq int, ok bool) {
	rest, found := strings.CutPrefix(number, InvoicePrefix(year))
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
