package models

import (
	"testing"
	"time"
)

func TestPatient_DisplayName(t *testing.T) {
	p := &Patient{LastName: "Ben Salah", FirstName: "Amira"}
	if got := p.DisplayName(); got != "Ben Salah, Amira" {
		t.Errorf("DisplayName() = %q, want %q", got, "Ben Salah, Amira")
	}
}

func TestPatient_AgeAt(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		birth  string
		want   int
		wantOK bool
	}{
		{"birthday passed", "1990-03-01", 35, true},
		{"birthday today", "1990-06-15", 35, true},
		{"birthday tomorrow", "1990-06-16", 34, true},
		{"missing", "", 0, false},
		{"malformed", "15/06/1990", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Patient{BirthDate: tt.birth}
			got, ok := p.AgeAt(now)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("AgeAt() = %d, %v, want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestValidToothNumber(t *testing.T) {
	valid := ToothNumbers()
	if len(valid) != 32 {
		t.Fatalf("ToothNumbers() has %d entries, want 32", len(valid))
	}
	for _, n := range valid {
		if !ValidToothNumber(n) {
			t.Errorf("ValidToothNumber(%d) = false", n)
		}
	}
	for _, n := range []int{0, 10, 19, 29, 50, 51, 9, 48 + 1, -11} {
		if ValidToothNumber(n) {
			t.Errorf("ValidToothNumber(%d) = true", n)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		paid, total float64
		want        InvoiceStatus
	}{
		{0, 100, InvoicePending},
		{40, 100, InvoicePartial},
		{99.999, 100, InvoicePaid},
		{100, 100, InvoicePaid},
		{150, 100, InvoicePaid},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.paid, tt.total); got != tt.want {
			t.Errorf("StatusFor(%v, %v) = %q, want %q", tt.paid, tt.total, got, tt.want)
		}
	}
}

func TestInvoice_ApplyPayment(t *testing.T) {
	inv := &Invoice{Total: 100, Status: InvoicePending}
	inv.ApplyPayment(30.10)
	inv.ApplyPayment(20.20)
	if inv.Paid != 50.30 || inv.Status != InvoicePartial {
		t.Fatalf("after two payments paid=%v status=%q", inv.Paid, inv.Status)
	}
	if got := inv.Remaining(); got != 49.70 {
		t.Errorf("Remaining() = %v, want 49.70", got)
	}
	inv.ApplyPayment(60)
	if inv.Status != InvoicePaid || inv.Remaining() != 0 {
		t.Errorf("overpaid invoice status=%q remaining=%v", inv.Status, inv.Remaining())
	}
}

func TestInvoiceLine_ComputeTotal(t *testing.T) {
	l := &InvoiceLine{Quantity: 3, UnitPrice: 16.87}
	l.ComputeTotal()
	if l.Total != 50.61 {
		t.Errorf("Total = %v, want 50.61", l.Total)
	}
}

func TestInvoiceNumbering(t *testing.T) {
	if got := FormatInvoiceNumber(2025, 7); got != "F2025-007" {
		t.Errorf("FormatInvoiceNumber = %q", got)
	}
	if seq, ok := InvoiceSequence("F2025-012", 2025); !ok || seq != 12 {
		t.Errorf("InvoiceSequence = %d, %v", seq, ok)
	}
	if seq, ok := InvoiceSequence("F2025-1000", 2025); !ok || seq != 1000 {
		t.Errorf("InvoiceSequence past 999 = %d, %v", seq, ok)
	}
	if _, ok := InvoiceSequence("F2024-003", 2025); ok {
		t.Error("InvoiceSequence accepted another year")
	}
	if _, ok := InvoiceSequence("F2025-abc", 2025); ok {
		t.Error("InvoiceSequence accepted a non-numeric suffix")
	}
}

func TestMedication_Normalize(t *testing.T) {
	m := Medication{Name: " Amoxicilline ", Dosage: "500", Form: "comprimé", Quantity: 1, Frequency: 3, Duration: "7"}
	m.Normalize()
	if m.Dosage != "500mg" || m.Duration != "7j" || m.Name != "Amoxicilline" {
		t.Fatalf("Normalize() = %+v", m)
	}
	if got := m.DisplayName(); got != "Amoxicilline (500mg)" {
		t.Errorf("DisplayName() = %q", got)
	}
	if got := m.Posology(); got != "1 comprimé x 3 par jour – pendant 7j" {
		t.Errorf("Posology() = %q", got)
	}

	kept := Medication{Dosage: "1g", Duration: "1 semaine"}
	kept.Normalize()
	if kept.Dosage != "1g" || kept.Duration != "1 semaine" {
		t.Errorf("Normalize() changed explicit units: %+v", kept)
	}
}

func TestPrescription_MedicationsRoundTrip(t *testing.T) {
	p := &Prescription{Medications: []Medication{{Name: "Ibuprofène", Dosage: "400mg", Quantity: 1, Frequency: 2, Duration: "5j"}}}
	if err := p.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave: %v", err)
	}
	got := &Prescription{MedicationsJSON: p.MedicationsJSON}
	if err := got.AfterFind(nil); err != nil {
		t.Fatalf("AfterFind: %v", err)
	}
	if len(got.Medications) != 1 || got.Medications[0].Name != "Ibuprofène" {
		t.Errorf("Medications = %+v", got.Medications)
	}

	bad := &Prescription{MedicationsJSON: "{not json"}
	if err := bad.AfterFind(nil); err != nil || bad.Medications != nil {
		t.Errorf("malformed block: err=%v meds=%v", err, bad.Medications)
	}
}

func TestAppointmentStatus_Valid(t *testing.T) {
	for _, s := range []AppointmentStatus{AppointmentPlanned, AppointmentDone, AppointmentCancelled, AppointmentRescheduled} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if AppointmentStatus("confirmé").Valid() {
		t.Error("unknown status accepted")
	}
}
