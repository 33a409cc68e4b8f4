package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"gorm.io/gorm"
)

// Medication is one entry of a prescription.
type Medication struct {
	Name      string `json:"nom"`
	Dosage    string `json:"dosage"`
	Form      string `json:"forme"`
	Quantity  int    `json:"quantite"`
	Frequency int    `json:"frequence"`
	Duration  string `json:"duree"`
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Normalize trims fields and adds the default units to bare numbers
// ("500" -> "500mg" for dosage, "7" -> "7j" for duration).
func (m *Medication) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Dosage = strings.TrimSpace(m.Dosage)
	m.Form = strings.TrimSpace(m.Form)
	m.Duration = strings.TrimSpace(m.Duration)
	if digitsOnly(m.Dosage) {
		m.Dosage += "mg"
	}
	if digitsOnly(m.Duration) {
		m.Duration += "j"
	}
}

// DisplayName returns "Name (dosage)", or just the name without a dosage.
func (m Medication) DisplayName() string {
	if m.Dosage == "" {
		return m.Name
	}
	return fmt.Sprintf("%s (%s)", m.Name, m.Dosage)
}

// Posology returns the dosing instruction line, e.g.
// "1 comprimé x 3 par jour – pendant 7j".
func (m Medication) Posology() string {
	form := m.Form
	if form != "" {
		form = " " + form
	}
	return fmt.Sprintf("%d%s x %d par jour – pendant %s", m.Quantity, form, m.Frequency, m.Duration)
}

// Prescription is a dated list of medications for a patient. Medications are
// stored as one opaque JSON column.
type Prescription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PatientID       uint         `gorm:"index;not null" json:"patient_id"`
	Date            string       `gorm:"size:10;not null;index" json:"date"`
	MedicationsJSON string       `gorm:"column:medications;type:text;not null" json:"-"`
	Medications     []Medication `gorm:"-" json:"medications"`
	Recommendations string       `gorm:"type:text" json:"recommendations,omitempty"`
	PDFPath         string       `gorm:"size:1024" json:"pdf_path,omitempty"`
}

// BeforeSave serializes Medications into the storage column.
func (p *Prescription) BeforeSave(tx *gorm.DB) error {
	meds := p.Medications
	if meds == nil {
		meds = []Medication{}
	}
	b, err := json.Marshal(meds)
	if err != nil {
		return err
	}
	p.MedicationsJSON = string(b)
	return nil
}

// AfterFind decodes the storage column. A malformed block yields an empty
// list rather than failing the read.
func (p *Prescription) AfterFind(tx *gorm.DB) error {
	p.Medications = nil
	if p.MedicationsJSON == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(p.MedicationsJSON), &p.Medications); err != nil {
		p.Medications = nil
	}
	return nil
}
