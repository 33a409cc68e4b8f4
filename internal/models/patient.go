package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Patient is a person treated at the clinic. Patients are never hard-deleted.
type Patient struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LastName  string `gorm:"size:100;not null;index:idx_patients_name,priority:1" json:"last_name"`
	FirstName string `gorm:"size:100;not null;index:idx_patients_name,priority:2" json:"first_name"`
	BirthDate string `gorm:"size:10" json:"birth_date,omitempty"`
	Phone     string `gorm:"size:50" json:"phone,omitempty"`
	Email     string `gorm:"size:255" json:"email,omitempty"`
	Address   string `gorm:"type:text" json:"address,omitempty"`
	Remarks   string `gorm:"type:text" json:"remarks,omitempty"`
	LastVisit string `gorm:"size:10" json:"last_visit,omitempty"`

	// SearchKey holds the folded names and phone used by patient search.
	SearchKey string `gorm:"size:512;index" json:"-"`
}

// BeforeSave refreshes SearchKey.
func (p *Patient) BeforeSave(tx *gorm.DB) error {
	p.SearchKey = Fold(p.LastName + " " + p.FirstName + " " + p.Phone)
	return nil
}

// DisplayName returns "Last, First".
func (p *Patient) DisplayName() string {
	return strings.TrimSpace(p.LastName) + ", " + strings.TrimSpace(p.FirstName)
}

// AgeAt returns the age in whole years at the given instant. ok is false
// when the birth date is missing or malformed.
func (p *Patient) AgeAt(now time.Time) (age int, ok bool) {
	if p.BirthDate == "" {
		return 0, false
	}
	birth, err := time.Parse(DateLayout, p.BirthDate)
	if err != nil {
		return 0, false
	}
	age = now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age, true
}
