package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentPlanned     AppointmentStatus = "planifie"
	AppointmentDone        AppointmentStatus = "termine"
	AppointmentCancelled   AppointmentStatus = "annule"
	AppointmentRescheduled AppointmentStatus = "reporte"
)

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentPlanned, AppointmentDone, AppointmentCancelled, AppointmentRescheduled:
		return true
	}
	return false
}

// AppointmentCategories lists the categories offered by the agenda.
var AppointmentCategories = []string{
	"Contrôle", "Soin", "Urgence", "Consultation", "Détartrage", "Radiographie", "Chirurgie",
}

// Appointment is a booked slot. Overlapping slots are allowed.
type Appointment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PatientID uint     `gorm:"index;not null" json:"patient_id"`
	Patient   *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`

	Date        string            `gorm:"size:10;not null;index:idx_appointments_slot,priority:1" json:"date"`
	Time        string            `gorm:"size:5;not null;index:idx_appointments_slot,priority:2" json:"time"`
	Category    string            `gorm:"size:50;not null" json:"category"`
	Description string            `gorm:"type:text" json:"description,omitempty"`
	Status      AppointmentStatus `gorm:"size:20;not null;default:'planifie'" json:"status"`
}

// PatientName returns the joined patient's display name, or a placeholder
// when the patient row is missing.
func (a *Appointment) PatientName() string {
	if a.Patient == nil || a.Patient.ID == 0 {
		return "Patient inconnu"
	}
	return a.Patient.DisplayName()
}
