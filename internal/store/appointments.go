package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/diewo77/dentalsoft/internal/models"
	"github.com/diewo77/dentalsoft/validation"
)

func validateAppointment(a *models.Appointment) validation.Violations {
	v := validation.Violations{}
	validation.ID("patient_id", a.PatientID, v)
	validation.Required("date", a.Date, v)
	validation.Date("date", a.Date, v)
	validation.Required("time", a.Time, v)
	validation.Time("time", a.Time, v)
	validation.Required("category", a.Category, v)
	if a.Status == "" {
		a.Status = models.AppointmentPlanned
	}
	if !a.Status.Valid() {
		v["status"] = "invalid_choice"
	}
	return v
}

func (s *Store) requirePatient(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.Patient{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateAppointment books a slot. Overlaps are allowed; use SlotConflicts
// to warn about them.
func (s *Store) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	const op = "store.CreateAppointment"
	if err := invalid(op, validateAppointment(a)); err != nil {
		return err
	}
	a.ID = 0
	a.Patient = nil
	return wrap(op, s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requirePatient(tx, a.PatientID); err != nil {
			return err
		}
		return tx.Create(a).Error
	}))
}

// GetAppointment loads one appointment with its patient.
func (s *Store) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var a models.Appointment
	if err := s.conn(ctx).Preload("Patient").First(&a, id).Error; err != nil {
		return nil, wrap("store.GetAppointment", err)
	}
	return &a, nil
}

// AppointmentsByDay returns the appointments of one date ordered by time,
// each with its patient loaded.
func (s *Store) AppointmentsByDay(ctx context.Context, date string) ([]models.Appointment, error) {
	var out []models.Appointment
	err := s.conn(ctx).Preload("Patient").
		Where("date = ?", date).
		Order("time, id").
		Find(&out).Error
	if err != nil {
		return nil, wrap("store.AppointmentsByDay", err)
	}
	return out, nil
}

// AppointmentsByPatient returns a patient's appointments, latest first.
func (s *Store) AppointmentsByPatient(ctx context.Context, patientID uint) ([]models.Appointment, error) {
	var out []models.Appointment
	err := s.conn(ctx).
		Where("patient_id = ?", patientID).
		Order("date DESC, time DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, wrap("store.AppointmentsByPatient", err)
	}
	return out, nil
}

// AppointmentsInRange returns appointments between from and to inclusive,
// ordered chronologically.
func (s *Store) AppointmentsInRange(ctx context.Context, from, to string) ([]models.Appointment, error) {
	const op = "store.AppointmentsInRange"
	v := validation.Violations{}
	validation.Date("from", from, v)
	validation.Date("to", to, v)
	if err := invalid(op, v); err != nil {
		return nil, err
	}
	var out []models.Appointment
	err := s.conn(ctx).Preload("Patient").
		Where("date BETWEEN ? AND ?", from, to).
		Order("date, time, id").
		Find(&out).Error
	if err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

// UpdateAppointment overwrites an existing appointment.
func (s *Store) UpdateAppointment(ctx context.Context, a *models.Appointment) error {
	const op = "store.UpdateAppointment"
	if err := invalid(op, validateAppointment(a)); err != nil {
		return err
	}
	a.Patient = nil
	return wrap(op, s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requirePatient(tx, a.PatientID); err != nil {
			return err
		}
		res := tx.Model(&models.Appointment{}).Where("id = ?", a.ID).Updates(map[string]any{
			"patient_id":  a.PatientID,
			"date":        a.Date,
			"time":        a.Time,
			"category":    a.Category,
			"description": a.Description,
			"status":      a.Status,
		})
		return notFoundIfNone(op, res)
	}))
}

// DeleteAppointment removes an appointment. A missing id is a not-found
// error.
func (s *Store) DeleteAppointment(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Appointment{}, id)
	return notFoundIfNone("store.DeleteAppointment", res)
}

// SlotConflicts returns the non-cancelled appointments booked at the same
// date and time, other than exclude.
func (s *Store) SlotConflicts(ctx context.Context, date, hour string, exclude uint) ([]models.Appointment, error) {
	var out []models.Appointment
	q := s.conn(ctx).Preload("Patient").
		Where("date = ? AND time = ? AND status <> ?", date, hour, models.AppointmentCancelled)
	if exclude != 0 {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, wrap("store.SlotConflicts", err)
	}
	return out, nil
}
