package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/dentalsoft/internal/models"
	"github.com/diewo77/dentalsoft/validation"
)

// SaveTooth appends an observation for one tooth. The exam date defaults to
// today.
func (s *Store) SaveTooth(ctx context.Context, r *models.ToothRecord) error {
	const op = "store.SaveTooth"
	if r.ExamDate == "" {
		r.ExamDate = models.Today()
	}
	v := validation.Violations{}
	validation.ID("patient_id", r.PatientID, v)
	validation.ToothNumber("tooth_number", r.ToothNumber, v)
	validation.Date("exam_date", r.ExamDate, v)
	if !r.Status.Valid() {
		v["status"] = "invalid_choice"
	}
	if err := invalid(op, v); err != nil {
		return err
	}
	r.ID = 0
	return wrap(op, s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requirePatient(tx, r.PatientID); err != nil {
			return err
		}
		return tx.Create(r).Error
	}))
}

// CurrentChart returns the latest record of every examined tooth, keyed by
// tooth number.
func (s *Store) CurrentChart(ctx context.Context, patientID uint) (map[int]models.ToothRecord, error) {
	var rows []models.ToothRecord
	err := s.conn(ctx).
		Where("patient_id = ?", patientID).
		Order("tooth_number, created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, wrap("store.CurrentChart", err)
	}
	chart := make(map[int]models.ToothRecord, len(rows))
	for _, r := range rows {
		if _, seen := chart[r.ToothNumber]; !seen {
			chart[r.ToothNumber] = r
		}
	}
	return chart, nil
}

// ToothHistory returns every record of one tooth, latest first.
func (s *Store) ToothHistory(ctx context.Context, patientID uint, tooth int) ([]models.ToothRecord, error) {
	var out []models.ToothRecord
	err := s.conn(ctx).
		Where("patient_id = ? AND tooth_number = ?", patientID, tooth).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, wrap("store.ToothHistory", err)
	}
	return out, nil
}

// AddExam appends a clinical note and moves the patient's last visit
// forward when the exam is more recent.
func (s *Store) AddExam(ctx context.Context, e *models.ExamHistoryEntry) error {
	const op = "store.AddExam"
	if e.ExamDate == "" {
		e.ExamDate = models.Today()
	}
	e.Description = strings.TrimSpace(e.Description)
	v := validation.Violations{}
	validation.ID("patient_id", e.PatientID, v)
	validation.Date("exam_date", e.ExamDate, v)
	validation.Required("exam_type", e.ExamType, v)
	validation.Required("description", e.Description, v)
	if err := invalid(op, v); err != nil {
		return err
	}
	e.ID = 0
	return wrap(op, s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requirePatient(tx, e.PatientID); err != nil {
			return err
		}
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		return tx.Model(&models.Patient{}).
			Where("id = ? AND (last_visit IS NULL OR last_visit = '' OR last_visit < ?)", e.PatientID, e.ExamDate).
			UpdateColumn("last_visit", e.ExamDate).Error
	}))
}

// ExamHistory returns a patient's clinical notes, latest first.
func (s *Store) ExamHistory(ctx context.Context, patientID uint) ([]models.ExamHistoryEntry, error) {
	var out []models.ExamHistoryEntry
	err := s.conn(ctx).
		Where("patient_id = ?", patientID).
		Order("exam_date DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, wrap("store.ExamHistory", err)
	}
	return out, nil
}
