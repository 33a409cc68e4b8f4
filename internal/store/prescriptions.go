package store

import (
	"context"
	"strconv"

	"gorm.io/gorm"

	"github.com/diewo77/dentalsoft/internal/models"
	"github.com/diewo77/dentalsoft/validation"
)

// CreatePrescription normalizes the medications and inserts the
// prescription. The date defaults to today.
func (s *Store) CreatePrescription(ctx context.Context, p *models.Prescription) error {
	const op = "store.CreatePrescription"
	if p.Date == "" {
		p.Date = models.Today()
	}
	v := validation.Violations{}
	validation.ID("patient_id", p.PatientID, v)
	validation.Date("date", p.Date, v)
	if len(p.Medications) == 0 {
		v["medications"] = "required"
	}
	for i := range p.Medications {
		m := &p.Medications[i]
		m.Normalize()
		prefix := "medications." + strconv.Itoa(i) + "."
		validation.Required(prefix+"name", m.Name, v)
		validation.PositiveInt(prefix+"quantity", m.Quantity, v)
		validation.PositiveInt(prefix+"frequency", m.Frequency, v)
		validation.Required(prefix+"duration", m.Duration, v)
	}
	if err := invalid(op, v); err != nil {
		return err
	}
	p.ID = 0
	return wrap(op, s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requirePatient(tx, p.PatientID); err != nil {
			return err
		}
		return tx.Create(p).Error
	}))
}

// GetPrescription loads one prescription with its medications decoded.
func (s *Store) GetPrescription(ctx context.Context, id uint) (*models.Prescription, error) {
	var p models.Prescription
	if err := s.conn(ctx).First(&p, id).Error; err != nil {
		return nil, wrap("store.GetPrescription", err)
	}
	return &p, nil
}

// PrescriptionsByPatient returns a patient's prescriptions, latest first.
func (s *Store) PrescriptionsByPatient(ctx context.Context, patientID uint) ([]models.Prescription, error) {
	var out []models.Prescription
	err := s.conn(ctx).
		Where("patient_id = ?", patientID).
		Order("date DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, wrap("store.PrescriptionsByPatient", err)
	}
	return out, nil
}

// SetPrescriptionPDF records the rendered PDF path.
func (s *Store) SetPrescriptionPDF(ctx context.Context, id uint, path string) error {
	res := s.conn(ctx).Model(&models.Prescription{}).Where("id = ?", id).UpdateColumn("pdf_path", path)
	return notFoundIfNone("store.SetPrescriptionPDF", res)
}
