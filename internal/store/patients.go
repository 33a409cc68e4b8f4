package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/dentalsoft/internal/models"
	"github.com/diewo77/dentalsoft/validation"
)

func validatePatient(p *models.Patient) validation.Violations {
	v := validation.Violations{}
	validation.Required("last_name", p.LastName, v)
	validation.Required("first_name", p.FirstName, v)
	validation.Date("birth_date", p.BirthDate, v)
	validation.Email("email", p.Email, v)
	return v
}

// CreatePatient inserts p and sets its ID.
func (s *Store) CreatePatient(ctx context.Context, p *models.Patient) error {
	const op = "store.CreatePatient"
	p.LastName = strings.TrimSpace(p.LastName)
	p.FirstName = strings.TrimSpace(p.FirstName)
	if err := invalid(op, validatePatient(p)); err != nil {
		return err
	}
	p.ID = 0
	if err := s.conn(ctx).Create(p).Error; err != nil {
		return wrap(op, err)
	}
	s.log.WithField("patient_id", p.ID).Info("patient created")
	return nil
}

// GetPatient loads one patient.
func (s *Store) GetPatient(ctx context.Context, id uint) (*models.Patient, error) {
	var p models.Patient
	if err := s.conn(ctx).First(&p, id).Error; err != nil {
		return nil, wrap("store.GetPatient", err)
	}
	return &p, nil
}

// ListPatients returns every patient ordered by last then first name.
func (s *Store) ListPatients(ctx context.Context) ([]models.Patient, error) {
	var out []models.Patient
	if err := s.conn(ctx).Order("last_name, first_name, id").Find(&out).Error; err != nil {
		return nil, wrap("store.ListPatients", err)
	}
	return out, nil
}

// SearchPatients matches term against last name, first name and phone,
// ignoring case and accents. An empty term lists everyone.
func (s *Store) SearchPatients(ctx context.Context, term string) ([]models.Patient, error) {
	folded := models.Fold(term)
	if folded == "" {
		return s.ListPatients(ctx)
	}
	pattern := "%" + escapeLike(folded) + "%"
	var out []models.Patient
	err := s.conn(ctx).
		Where("search_key LIKE ? ESCAPE '\\'", pattern).
		Order("last_name, first_name, id").
		Find(&out).Error
	if err != nil {
		return nil, wrap("store.SearchPatients", err)
	}
	return out, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// UpdatePatient overwrites the editable fields of an existing patient.
// Remarks and last visit are left alone.
func (s *Store) UpdatePatient(ctx context.Context, p *models.Patient) error {
	const op = "store.UpdatePatient"
	p.LastName = strings.TrimSpace(p.LastName)
	p.FirstName = strings.TrimSpace(p.FirstName)
	if err := invalid(op, validatePatient(p)); err != nil {
		return err
	}
	return wrap(op, s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Patient
		if err := tx.First(&existing, p.ID).Error; err != nil {
			return err
		}
		existing.LastName = p.LastName
		existing.FirstName = p.FirstName
		existing.BirthDate = p.BirthDate
		existing.Phone = p.Phone
		existing.Email = p.Email
		existing.Address = p.Address
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*p = existing
		return nil
	}))
}

// UpdateRemarks replaces the general remarks of a patient.
func (s *Store) UpdateRemarks(ctx context.Context, id uint, remarks string) error {
	res := s.conn(ctx).Model(&models.Patient{}).Where("id = ?", id).
		UpdateColumns(map[string]any{"remarks": remarks, "updated_at": time.Now()})
	return notFoundIfNone("store.UpdateRemarks", res)
}

// Remarks returns the general remarks of a patient.
func (s *Store) Remarks(ctx context.Context, id uint) (string, error) {
	p, err := s.GetPatient(ctx, id)
	if err != nil {
		return "", err
	}
	return p.Remarks, nil
}

// LastVisit returns the most recent exam date of a patient, falling back to
// the stored last-visit date. ok is false when neither exists.
func (s *Store) LastVisit(ctx context.Context, id uint) (date string, ok bool, err error) {
	const op = "store.LastVisit"
	p, err := s.GetPatient(ctx, id)
	if err != nil {
		return "", false, err
	}
	var latest sql.NullString
	err = s.conn(ctx).Model(&models.ExamHistoryEntry{}).
		Where("patient_id = ?", id).
		Select("MAX(exam_date)").
		Row().Scan(&latest)
	if err != nil {
		return "", false, wrap(op, err)
	}
	date = p.LastVisit
	if latest.Valid && latest.String > date {
		date = latest.String
	}
	return date, date != "", nil
}
