package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/diewo77/dentalsoft/internal/models"
	"github.com/diewo77/dentalsoft/validation"
)

// CreateImage records an already copied image file.
func (s *Store) CreateImage(ctx context.Context, img *models.Image) error {
	const op = "store.CreateImage"
	v := validation.Violations{}
	validation.ID("patient_id", img.PatientID, v)
	validation.Required("file_name", img.FileName, v)
	validation.Required("file_path", img.FilePath, v)
	validation.OneOf("category", img.Category, models.ImageCategories, v)
	if err := invalid(op, v); err != nil {
		return err
	}
	img.ID = 0
	return wrap(op, s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requirePatient(tx, img.PatientID); err != nil {
			return err
		}
		return tx.Create(img).Error
	}))
}

// GetImage loads one image row.
func (s *Store) GetImage(ctx context.Context, id uint) (*models.Image, error) {
	var img models.Image
	if err := s.conn(ctx).First(&img, id).Error; err != nil {
		return nil, wrap("store.GetImage", err)
	}
	return &img, nil
}

// ImagesByPatient returns a patient's images, newest first.
func (s *Store) ImagesByPatient(ctx context.Context, patientID uint) ([]models.Image, error) {
	var out []models.Image
	err := s.conn(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, wrap("store.ImagesByPatient", err)
	}
	return out, nil
}

// DeleteImage removes the row and returns it so the caller can remove the
// file.
func (s *Store) DeleteImage(ctx context.Context, id uint) (*models.Image, error) {
	const op = "store.DeleteImage"
	var img models.Image
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&img, id).Error; err != nil {
			return err
		}
		return notFoundIfNone(op, tx.Delete(&models.Image{}, id))
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	return &img, nil
}
