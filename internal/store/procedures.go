package store

import (
	"context"

	"github.com/diewo77/dentalsoft/internal/db"
	"github.com/diewo77/dentalsoft/internal/models"
)

// Procedures returns the catalog ordered by code.
func (s *Store) Procedures(ctx context.Context) ([]models.Procedure, error) {
	var out []models.Procedure
	if err := s.conn(ctx).Order("code").Find(&out).Error; err != nil {
		return nil, wrap("store.Procedures", err)
	}
	return out, nil
}

// GetProcedure loads one catalog entry.
func (s *Store) GetProcedure(ctx context.Context, id uint) (*models.Procedure, error) {
	var p models.Procedure
	if err := s.conn(ctx).First(&p, id).Error; err != nil {
		return nil, wrap("store.GetProcedure", err)
	}
	return &p, nil
}

// SeedCatalog inserts the default catalog into an empty procedures table.
func (s *Store) SeedCatalog(ctx context.Context) (int, error) {
	n, err := db.Seed(ctx, s.db)
	if err != nil {
		return 0, wrap("store.SeedCatalog", err)
	}
	if n > 0 {
		s.log.WithField("count", n).Info("procedure catalog seeded")
	}
	return n, nil
}
