package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/diewo77/dentalsoft/internal/models"
)

// Catalog returns the default procedure catalog.
func Catalog() []models.Procedure {
	return []models.Procedure{
		{Code: "SC12", Label: "Détartrage", BaseTariff: 28.92, Description: "Détartrage et polissage"},
		{Code: "SC17", Label: "Traitement d'une carie 1 face", BaseTariff: 16.87, Description: "Traitement d'une carie sur une face"},
		{Code: "SC18", Label: "Traitement d'une carie 2 faces", BaseTariff: 28.92, Description: "Traitement d'une carie sur deux faces"},
		{Code: "SC33", Label: "Traitement d'une carie 3 faces", BaseTariff: 40.97, Description: "Traitement d'une carie sur trois faces"},
		{Code: "SC19", Label: "Dévitalisation incisive/canine", BaseTariff: 33.74, Description: "Traitement endodontique d'une incisive ou canine"},
		{Code: "SC24", Label: "Dévitalisation prémolaire", BaseTariff: 48.20, Description: "Traitement endodontique d'une prémolaire"},
		{Code: "SC34", Label: "Dévitalisation molaire", BaseTariff: 81.94, Description: "Traitement endodontique d'une molaire"},
		{Code: "SC30", Label: "Extraction simple", BaseTariff: 33.44, Description: "Extraction d'une dent permanente"},
		{Code: "SC31", Label: "Extraction complexe", BaseTariff: 66.88, Description: "Extraction chirurgicale d'une dent"},
		{Code: "C001", Label: "Consultation", BaseTariff: 50.0, Description: "Consultation de base"},
		{Code: "P001", Label: "Plombage", BaseTariff: 120.0, Description: "Plombage composite"},
		{Code: "C002", Label: "Couronne", BaseTariff: 600.0, Description: "Couronne céramique"},
	}
}

// Seed inserts the procedure catalog when the procedures table is empty and
// returns the number of rows inserted. An existing catalog, even a partial
// or edited one, is never touched.
func Seed(ctx context.Context, db *gorm.DB) (int, error) {
	var inserted int
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Procedure{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		catalog := Catalog()
		if err := tx.Create(&catalog).Error; err != nil {
			return err
		}
		inserted = len(catalog)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed procedures: %w", err)
	}
	return inserted, nil
}
