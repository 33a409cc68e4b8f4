package db

import (
	"embed"
	"errors"
	"fmt"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	"github.com/diewo77/dentalsoft/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Required lists the tables every schema must contain.
var Required = []string{
	"patients", "appointments", "tooth_records", "exam_history", "images",
	"prescriptions", "payments", "procedures", "invoices", "invoice_lines",
}

// Migrate applies the schema. mode is "auto" (GORM AutoMigrate) or "sql"
// (embedded golang-migrate files, SQLite only).
func Migrate(db *gorm.DB, mode string) error {
	switch mode {
	case "", "auto":
		for _, m := range models.All() {
			if err := db.AutoMigrate(m); err != nil {
				return fmt.Errorf("automigrate %T: %w", m, err)
			}
		}
	case "sql":
		if err := runSQLMigrations(db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	default:
		return fmt.Errorf("unsupported migrations mode %q", mode)
	}

	for _, table := range Required {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// runSQLMigrations runs the embedded migrations on the already open
// connection. The migrate instance is not closed: that would close the
// shared *sql.DB.
func runSQLMigrations(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
