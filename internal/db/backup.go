package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"
)

// BackupFileName returns the name used for a backup taken at t.
func BackupFileName(t time.Time) string {
	return fmt.Sprintf("DentalSoft_%s.db", t.Format("20060102_150405"))
}

// Backup writes a consistent copy of a SQLite database into dir using
// VACUUM INTO and returns the created file path.
func Backup(ctx context.Context, db *gorm.DB, dir string, now time.Time) (string, error) {
	if db.Dialector.Name() != "sqlite" {
		return "", errors.New("backup is only supported for sqlite")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	dest := filepath.Join(dir, BackupFileName(now))
	if _, err := os.Stat(dest); err == nil {
		return "", fmt.Errorf("backup %s already exists", dest)
	}
	if err := db.WithContext(ctx).Exec("VACUUM INTO ?", dest).Error; err != nil {
		return "", fmt.Errorf("vacuum into %s: %w", dest, err)
	}
	return dest, nil
}
