// Package services runs the workflows that span the store, the document
// generator and the data folders.
package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/diewo77/dentalsoft/internal/clinic"
	"github.com/diewo77/dentalsoft/internal/errs"
)

// ClinicSource provides the current clinic configuration.
type ClinicSource interface {
	Get() clinic.Config
}

// writeDocument stores data as dir/name, replacing any previous file.
func writeDocument(op, dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.IO(op, err)
	}
	dest := filepath.Join(dir, name)
	tmp, err := os.CreateTemp(dir, ".render-*.pdf")
	if err != nil {
		return "", errs.IO(op, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", errs.IO(op, err)
	}
	if err := tmp.Close(); err != nil {
		return "", errs.IO(op, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", errs.IO(op, fmt.Errorf("move %s: %w", name, err))
	}
	return dest, nil
}
