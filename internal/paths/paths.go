// Package paths resolves the per-user data folder and its sub-folders.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	AppFolder        = "DentalSoft"
	DatabaseFile     = "DentalSoft.db"
	ClinicConfigFile = "config_cabinet.json"
)

// Layout is the resolved on-disk layout of the application data.
type Layout struct {
	Root          string
	Images        string
	Exports       string
	Backups       string
	Prescriptions string
	Invoices      string
	Logos         string
}

// DefaultRoot returns ~/Documents/DentalSoft.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, "Documents", AppFolder), nil
}

// New computes the layout under root. An empty root selects DefaultRoot.
// Nothing is created on disk; call Ensure for that.
func New(root string) (Layout, error) {
	if root == "" {
		r, err := DefaultRoot()
		if err != nil {
			return Layout{}, err
		}
		root = r
	}
	root = filepath.Clean(root)
	return Layout{
		Root:          root,
		Images:        filepath.Join(root, "images"),
		Exports:       filepath.Join(root, "exports"),
		Backups:       filepath.Join(root, "backups"),
		Prescriptions: filepath.Join(root, "ordonnances"),
		Invoices:      filepath.Join(root, "factures"),
		Logos:         filepath.Join(root, "logos"),
	}, nil
}

// Ensure creates every folder of the layout. It is safe to call repeatedly.
func (l Layout) Ensure() error {
	for _, dir := range l.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// Dirs lists the folders managed by the layout, root first.
func (l Layout) Dirs() []string {
	return []string{l.Root, l.Images, l.Exports, l.Backups, l.Prescriptions, l.Invoices, l.Logos}
}

func (l Layout) DatabasePath() string     { return filepath.Join(l.Root, DatabaseFile) }
func (l Layout) ClinicConfigPath() string { return filepath.Join(l.Root, ClinicConfigFile) }
