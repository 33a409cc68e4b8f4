// Package clinic loads and saves the practice identity used to stamp documents.
package clinic

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Config is the flat JSON object stored in config_cabinet.json.
type Config struct {
	ClinicName     string `json:"nom_cabinet"`
	DoctorName     string `json:"nom_medecin"`
	Specialty      string `json:"specialite"`
	Address        string `json:"adresse"`
	City           string `json:"ville"`
	PostalCode     string `json:"code_postal"`
	Phone1         string `json:"telephone1"`
	Phone2         string `json:"telephone2"`
	Email          string `json:"email"`
	Website        string `json:"site_web"`
	RegistrationNo string `json:"numero_ordre"`
	LogoPath       string `json:"chemin_logo"`
	Currency       string `json:"devise"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		ClinicName: "Cabinet Dentaire",
		DoctorName: "Dr. Médecin",
		Specialty:  "Chirurgien-Dentiste",
		Currency:   "DT",
	}
}

// Load reads path and merges it over Defaults. A missing file is not an
// error. On a read or decode failure the defaults are returned together with
// the error so the caller can log it and carry on.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read clinic config: %w", err)
	}
	// Decoding into the defaults keeps keys absent from the file.
	merged := cfg
	if err := json.Unmarshal(data, &merged); err != nil {
		return cfg, fmt.Errorf("decode clinic config: %w", err)
	}
	return merged, nil
}

// Save writes cfg to path as indented UTF-8 JSON, replacing the file atomically.
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode clinic config: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config_cabinet-*.json")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace clinic config: %w", err)
	}
	return nil
}

// FullAddress joins address, postal code and city on one line.
func (c Config) FullAddress() string {
	tail := strings.TrimSpace(strings.TrimSpace(c.PostalCode) + " " + strings.TrimSpace(c.City))
	parts := make([]string, 0, 2)
	if a := strings.TrimSpace(c.Address); a != "" {
		parts = append(parts, a)
	}
	if tail != "" {
		parts = append(parts, tail)
	}
	return strings.Join(parts, ", ")
}

// ContactLines returns the non-empty phone and email lines for document footers.
func (c Config) ContactLines() []string {
	var lines []string
	if c.Phone1 != "" {
		lines = append(lines, "Tél: "+c.Phone1)
	}
	if c.Phone2 != "" {
		lines = append(lines, "Mobile: "+c.Phone2)
	}
	if c.Email != "" {
		lines = append(lines, "Email: "+c.Email)
	}
	return lines
}

// CurrencyLabel returns the configured currency or the default one.
func (c Config) CurrencyLabel() string {
	if c.Currency == "" {
		return Defaults().Currency
	}
	return c.Currency
}
