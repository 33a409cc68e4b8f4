package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/dentalsoft/internal/paths"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "auto", cfg.Database.Migrations)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5*time.Minute, cfg.Selection.CacheTTL)
	assert.Equal(t, ":8080", cfg.Server.Addr())
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server:\n  port: \"9000\"\nlog:\n  level: debug\n"), 0o644))
	t.Setenv("DENTALSOFT_SERVER_PORT", "9100")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		db      DatabaseConfig
		wantErr bool
	}{
		{"sqlite auto", DatabaseConfig{Driver: DriverSQLite, Migrations: "auto"}, false},
		{"sqlite sql", DatabaseConfig{Driver: DriverSQLite, Migrations: "sql"}, false},
		{"postgres with dsn", DatabaseConfig{Driver: DriverPostgres, DSN: "postgres://x", Migrations: "auto"}, false},
		{"postgres without dsn", DatabaseConfig{Driver: DriverPostgres, Migrations: "auto"}, true},
		{"postgres sql", DatabaseConfig{Driver: DriverPostgres, DSN: "postgres://x", Migrations: "sql"}, true},
		{"unknown driver", DatabaseConfig{Driver: "mysql", Migrations: "auto"}, true},
		{"unknown mode", DatabaseConfig{Driver: DriverSQLite, Migrations: "manual"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Config{Database: tt.db}).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	l, err := paths.New(t.TempDir())
	require.NoError(t, err)

	cfg := &Config{}
	dsn := cfg.SQLiteDSN(l)
	assert.True(t, strings.HasPrefix(dsn, l.DatabasePath()+"?"))
	assert.Contains(t, dsn, "_foreign_keys=ON")

	cfg.Database.DSN = "file::memory:"
	assert.Equal(t, "file::memory:", cfg.SQLiteDSN(l))
}
