// Package config provides application configuration loaded from an optional
// YAML file and DENTALSOFT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/diewo77/dentalsoft/internal/paths"
)

// Config holds all application configuration.
type Config struct {
	DataDir   string
	Server    ServerConfig
	Database  DatabaseConfig
	Log       LogConfig
	Selection SelectionConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig selects the driver and connection string.
type DatabaseConfig struct {
	Driver string // sqlite or postgres
	DSN    string
	Debug  bool
	// Migrations is "auto" (GORM AutoMigrate) or "sql" (embedded SQL files).
	Migrations string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string // json or text
}

// SelectionConfig tunes the active-patient snapshot cache.
type SelectionConfig struct {
	CacheTTL time.Duration
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.debug", false)
	v.SetDefault("database.migrations", "auto")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("selection.cache_ttl", "5m")
}

// Load reads configuration. configFile may be empty, in which case
// ./dentalsoft.yaml is used when present.
// Precedence: env var > config file > default.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DENTALSOFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("dentalsoft")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		DataDir: v.GetString("data_dir"),
		Server: ServerConfig{
			Port:         v.GetString("server.port"),
			ReadTimeout:  v.GetInt("server.read_timeout"),
			WriteTimeout: v.GetInt("server.write_timeout"),
			IdleTimeout:  v.GetInt("server.idle_timeout"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("database.driver")),
			DSN:        v.GetString("database.dsn"),
			Debug:      v.GetBool("database.debug"),
			Migrations: strings.ToLower(v.GetString("database.migrations")),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Selection: SelectionConfig{
			CacheTTL: v.GetDuration("selection.cache_ttl"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unsupported drivers and migration modes.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Database.Migrations {
	case "auto", "sql":
	default:
		return fmt.Errorf("unsupported migrations mode %q", c.Database.Migrations)
	}
	if c.Database.Driver == DriverPostgres && c.Database.DSN == "" {
		return errors.New("database.dsn is required for postgres")
	}
	if c.Database.Driver == DriverPostgres && c.Database.Migrations == "sql" {
		return errors.New("sql migrations are only shipped for sqlite")
	}
	return nil
}

// Layout resolves the data folder layout.
func (c *Config) Layout() (paths.Layout, error) {
	return paths.New(c.DataDir)
}

// SQLiteDSN returns the configured DSN, or the layout's database file with
// WAL, busy timeout and foreign keys enabled.
func (c *Config) SQLiteDSN(l paths.Layout) string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	return fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", l.DatabasePath())
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return ":" + s.Port
}
