package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/diewo77/dentalsoft/internal/config"
	"github.com/diewo77/dentalsoft/internal/db"
	"github.com/diewo77/dentalsoft/internal/logging"
	"github.com/diewo77/dentalsoft/internal/paths"
)

// env is the state shared by every sub-command once configuration is loaded.
type env struct {
	configFile string
	dataDir    string

	cfg    *config.Config
	log    *logging.Logger
	layout paths.Layout
}

func rootCommand() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "dentalsoft",
		Short:         "Dental practice management backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&e.configFile, "config", "", "path to a dentalsoft.yaml config file")
	root.PersistentFlags().StringVar(&e.dataDir, "data-dir", "", "data folder (default ~/Documents/DentalSoft)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return e.load()
	}

	root.AddCommand(
		serveCommand(e),
		migrateCommand(e),
		seedCommand(e),
		backupCommand(e),
		statsCommand(e),
		importImageCommand(e),
		pathsCommand(e),
	)
	return root
}

func (e *env) load() error {
	cfg, err := config.Load(e.configFile)
	if err != nil {
		return err
	}
	if e.dataDir != "" {
		cfg.DataDir = e.dataDir
	}
	layout, err := cfg.Layout()
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.layout = layout
	e.log = logging.New(cfg.Log.Level, cfg.Log.Format)
	return nil
}

// openDB ensures the data folders, opens the database and applies the schema.
func (e *env) openDB() (*gorm.DB, error) {
	if err := e.layout.Ensure(); err != nil {
		return nil, err
	}
	dsn := e.cfg.Database.DSN
	if e.cfg.Database.Driver == config.DriverSQLite {
		dsn = e.cfg.SQLiteDSN(e.layout)
	}
	conn, err := db.Open(e.cfg.Database.Driver, dsn, e.cfg.Database.Debug)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(conn, e.cfg.Database.Migrations); err != nil {
		_ = db.Close(conn)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}
