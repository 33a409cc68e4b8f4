package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/diewo77/dentalsoft/internal/db"
	"github.com/diewo77/dentalsoft/internal/store"
)

func migrateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close(conn)
			e.log.WithField("mode", e.cfg.Database.Migrations).Info("migrations completed")
			return nil
		},
	}
}

func seedCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the procedure catalog when it is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close(conn)
			n, err := store.New(conn, e.log).SeedCatalog(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d procedures inserted\n", n)
			return nil
		},
	}
}

func backupCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the SQLite database into the backups folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close(conn)
			path, err := db.Backup(cmd.Context(), conn, e.layout.Backups, time.Now())
			if err != nil {
				return err
			}
			e.log.WithField("path", path).Info("backup written")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func pathsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the resolved data layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			l := e.layout
			rows := [][2]string{
				{"root", l.Root},
				{"database", l.DatabasePath()},
				{"clinic config", l.ClinicConfigPath()},
				{"images", l.Images},
				{"exports", l.Exports},
				{"backups", l.Backups},
				{"prescriptions", l.Prescriptions},
				{"invoices", l.Invoices},
				{"logos", l.Logos},
			}
			for _, r := range rows {
				fmt.Fprintf(out, "%-14s %s\n", r[0], r[1])
			}
			return nil
		},
	}
}
