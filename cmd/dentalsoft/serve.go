package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/diewo77/dentalsoft/internal/clinic"
	"github.com/diewo77/dentalsoft/internal/db"
	"github.com/diewo77/dentalsoft/internal/handlers"
	"github.com/diewo77/dentalsoft/internal/imaging"
	"github.com/diewo77/dentalsoft/internal/metrics"
	"github.com/diewo77/dentalsoft/internal/models"
	"github.com/diewo77/dentalsoft/internal/selection"
	"github.com/diewo77/dentalsoft/internal/services"
	"github.com/diewo77/dentalsoft/internal/store"
)

func serveCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.serve(cmd.Context())
		},
	}
}

// buildApp wires the store, the workflows and the handlers.
func (e *env) buildApp(ctx context.Context, st *store.Store) (*App, error) {
	m, err := metrics.New(nil)
	if err != nil {
		return nil, err
	}
	st.SetHooks(store.Hooks{InvoiceNumberRetry: m.InvoiceNumberRetry})

	if _, err := st.SeedCatalog(ctx); err != nil {
		return nil, err
	}

	holder, err := clinic.NewHolder(e.layout.ClinicConfigPath())
	if err != nil {
		e.log.WithError(err).Warn("clinic config unreadable, using defaults")
	}

	lib := imaging.New(st, e.layout.Images, e.layout.Exports, e.log)
	lib.OnImport = m.ImageImported

	sel := selection.New(st, e.cfg.Selection.CacheTTL)
	selLog := e.log.WithComponent("selection")
	sel.Subscribe(func(id uint, p *models.Patient) {
		m.SelectionChanged(id)
		if p == nil {
			selLog.Debug("active patient cleared")
			return
		}
		selLog.WithField("patient_id", id).Debug("active patient changed")
	})

	routes := handlers.NewRouterConfig(handlers.Deps{
		Store:         st,
		Selection:     sel,
		Clinic:        holder,
		Images:        lib,
		Billing:       services.NewBillingService(st, holder, e.layout.Invoices, m, e.log),
		Prescriptions: services.NewPrescriptionService(st, holder, e.layout.Prescriptions, m, e.log),
		Log:           e.log,
	})
	return NewApp(routes, m, e.log, st.Ping), nil
}

func (e *env) serve(parent context.Context) error {
	conn, err := e.openDB()
	if err != nil {
		return err
	}
	defer db.Close(conn)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := e.buildApp(ctx, store.New(conn, e.log))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         e.cfg.Server.Addr(),
		Handler:      app,
		ReadTimeout:  time.Duration(e.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(e.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(e.cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.log.WithField("addr", srv.Addr).WithField("data_dir", e.layout.Root).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		e.log.Info("shutdown signal received")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		e.log.WithError(err).Error("error during shutdown")
		return err
	}
	e.log.Info("server stopped gracefully")
	return nil
}
