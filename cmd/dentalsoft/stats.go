package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diewo77/dentalsoft/internal/clinic"
	"github.com/diewo77/dentalsoft/internal/db"
	"github.com/diewo77/dentalsoft/internal/services"
	"github.com/diewo77/dentalsoft/internal/store"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(22)
	valueStyle = lipgloss.NewStyle().Bold(true).Width(22).Align(lipgloss.Right)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
)

func statsCommand(e *env) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print payment statistics for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := e.openDB()
			if err != nil {
				return err
			}
			defer db.Close(conn)
			cfg, err := clinic.Load(e.layout.ClinicConfigPath())
			if err != nil {
				e.log.WithError(err).Warn("clinic config unreadable, using defaults")
			}
			svc := services.NewBillingService(store.New(conn, e.log), staticClinic(cfg), e.layout.Invoices, nil, e.log)
			st, err := svc.Stats(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderStats(st, cfg.CurrencyLabel()))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD, default Jan 1st)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD, default Dec 31st)")
	return cmd
}

type staticClinic clinic.Config

func (s staticClinic) Get() clinic.Config { return clinic.Config(s) }

func statLine(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

func renderStats(st *store.Stats, currency string) string {
	money := func(v float64) string { return fmt.Sprintf("%.2f %s", v, currency) }
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Statistiques %s → %s", st.From, st.To)),
		"",
		statLine("Paiements", strconv.FormatInt(st.PaymentsCount, 10)),
		statLine("Total encaissé", money(st.PaymentsTotal)),
	}
	for _, m := range st.ByMethod {
		lines = append(lines, statLine("  "+m.Method, fmt.Sprintf("%s (%d)", money(m.Total), m.Count)))
	}
	lines = append(lines,
		"",
		statLine("Factures", strconv.FormatInt(st.InvoicesCount, 10)),
		statLine("Montant facturé", money(st.InvoicesTotal)),
		statLine("Montant réglé", money(st.InvoicesPaid)),
	)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
