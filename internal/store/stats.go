package store

import (
	"context"

	"github.com/diewo77/dentalsoft/internal/models"
	"github.com/diewo77/dentalsoft/validation"
)

// MethodTotal aggregates the payments of one method.
type MethodTotal struct {
	Method string  `json:"method"`
	Total  float64 `json:"total"`
	Count  int64   `json:"count"`
}

// Stats summarizes payments and invoices over a date range.
type Stats struct {
	From string `json:"from"`
	To   string `json:"to"`

	PaymentsTotal float64       `json:"payments_total"`
	PaymentsCount int64         `json:"payments_count"`
	ByMethod      []MethodTotal `json:"by_method"`

	InvoicesCount int64   `json:"invoices_count"`
	InvoicesTotal float64 `json:"invoices_total"`
	InvoicesPaid  float64 `json:"invoices_paid"`
}

// PaymentStats aggregates payments and invoices dated between from and to
// inclusive. An empty range yields zeros.
func (s *Store) PaymentStats(ctx context.Context, from, to string) (*Stats, error) {
	const op = "store.PaymentStats"
	v := validation.Violations{}
	validation.Required("from", from, v)
	validation.Date("from", from, v)
	validation.Required("to", to, v)
	validation.Date("to", to, v)
	if err := invalid(op, v); err != nil {
		return nil, err
	}

	st := &Stats{From: from, To: to, ByMethod: []MethodTotal{}}
	db := s.conn(ctx)

	err := db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0), COUNT(*)").
		Where("date BETWEEN ? AND ?", from, to).
		Row().Scan(&st.PaymentsTotal, &st.PaymentsCount)
	if err != nil {
		return nil, wrap(op, err)
	}

	err = db.Model(&models.Payment{}).
		Select("method, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("date BETWEEN ? AND ?", from, to).
		Group("method").
		Order("method").
		Scan(&st.ByMethod).Error
	if err != nil {
		return nil, wrap(op, err)
	}

	err = db.Model(&models.Invoice{}).
		Select("COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(paid), 0)").
		Where("date BETWEEN ? AND ?", from, to).
		Row().Scan(&st.InvoicesCount, &st.InvoicesTotal, &st.InvoicesPaid)
	if err != nil {
		return nil, wrap(op, err)
	}

	st.PaymentsTotal = models.RoundCents(st.PaymentsTotal)
	st.InvoicesTotal = models.RoundCents(st.InvoicesTotal)
	st.InvoicesPaid = models.RoundCents(st.InvoicesPaid)
	for i := range st.ByMethod {
		st.ByMethod[i].Total = models.RoundCents(st.ByMethod[i].Total)
	}
	return st, nil
}
