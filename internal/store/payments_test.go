package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/dentalsoft/internal/errs"
	"github.com/diewo77/dentalsoft/internal/models"
)

func invoiceOf(t *testing.T, s *Store, patientID uint, total float64) *models.Invoice {
	t.Helper()
	inv := &models.Invoice{PatientID: patientID, Date: "2025-04-01", Total: total}
	require.NoError(t, s.CreateInvoice(context.Background(), inv))
	return inv
}

func TestPaymentReconciliation(t *testing.T) {
	tests := []struct {
		name       string
		amounts    []float64
		wantPaid   float64
		wantStatus models.InvoiceStatus
	}{
		{"partial", []float64{40}, 40, models.InvoicePartial},
		{"exact", []float64{100}, 100, models.InvoicePaid},
		{"over", []float64{120}, 120, models.InvoicePaid},
		{"two partials settle", []float64{33.33, 66.67}, 100, models.InvoicePaid},
		{"cents", []float64{99.99}, 99.99, models.InvoicePartial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			ctx := context.Background()
			p := seedPatient(t, s, "Kefi", "Imen")
			inv := invoiceOf(t, s, p.ID, 100)

			for _, a := range tt.amounts {
				_, err := s.RecordPayment(ctx, &models.Payment{PatientID: p.ID, Amount: a, Date: "2025-04-02", Method: "Carte bancaire", InvoiceNumber: inv.Number})
				require.NoError(t, err)
			}
			got, err := s.GetInvoice(ctx, inv.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPaid, got.Paid)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestPaymentUnknownInvoiceWritesNothing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedPatient(t, s, "Kefi", "Anis")

	_, err := s.RecordPayment(ctx, &models.Payment{PatientID: p.ID, Amount: 10, Method: "Espèces", InvoiceNumber: "F1999-001"})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	list, err := s.PaymentsByPatient(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPaymentWithoutInvoice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedPatient(t, s, "Lahmar", "Salma")

	inv, err := s.RecordPayment(ctx, &models.Payment{PatientID: p.ID, Amount: 25, Date: "2025-01-01", Method: "Chèque"})
	require.NoError(t, err)
	assert.Nil(t, inv)

	_, err = s.RecordPayment(ctx, &models.Payment{PatientID: p.ID, Amount: 5, Date: "2025-01-05", Method: "Virement"})
	require.NoError(t, err)

	list, err := s.PaymentsByPatient(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-01-05", list[0].Date)
}

func TestPaymentValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedPatient(t, s, "Mabrouk", "Ali")
	other := seedPatient(t, s, "Mabrouk", "Zied")
	inv := invoiceOf(t, s, other.ID, 80)

	_, err := s.RecordPayment(ctx, &models.Payment{PatientID: p.ID, Amount: -1, Method: "Bitcoin"})
	fields := errs.FieldsOf(err)
	assert.Equal(t, "must_be_positive", fields["amount"])
	assert.Equal(t, "invalid_choice", fields["method"])

	_, err = s.RecordPayment(ctx, &models.Payment{PatientID: p.ID, Amount: 10, Method: "Espèces", InvoiceNumber: inv.Number})
	assert.Equal(t, "invoice_patient_mismatch", errs.FieldsOf(err)["invoice_number"])
}

func TestPaymentsByInvoice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedPatient(t, s, "Nasri", "Dorra")
	inv := invoiceOf(t, s, p.ID, 300)

	for _, d := range []string{"2025-04-10", "2025-04-05"} {
		_, err := s.RecordPayment(ctx, &models.Payment{PatientID: p.ID, Amount: 100, Date: d, Method: "Espèces", InvoiceNumber: inv.Number})
		require.NoError(t, err)
	}
	list, err := s.PaymentsByInvoice(ctx, inv.Number)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2025-04-05", list[0].Date)
}
