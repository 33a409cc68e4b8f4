package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/diewo77/dentalsoft/internal/documents"
	"github.com/diewo77/dentalsoft/internal/logging"
	"github.com/diewo77/dentalsoft/internal/metrics"
	"github.com/diewo77/dentalsoft/internal/models"
	"github.com/diewo77/dentalsoft/internal/store"
)

// BillingService creates invoices, records payments and renders invoice PDFs.
type BillingService struct {
	store   *store.Store
	clinic  ClinicSource
	dir     string
	metrics *metrics.Metrics
	log     *logrus.Entry
}

func NewBillingService(st *store.Store, cs ClinicSource, invoicesDir string, m *metrics.Metrics, log *logging.Logger) *BillingService {
	if log == nil {
		log = logging.Discard()
	}
	return &BillingService{store: st, clinic: cs, dir: invoicesDir, metrics: m, log: log.WithComponent("billing")}
}

// Totals returns the total, paid and remaining amounts of an invoice.
func (s *BillingService) Totals(inv *models.Invoice) (total, paid, remaining float64) {
	return inv.Total, inv.Paid, inv.Remaining()
}

// CreateInvoice stores the invoice and renders its PDF. A render failure is
// logged and leaves the invoice without a PDF path.
func (s *BillingService) CreateInvoice(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}
	s.metrics.InvoiceCreated()
	if _, _, err := s.RenderInvoice(ctx, inv.ID); err != nil {
		s.log.WithError(err).WithField("invoice", inv.Number).Warn("invoice pdf not rendered")
	}
	return s.store.GetInvoice(ctx, inv.ID)
}

// RecordPayment records a payment and returns the reconciled invoice, if any.
// The invoice PDF is rendered again so its paid and remaining lines match
// the new state; a render failure is logged and the payment stands.
func (s *BillingService) RecordPayment(ctx context.Context, p *models.Payment) (*models.Invoice, error) {
	inv, err := s.store.RecordPayment(ctx, p)
	if err != nil {
		return nil, err
	}
	s.metrics.PaymentRecorded(p.Method, p.Amount)
	if inv == nil {
		return nil, nil
	}
	path, _, err := s.RenderInvoice(ctx, inv.ID)
	if err != nil {
		s.log.WithError(err).WithField("invoice", inv.Number).Warn("invoice pdf not refreshed after payment")
		return inv, nil
	}
	inv.PDFPath = path
	return inv, nil
}

// InvoiceData builds the document data for a loaded invoice.
func (s *BillingService) InvoiceData(inv *models.Invoice) documents.InvoiceData {
	items := make([]documents.InvoiceItem, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		items = append(items, documents.InvoiceItem{
			Code:        l.ProcedureCode(),
			Description: l.Label,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total,
		})
	}
	name := "Patient inconnu"
	if inv.Patient != nil {
		name = inv.Patient.DisplayName()
	}
	total, paid, remaining := s.Totals(inv)
	return documents.InvoiceData{
		Clinic:        s.clinic.Get(),
		InvoiceNumber: inv.Number,
		Date:          inv.Date,
		PatientName:   name,
		Items:         items,
		Total:         total,
		Paid:          paid,
		Remaining:     remaining,
		Status:        string(inv.Status),
		Details:       inv.Details,
	}
}

// RenderInvoice renders the invoice into the invoices folder and records the
// path on the row.
func (s *BillingService) RenderInvoice(ctx context.Context, id uint) (string, []byte, error) {
	const op = "services.RenderInvoice"
	inv, err := s.store.GetInvoice(ctx, id)
	if err != nil {
		return "", nil, err
	}
	data, err := documents.InvoicePDF(s.InvoiceData(inv))
	s.metrics.DocumentRendered("invoice", err)
	if err != nil {
		return "", nil, err
	}
	path, err := writeDocument(op, s.dir, documents.InvoiceFileName(inv.Number), data)
	if err != nil {
		return "", nil, err
	}
	if err := s.store.SetInvoicePDF(ctx, id, path); err != nil {
		return "", nil, err
	}
	return path, data, nil
}

// Stats returns payment statistics for [from, to]. Empty bounds default to
// the current year.
func (s *BillingService) Stats(ctx context.Context, from, to string) (*store.Stats, error) {
	year := time.Now().Format("2006")
	if from == "" {
		from = year + "-01-01"
	}
	if to == "" {
		to = year + "-12-31"
	}
	return s.store.PaymentStats(ctx, from, to)
}
