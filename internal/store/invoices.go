package store

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/diewo77/dentalsoft/internal/errs"
	"github.com/diewo77/dentalsoft/internal/models"
	"github.com/diewo77/dentalsoft/validation"
)

// maxNumberAttempts bounds invoice creation retries on a duplicate number.
const maxNumberAttempts = 5

// Hooks are optional callbacks fired by the store.
type Hooks struct {
	// InvoiceNumberRetry runs each time a generated number collided.
	InvoiceNumberRetry func()
}

// SetHooks installs callbacks. It must be called before the store is shared.
func (s *Store) SetHooks(h Hooks) { s.hooks = h }

// nextInvoiceNumber returns F<year>-<max seq + 1>.
func nextInvoiceNumber(tx *gorm.DB, year int) (string, error) {
	prefix := models.InvoicePrefix(year)
	var numbers []string
	err := tx.Model(&models.Invoice{}).
		Where("number LIKE ?", prefix+"%").
		Pluck("number", &numbers).Error
	if err != nil {
		return "", err
	}
	highest := 0
	for _, n := range numbers {
		if seq, ok := models.InvoiceSequence(n, year); ok && seq > highest {
			highest = seq
		}
	}
	return models.FormatInvoiceNumber(year, highest+1), nil
}

func (s *Store) prepareLines(tx *gorm.DB, lines []models.InvoiceLine) error {
	for i := range lines {
		l := &lines[i]
		l.ID = 0
		l.InvoiceID = 0
		l.Procedure = nil
		if l.ProcedureID == nil {
			continue
		}
		var p models.Procedure
		if err := tx.First(&p, *l.ProcedureID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.Validation("store.CreateInvoice", map[string]string{
					"lines." + strconv.Itoa(i) + ".procedure_id": "unknown_procedure",
				})
			}
			return err
		}
		if strings.TrimSpace(l.Label) == "" {
			l.Label = p.Label
		}
		if l.UnitPrice == 0 {
			l.UnitPrice = p.BaseTariff
		}
	}
	return nil
}

func validateInvoice(inv *models.Invoice) validation.Violations {
	v := validation.Violations{}
	validation.ID("patient_id", inv.PatientID, v)
	validation.Required("date", inv.Date, v)
	validation.Date("date", inv.Date, v)
	for i, l := range inv.Lines {
		prefix := "lines." + strconv.Itoa(i) + "."
		if l.ProcedureID == nil {
			validation.Required(prefix+"label", l.Label, v)
		}
		validation.PositiveInt(prefix+"quantity", l.Quantity, v)
		if l.UnitPrice < 0 {
			v[prefix+"unit_price"] = "must_be_positive"
		}
	}
	if len(inv.Lines) == 0 && inv.Total <= 0 {
		v["lines"] = "required"
	}
	return v
}

// CreateInvoice numbers the invoice and inserts it with its lines in one
// transaction. Lines referencing a procedure inherit its label and tariff
// when left blank. The total is the sum of the lines when any are given.
// A collision on the generated number is retried.
func (s *Store) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	const op = "store.CreateInvoice"
	if inv.Date == "" {
		inv.Date = models.Today()
	}
	for i := range inv.Lines {
		if inv.Lines[i].Quantity == 0 {
			inv.Lines[i].Quantity = 1
		}
	}
	if err := invalid(op, validateInvoice(inv)); err != nil {
		return err
	}
	issued, _ := time.Parse(models.DateLayout, inv.Date)

	var err error
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.requirePatient(tx, inv.PatientID); err != nil {
				return err
			}
			if err := s.prepareLines(tx, inv.Lines); err != nil {
				return err
			}
			if len(inv.Lines) > 0 {
				for i := range inv.Lines {
					inv.Lines[i].ComputeTotal()
				}
				inv.Total = inv.LinesTotal()
			}
			inv.Total = models.RoundCents(inv.Total)
			inv.Paid = 0
			inv.Status = models.InvoicePending
			inv.ID = 0
			inv.Patient = nil

			number, err := nextInvoiceNumber(tx, issued.Year())
			if err != nil {
				return err
			}
			inv.Number = number
			return tx.Create(inv).Error
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		s.log.WithField("attempt", attempt).Warn("invoice number collision, retrying")
		if s.hooks.InvoiceNumberRetry != nil {
			s.hooks.InvoiceNumberRetry()
		}
	}
	if err != nil {
		return wrap(op, err)
	}
	s.log.WithFields(logrus.Fields{"invoice": inv.Number, "patient_id": inv.PatientID}).Info("invoice created")
	return nil
}

func invoiceWithLines(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Patient").
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Lines.Procedure")
}

// GetInvoice loads an invoice with its patient, lines and line procedures.
func (s *Store) GetInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	var inv models.Invoice
	if err := invoiceWithLines(s.conn(ctx)).First(&inv, id).Error; err != nil {
		return nil, wrap("store.GetInvoice", err)
	}
	return &inv, nil
}

// GetInvoiceByNumber loads an invoice by its number.
func (s *Store) GetInvoiceByNumber(ctx context.Context, number string) (*models.Invoice, error) {
	var inv models.Invoice
	if err := invoiceWithLines(s.conn(ctx)).Where("number = ?", number).First(&inv).Error; err != nil {
		return nil, wrap("store.GetInvoiceByNumber", err)
	}
	return &inv, nil
}

// InvoicesByPatient returns a patient's invoices, latest first.
func (s *Store) InvoicesByPatient(ctx context.Context, patientID uint) ([]models.Invoice, error) {
	var out []models.Invoice
	err := s.conn(ctx).
		Where("patient_id = ?", patientID).
		Order("date DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, wrap("store.InvoicesByPatient", err)
	}
	return out, nil
}

// ListInvoices returns all invoices, latest first, optionally filtered by
// status.
func (s *Store) ListInvoices(ctx context.Context, status models.InvoiceStatus) ([]models.Invoice, error) {
	const op = "store.ListInvoices"
	q := s.conn(ctx).Preload("Patient")
	if status != "" {
		if !status.Valid() {
			return nil, errs.Validation(op, map[string]string{"status": "invalid_choice"})
		}
		q = q.Where("status = ?", status)
	}
	var out []models.Invoice
	if err := q.Order("date DESC, id DESC").Find(&out).Error; err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

// SetInvoicePDF records the rendered PDF path.
func (s *Store) SetInvoicePDF(ctx context.Context, id uint, path string) error {
	res := s.conn(ctx).Model(&models.Invoice{}).Where("id = ?", id).UpdateColumn("pdf_path", path)
	return notFoundIfNone("store.SetInvoicePDF", res)
}

// InvoiceLines returns the lines of an invoice with their procedures.
func (s *Store) InvoiceLines(ctx context.Context, invoiceID uint) ([]models.InvoiceLine, error) {
	const op = "store.InvoiceLines"
	var out []models.InvoiceLine
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Invoice{}).Where("id = ?", invoiceID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Preload("Procedure").Where("invoice_id = ?", invoiceID).Order("id").Find(&out).Error
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}
