package store

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/diewo77/dentalsoft/internal/errs"
	"github.com/diewo77/dentalsoft/internal/models"
	"github.com/diewo77/dentalsoft/validation"
)

// RecordPayment inserts a payment and, when it references an invoice,
// reconciles that invoice in the same transaction. The reconciled invoice is
// returned, or nil for a payment without invoice. An unknown invoice number
// is a not-found error and an invoice of another patient is a validation
// error; in both cases nothing is written, rather than storing the payment
// unreconciled.
func (s *Store) RecordPayment(ctx context.Context, p *models.Payment) (*models.Invoice, error) {
	const op = "store.RecordPayment"
	if p.Date == "" {
		p.Date = models.Today()
	}
	p.InvoiceNumber = strings.TrimSpace(p.InvoiceNumber)
	v := validation.Violations{}
	validation.ID("patient_id", p.PatientID, v)
	validation.PositiveFloat("amount", p.Amount, v)
	validation.Date("date", p.Date, v)
	validation.OneOf("method", p.Method, models.PaymentMethods, v)
	if err := invalid(op, v); err != nil {
		return nil, err
	}
	p.ID = 0
	p.Amount = models.RoundCents(p.Amount)

	var reconciled *models.Invoice
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.requirePatient(tx, p.PatientID); err != nil {
			return err
		}
		var inv models.Invoice
		if p.InvoiceNumber != "" {
			if err := tx.Where("number = ?", p.InvoiceNumber).First(&inv).Error; err != nil {
				return err
			}
			if inv.PatientID != p.PatientID {
				return errs.Validation(op, map[string]string{"invoice_number": "invoice_patient_mismatch"})
			}
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if p.InvoiceNumber == "" {
			return nil
		}
		inv.ApplyPayment(p.Amount)
		err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).Updates(map[string]any{
			"paid":   inv.Paid,
			"status": inv.Status,
		}).Error
		if err != nil {
			return err
		}
		reconciled = &inv
		return nil
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	entry := s.log.WithFields(logrus.Fields{"patient_id": p.PatientID, "amount": p.Amount, "method": p.Method})
	if reconciled != nil {
		entry = entry.WithFields(logrus.Fields{"invoice": reconciled.Number, "status": reconciled.Status})
	}
	entry.Info("payment recorded")
	return reconciled, nil
}

// PaymentsByPatient returns a patient's payments, latest first.
func (s *Store) PaymentsByPatient(ctx context.Context, patientID uint) ([]models.Payment, error) {
	var out []models.Payment
	err := s.conn(ctx).
		Where("patient_id = ?", patientID).
		Order("date DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, wrap("store.PaymentsByPatient", err)
	}
	return out, nil
}

// PaymentsByInvoice returns the payments made against an invoice number, in
// the order they were received.
func (s *Store) PaymentsByInvoice(ctx context.Context, number string) ([]models.Payment, error) {
	var out []models.Payment
	err := s.conn(ctx).
		Where("invoice_number = ?", number).
		Order("date, id").
		Find(&out).Error
	if err != nil {
		return nil, wrap("store.PaymentsByInvoice", err)
	}
	return out, nil
}
