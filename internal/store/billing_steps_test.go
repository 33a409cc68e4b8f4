package store

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/cucumber/godog"

	"github.com/diewo77/dentalsoft/internal/db"
	"github.com/diewo77/dentalsoft/internal/errs"
	"github.com/diewo77/dentalsoft/internal/models"
)

var scenarioSeq atomic.Int64

// billingContext holds state for a single scenario
type billingContext struct {
	store   *Store
	close   func()
	patient *models.Patient
	numbers []string
	lastErr error
}

func TestBillingFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeBillingScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeBillingScenario(sc *godog.ScenarioContext) {
	bc := &billingContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		dsn := fmt.Sprintf("file:billing_scenario_%d?mode=memory&cache=shared", scenarioSeq.Add(1))
		conn, err := db.Open("sqlite", dsn, false)
		if err != nil {
			return ctx, err
		}
		if err := db.Migrate(conn, "auto"); err != nil {
			return ctx, err
		}
		*bc = billingContext{store: New(conn, nil), close: func() { _ = db.Close(conn) }}
		return ctx, nil
	})

	sc.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if bc.close != nil {
			bc.close()
		}
		return ctx, nil
	})

	sc.Step(`^a patient "([^"]*)" "([^"]*)"$`, bc.aPatient)
	sc.Step(`^I create an invoice dated "([^"]*)" for (\d+\.\d+)$`, bc.iCreateAnInvoice)
	sc.Step(`^the invoice numbers are "([^"]*)"$`, bc.theInvoiceNumbersAre)
	sc.Step(`^an invoice "([^"]*)" totalling (\d+\.\d+)$`, bc.anInvoiceTotalling)
	sc.Step(`^the patient pays (\d+\.\d+) by "([^"]*)" on "([^"]*)"$`, bc.thePatientPays)
	sc.Step(`^invoice "([^"]*)" has paid (\d+\.\d+) and status "([^"]*)"$`, bc.invoiceHasPaidAndStatus)
	sc.Step(`^the payment is rejected as not found$`, bc.thePaymentIsRejectedAsNotFound)
	sc.Step(`^the patient has (\d+) payments$`, bc.thePatientHasPayments)
	sc.Step(`^the statistics from "([^"]*)" to "([^"]*)" are all zero$`, bc.theStatisticsAreAllZero)
}

func (bc *billingContext) aPatient(last, first string) error {
	bc.patient = &models.Patient{LastName: last, FirstName: first}
	return bc.store.CreatePatient(context.Background(), bc.patient)
}

func (bc *billingContext) iCreateAnInvoice(date string, total float64) error {
	inv := &models.Invoice{PatientID: bc.patient.ID, Date: date, Total: total}
	if err := bc.store.CreateInvoice(context.Background(), inv); err != nil {
		return err
	}
	bc.numbers = append(bc.numbers, inv.Number)
	return nil
}

func (bc *billingContext) theInvoiceNumbersAre(want string) error {
	if got := strings.Join(bc.numbers, ", "); got != want {
		return fmt.Errorf("expected numbers %q, got %q", want, got)
	}
	return nil
}

func (bc *billingContext) anInvoiceTotalling(number string, total float64) error {
	inv := &models.Invoice{PatientID: bc.patient.ID, Date: "2025-01-15", Total: total}
	if err := bc.store.CreateInvoice(context.Background(), inv); err != nil {
		return err
	}
	if inv.Number != number {
		return fmt.Errorf("expected first invoice to be %s, got %s", number, inv.Number)
	}
	return nil
}

func (bc *billingContext) thePatientPays(amount float64, method, number string) error {
	_, bc.lastErr = bc.store.RecordPayment(context.Background(), &models.Payment{
		PatientID: bc.patient.ID, Amount: amount, Date: "2025-02-01", Method: method, InvoiceNumber: number,
	})
	if bc.lastErr != nil && !errs.IsNotFound(bc.lastErr) {
		return bc.lastErr
	}
	return nil
}

func (bc *billingContext) invoiceHasPaidAndStatus(number string, paid float64, status string) error {
	if bc.lastErr != nil {
		return bc.lastErr
	}
	inv, err := bc.store.GetInvoiceByNumber(context.Background(), number)
	if err != nil {
		return err
	}
	if inv.Paid != paid {
		return fmt.Errorf("expected paid %.2f, got %.2f", paid, inv.Paid)
	}
	if string(inv.Status) != status {
		return fmt.Errorf("expected status %q, got %q", status, inv.Status)
	}
	return nil
}

func (bc *billingContext) thePaymentIsRejectedAsNotFound() error {
	if !errs.IsNotFound(bc.lastErr) {
		return fmt.Errorf("expected a not-found error, got %v", bc.lastErr)
	}
	return nil
}

func (bc *billingContext) thePatientHasPayments(n int) error {
	list, err := bc.store.PaymentsByPatient(context.Background(), bc.patient.ID)
	if err != nil {
		return err
	}
	if len(list) != n {
		return fmt.Errorf("expected %d payments, got %d", n, len(list))
	}
	return nil
}

func (bc *billingContext) theStatisticsAreAllZero(from, to string) error {
	st, err := bc.store.PaymentStats(context.Background(), from, to)
	if err != nil {
		return err
	}
	if st.PaymentsTotal != 0 || st.PaymentsCount != 0 || len(st.ByMethod) != 0 ||
		st.InvoicesCount != 0 || st.InvoicesTotal != 0 || st.InvoicesPaid != 0 {
		return fmt.Errorf("expected zero statistics, got %+v", st)
	}
	return nil
}
