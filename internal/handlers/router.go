package handlers

import (
	"net/http"

	"github.com/diewo77/dentalsoft/internal/clinic"
	"github.com/diewo77/dentalsoft/internal/imaging"
	"github.com/diewo77/dentalsoft/internal/logging"
	"github.com/diewo77/dentalsoft/internal/selection"
	"github.com/diewo77/dentalsoft/internal/services"
	"github.com/diewo77/dentalsoft/internal/store"
)

// Deps are the collaborators the handlers are built from.
type Deps struct {
	Store         *store.Store
	Selection     *selection.Context
	Clinic        *clinic.Holder
	Images        *imaging.Library
	Billing       *services.BillingService
	Prescriptions *services.PrescriptionService
	Log           *logging.Logger
}

// RouterConfig holds the configured handlers of every panel.
type RouterConfig struct {
	Patients      *PatientHandler
	Agenda        *AgendaHandler
	Chart         *ChartHandler
	Imaging       *ImagingHandler
	Prescriptions *PrescriptionHandler
	Billing       *BillingHandler
	Settings      *SettingsHandler
	Selection     *SelectionHandler
}

func NewRouterConfig(d Deps) *RouterConfig {
	return &RouterConfig{
		Patients:      NewPatientHandler(d.Store, d.Selection, d.Log),
		Agenda:        NewAgendaHandler(d.Store),
		Chart:         NewChartHandler(d.Store, d.Selection, d.Log),
		Imaging:       NewImagingHandler(d.Store, d.Images),
		Prescriptions: NewPrescriptionHandler(d.Store, d.Prescriptions),
		Billing:       NewBillingHandler(d.Store, d.Billing),
		Settings:      NewSettingsHandler(d.Clinic),
		Selection:     NewSelectionHandler(d.Selection),
	}
}

// Register mounts every panel route on mux.
func (c *RouterConfig) Register(mux *http.ServeMux) {
	// Patients
	ph := c.Patients
	mux.HandleFunc("GET /patients", ph.List)
	mux.HandleFunc("POST /patients", ph.Create)
	mux.HandleFunc("GET /patients/{id}", ph.View)
	mux.HandleFunc("PUT /patients/{id}", ph.Update)
	mux.HandleFunc("GET /patients/{id}/remarks", ph.Remarks)
	mux.HandleFunc("PUT /patients/{id}/remarks", ph.UpdateRemarks)
	mux.HandleFunc("GET /patients/{id}/last-visit", ph.LastVisit)

	// Agenda
	ah := c.Agenda
	mux.HandleFunc("GET /appointments", ah.Day)
	mux.HandleFunc("POST /appointments", ah.Create)
	mux.HandleFunc("GET /appointments/{id}", ah.View)
	mux.HandleFunc("PUT /appointments/{id}", ah.Update)
	mux.HandleFunc("DELETE /appointments/{id}", ah.Delete)
	mux.HandleFunc("GET /patients/{id}/appointments", ah.ByPatient)

	// Dental chart
	ch := c.Chart
	mux.HandleFunc("GET /patients/{id}/chart", ch.Current)
	mux.HandleFunc("POST /patients/{id}/chart", ch.SaveTooth)
	mux.HandleFunc("GET /patients/{id}/chart/{tooth}", ch.ToothHistory)
	mux.HandleFunc("GET /patients/{id}/exams", ch.Exams)
	mux.HandleFunc("POST /patients/{id}/exams", ch.AddExam)

	// Imaging
	ih := c.Imaging
	mux.HandleFunc("GET /patients/{id}/images", ih.List)
	mux.HandleFunc("POST /patients/{id}/images", ih.Upload)
	mux.HandleFunc("GET /images/{id}", ih.View)
	mux.HandleFunc("GET /images/{id}/file", ih.File)
	mux.HandleFunc("POST /images/{id}/export", ih.Export)
	mux.HandleFunc("DELETE /images/{id}", ih.Delete)

	// Prescriptions
	rh := c.Prescriptions
	mux.HandleFunc("GET /patients/{id}/prescriptions", rh.List)
	mux.HandleFunc("POST /patients/{id}/prescriptions", rh.Create)
	mux.HandleFunc("GET /prescriptions/{id}", rh.View)
	mux.HandleFunc("GET /prescriptions/{id}/preview", rh.Preview)
	mux.HandleFunc("GET /prescriptions/{id}/pdf", rh.PDF)

	// Billing
	bh := c.Billing
	mux.HandleFunc("GET /procedures", bh.Procedures)
	mux.HandleFunc("GET /invoices", bh.Invoices)
	mux.HandleFunc("POST /invoices", bh.CreateInvoice)
	mux.HandleFunc("GET /invoices/{id}", bh.Invoice)
	mux.HandleFunc("GET /invoice-numbers/{number}", bh.InvoiceByNumber)
	mux.HandleFunc("GET /invoices/{id}/lines", bh.InvoiceLines)
	mux.HandleFunc("GET /invoices/{id}/pdf", bh.InvoicePDF)
	mux.HandleFunc("GET /invoices/{id}/preview", bh.InvoicePreview)
	mux.HandleFunc("GET /invoices/{id}/payments", bh.InvoicePayments)
	mux.HandleFunc("GET /patients/{id}/invoices", bh.PatientInvoices)
	mux.HandleFunc("GET /patients/{id}/payments", bh.PatientPayments)
	mux.HandleFunc("POST /payments", bh.RecordPayment)
	mux.HandleFunc("GET /stats", bh.Stats)

	// Settings and selection
	mux.HandleFunc("GET /settings", c.Settings.Get)
	mux.HandleFunc("PUT /settings", c.Settings.Update)
	mux.HandleFunc("GET /selection", c.Selection.Get)
	mux.HandleFunc("PUT /selection", c.Selection.Set)
	mux.HandleFunc("DELETE /selection", c.Selection.Clear)
}
