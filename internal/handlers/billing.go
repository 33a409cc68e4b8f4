package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/diewo77/dentalsoft/httpx"
	"github.com/diewo77/dentalsoft/internal/models"
	"github.com/diewo77/dentalsoft/internal/services"
	"github.com/diewo77/dentalsoft/internal/store"
	"github.com/diewo77/dentalsoft/view"
)

type BillingHandler struct {
	store *store.Store
	svc   *services.BillingService
}

func NewBillingHandler(st *store.Store, svc *services.BillingService) *BillingHandler {
	return &BillingHandler{store: st, svc: svc}
}

func (h *BillingHandler) Procedures(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.Procedures(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Invoices lists every invoice, optionally filtered by ?status=.
func (h *BillingHandler) Invoices(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListInvoices(r.Context(), models.InvoiceStatus(r.URL.Query().Get("status")))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *BillingHandler) PatientInvoices(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	out, err := h.store.InvoicesByPatient(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

type invoiceLineRequest struct {
	ProcedureID *uint   `json:"procedure_id"`
	Label       string  `json:"label"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type invoiceRequest struct {
	PatientID uint                 `json:"patient_id"`
	Date      string               `json:"date"`
	Total     float64              `json:"total"`
	Details   string               `json:"details"`
	Lines     []invoiceLineRequest `json:"lines"`
}

// CreateInvoice numbers and stores an invoice, then renders its PDF.
func (h *BillingHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	inv := &models.Invoice{PatientID: req.PatientID, Date: req.Date, Total: req.Total, Details: req.Details}
	for _, l := range req.Lines {
		inv.Lines = append(inv.Lines, models.InvoiceLine{
			ProcedureID: l.ProcedureID,
			Label:       l.Label,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	out, err := h.svc.CreateInvoice(r.Context(), inv)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *BillingHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.invoice(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// InvoiceLines lists the itemized lines of an invoice.
func (h *BillingHandler) InvoiceLines(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	out, err := h.store.InvoiceLines(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// InvoiceByNumber resolves /invoice-numbers/{number}.
func (h *BillingHandler) InvoiceByNumber(w http.ResponseWriter, r *http.Request) {
	inv, err := h.store.GetInvoiceByNumber(r.Context(), r.PathValue("number"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// InvoicePDF serves the stored PDF, rendering it when missing or when
// ?refresh=1 asks for the current payment state.
func (h *BillingHandler) InvoicePDF(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.invoice(w, r)
	if !ok {
		return
	}
	if inv.PDFPath != "" && r.URL.Query().Get("refresh") == "" {
		if data, err := os.ReadFile(inv.PDFPath); err == nil {
			servePDF(w, filepath.Base(inv.PDFPath), data)
			return
		}
	}
	path, data, err := h.svc.RenderInvoice(r.Context(), inv.ID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	servePDF(w, filepath.Base(path), data)
}

func (h *BillingHandler) InvoicePreview(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.invoice(w, r)
	if !ok {
		return
	}
	if err := view.Render(w, r, "invoice.html", view.InvoicePage(h.svc.InvoiceData(inv))); err != nil {
		httpx.Error(w, r, err)
	}
}

func (h *BillingHandler) PatientPayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	out, err := h.store.PaymentsByPatient(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *BillingHandler) InvoicePayments(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.invoice(w, r)
	if !ok {
		return
	}
	out, err := h.store.PaymentsByInvoice(r.Context(), inv.Number)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

type paymentResponse struct {
	Payment *models.Payment `json:"payment"`
	Invoice *models.Invoice `json:"invoice,omitempty"`
}

// RecordPayment stores a payment and reconciles the referenced invoice.
func (h *BillingHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PatientID     uint    `json:"patient_id"`
		Amount        float64 `json:"amount"`
		Date          string  `json:"date"`
		Method        string  `json:"method"`
		InvoiceNumber string  `json:"invoice_number"`
		Description   string  `json:"description"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	p := &models.Payment{
		PatientID:     req.PatientID,
		Amount:        req.Amount,
		Date:          req.Date,
		Method:        req.Method,
		InvoiceNumber: req.InvoiceNumber,
		Description:   req.Description,
	}
	inv, err := h.svc.RecordPayment(r.Context(), p)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, paymentResponse{Payment: p, Invoice: inv})
}

// Stats aggregates payments over ?from=&to= (default: current year).
func (h *BillingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st, err := h.svc.Stats(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, st)
}

func (h *BillingHandler) invoice(w http.ResponseWriter, r *http.Request) (*models.Invoice, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return nil, false
	}
	inv, err := h.store.GetInvoice(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return nil, false
	}
	return inv, true
}
