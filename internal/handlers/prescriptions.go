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

type PrescriptionHandler struct {
	store *store.Store
	svc   *services.PrescriptionService
}

func NewPrescriptionHandler(st *store.Store, svc *services.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{store: st, svc: svc}
}

func (h *PrescriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	out, err := h.store.PrescriptionsByPatient(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Create stores the prescription and renders its PDF.
func (h *PrescriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req struct {
		Date            string              `json:"date"`
		Medications     []models.Medication `json:"medications"`
		Recommendations string              `json:"recommendations"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.svc.Create(r.Context(), &models.Prescription{
		PatientID:       id,
		Date:            req.Date,
		Medications:     req.Medications,
		Recommendations: req.Recommendations,
	})
	if err != nil && p == nil {
		httpx.Error(w, r, err)
		return
	}
	// A stored prescription whose PDF failed is still created.
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *PrescriptionHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.store.GetPrescription(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

// Preview renders the prescription as HTML.
func (h *PrescriptionHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	_, _, doc, err := h.svc.Data(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := view.Render(w, r, "prescription.html", view.PrescriptionPage(doc)); err != nil {
		httpx.Error(w, r, err)
	}
}

// PDF serves the stored PDF, rendering it first when missing.
func (h *PrescriptionHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.store.GetPrescription(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if p.PDFPath != "" && r.URL.Query().Get("refresh") == "" {
		if data, err := os.ReadFile(p.PDFPath); err == nil {
			servePDF(w, filepath.Base(p.PDFPath), data)
			return
		}
	}
	path, data, err := h.svc.Render(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	servePDF(w, filepath.Base(path), data)
}
