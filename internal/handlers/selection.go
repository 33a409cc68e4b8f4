package handlers

import (
	"net/http"

	"github.com/diewo77/dentalsoft/httpx"
	"github.com/diewo77/dentalsoft/internal/models"
	"github.com/diewo77/dentalsoft/internal/selection"
)

type SelectionHandler struct {
	sel *selection.Context
}

func NewSelectionHandler(sel *selection.Context) *SelectionHandler {
	return &SelectionHandler{sel: sel}
}

type selectionResponse struct {
	PatientID uint            `json:"patient_id"`
	Patient   *models.Patient `json:"patient"`
	Changed   bool            `json:"changed,omitempty"`
}

func (h *SelectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, p := h.sel.Current()
	httpx.JSON(w, http.StatusOK, selectionResponse{PatientID: id, Patient: p})
}

func (h *SelectionHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PatientID uint `json:"patient_id"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	changed, err := h.sel.Set(r.Context(), req.PatientID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	id, p := h.sel.Current()
	httpx.JSON(w, http.StatusOK, selectionResponse{PatientID: id, Patient: p, Changed: changed})
}

func (h *SelectionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	changed, err := h.sel.Clear(r.Context())
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, selectionResponse{Changed: changed})
}
