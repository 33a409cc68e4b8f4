package handlers

import (
	"net/http"

	"github.com/diewo77/dentalsoft/httpx"
	"github.com/diewo77/dentalsoft/internal/logging"
	"github.com/diewo77/dentalsoft/internal/models"
	"github.com/diewo77/dentalsoft/internal/selection"
	"github.com/diewo77/dentalsoft/internal/store"
)

type PatientHandler struct {
	store *store.Store
	sel   selectionRefresher
}

func NewPatientHandler(st *store.Store, sel *selection.Context, log *logging.Logger) *PatientHandler {
	return &PatientHandler{store: st, sel: newSelectionRefresher(sel, log)}
}

type patientRequest struct {
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	BirthDate string `json:"birth_date"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Remarks   string `json:"remarks"`
}

func (p patientRequest) model() *models.Patient {
	return &models.Patient{
		LastName:  p.LastName,
		FirstName: p.FirstName,
		BirthDate: p.BirthDate,
		Phone:     p.Phone,
		Email:     p.Email,
		Address:   p.Address,
		Remarks:   p.Remarks,
	}
}

// List returns every patient, or those matching ?q= (accent and case
// insensitive, on names and phone).
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	var (
		out []models.Patient
		err error
	)
	if q != "" {
		out, err = h.store.SearchPatients(r.Context(), q)
	} else {
		out, err = h.store.ListPatients(r.Context())
	}
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req patientRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	p := req.model()
	if err := h.store.CreatePatient(r.Context(), p); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *PatientHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	p, err := h.store.GetPatient(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req patientRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	p := req.model()
	p.ID = id
	if err := h.store.UpdatePatient(r.Context(), p); err != nil {
		httpx.Error(w, r, err)
		return
	}
	h.sel.refresh(r, id)
	httpx.JSON(w, http.StatusOK, p)
}

func (h *PatientHandler) Remarks(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	remarks, err := h.store.Remarks(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"remarks": remarks})
}

func (h *PatientHandler) UpdateRemarks(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req struct {
		Remarks string `json:"remarks"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.store.UpdateRemarks(r.Context(), id, req.Remarks); err != nil {
		httpx.Error(w, r, err)
		return
	}
	h.sel.refresh(r, id)
	httpx.JSON(w, http.StatusOK, map[string]string{"remarks": req.Remarks})
}

// LastVisit returns {"last_visit": date} or {"last_visit": null}.
func (h *PatientHandler) LastVisit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	date, ok, err := h.store.LastVisit(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var v *string
	if ok {
		v = &date
	}
	httpx.JSON(w, http.StatusOK, map[string]*string{"last_visit": v})
}
