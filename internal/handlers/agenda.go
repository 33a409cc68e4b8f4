package handlers

import (
	"net/http"

	"github.com/diewo77/dentalsoft/httpx"
	"github.com/diewo77/dentalsoft/internal/errs"
	"github.com/diewo77/dentalsoft/internal/models"
	"github.com/diewo77/dentalsoft/internal/store"
)

type AgendaHandler struct {
	store *store.Store
}

func NewAgendaHandler(st *store.Store) *AgendaHandler {
	return &AgendaHandler{store: st}
}

type appointmentRequest struct {
	PatientID   uint                     `json:"patient_id"`
	Date        string                   `json:"date"`
	Time        string                   `json:"time"`
	Category    string                   `json:"category"`
	Description string                   `json:"description"`
	Status      models.AppointmentStatus `json:"status"`
}

func (a appointmentRequest) model() *models.Appointment {
	return &models.Appointment{
		PatientID:   a.PatientID,
		Date:        a.Date,
		Time:        a.Time,
		Category:    a.Category,
		Description: a.Description,
		Status:      a.Status,
	}
}

// appointmentResponse carries the saved appointment and the other bookings
// of the same slot. Conflicts are informational.
type appointmentResponse struct {
	Appointment *models.Appointment  `json:"appointment"`
	Conflicts   []models.Appointment `json:"conflicts"`
}

// Day lists ?date= (default today), or ?from=&to= for a range. A single
// bound selects that one day.
func (h *AgendaHandler) Day(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		out []models.Appointment
		err error
	)
	if from, to := q.Get("from"), q.Get("to"); from != "" || to != "" {
		if from == "" {
			from = to
		}
		if to == "" {
			to = from
		}
		out, err = h.store.AppointmentsInRange(r.Context(), from, to)
	} else {
		date := q.Get("date")
		if date == "" {
			date = models.Today()
		}
		out, err = h.store.AppointmentsByDay(r.Context(), date)
	}
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *AgendaHandler) ByPatient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if _, err := h.store.GetPatient(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	out, err := h.store.AppointmentsByPatient(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *AgendaHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	a, err := h.store.GetAppointment(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *AgendaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	a := req.model()
	if err := h.store.CreateAppointment(r.Context(), a); err != nil {
		httpx.Error(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, a)
}

func (h *AgendaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	var req appointmentRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	a := req.model()
	a.ID = id
	if err := h.store.UpdateAppointment(r.Context(), a); err != nil {
		httpx.Error(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, a)
}

func (h *AgendaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.store.DeleteAppointment(r.Context(), id); err != nil {
		httpx.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AgendaHandler) respond(w http.ResponseWriter, r *http.Request, status int, a *models.Appointment) {
	saved, err := h.store.GetAppointment(r.Context(), a.ID)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	conflicts, err := h.store.SlotConflicts(r.Context(), saved.Date, saved.Time, saved.ID)
	if err != nil && !errs.IsNotFound(err) {
		httpx.Error(w, r, err)
		return
	}
	if conflicts == nil {
		conflicts = []models.Appointment{}
	}
	httpx.JSON(w, status, appointmentResponse{Appointment: saved, Conflicts: conflicts})
}
