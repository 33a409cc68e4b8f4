package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/dentalsoft/httpx"
	"github.com/diewo77/dentalsoft/internal/errs"
	"github.com/diewo77/dentalsoft/internal/logging"
	"github.com/diewo77/dentalsoft/internal/models"
	"github.com/diewo77/dentalsoft/internal/selection"
	"github.com/diewo77/dentalsoft/internal/store"
)

type ChartHandler struct {
	store *store.Store
	sel   selectionRefresher
}

func NewChartHandler(st *store.Store, sel *selection.Context, log *logging.Logger) *ChartHandler {
	return &ChartHandler{store: st, sel: newSelectionRefresher(sel, log)}
}

// toothState is one cell of the chart; untouched teeth are "normal".
type toothState struct {
	ToothNumber int                 `json:"tooth_number"`
	Status      models.ToothStatus  `json:"status"`
	Record      *models.ToothRecord `json:"record,omitempty"`
}

// Current returns the 32 teeth in chart order with their latest state.
func (h *ChartHandler) Current(w http.ResponseWriter, r *http.Request) {
	id, ok := h.patient(w, r)
	if !ok {
		return
	}
	chart, err := h.store.CurrentChart(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	out := make([]toothState, 0, 32)
	for _, n := range models.ToothNumbers() {
		st := toothState{ToothNumber: n, Status: models.ToothNormal}
		if rec, found := chart[n]; found {
			st.Status = rec.Status
			st.Record = &rec
		}
		out = append(out, st)
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *ChartHandler) SaveTooth(w http.ResponseWriter, r *http.Request) {
	id, ok := h.patient(w, r)
	if !ok {
		return
	}
	var req struct {
		ToothNumber int                `json:"tooth_number"`
		Status      models.ToothStatus `json:"status"`
		Notes       string             `json:"notes"`
		ExamDate    string             `json:"exam_date"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	rec := &models.ToothRecord{PatientID: id, ToothNumber: req.ToothNumber, Status: req.Status, Notes: req.Notes, ExamDate: req.ExamDate}
	if err := h.store.SaveTooth(r.Context(), rec); err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rec)
}

func (h *ChartHandler) ToothHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.patient(w, r)
	if !ok {
		return
	}
	tooth, err := strconv.Atoi(r.PathValue("tooth"))
	if err != nil || !models.ValidToothNumber(tooth) {
		httpx.Error(w, r, errs.Validation("handlers.ToothHistory", map[string]string{"tooth": "invalid_tooth"}))
		return
	}
	out, err := h.store.ToothHistory(r.Context(), id, tooth)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *ChartHandler) Exams(w http.ResponseWriter, r *http.Request) {
	id, ok := h.patient(w, r)
	if !ok {
		return
	}
	out, err := h.store.ExamHistory(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *ChartHandler) AddExam(w http.ResponseWriter, r *http.Request) {
	id, ok := h.patient(w, r)
	if !ok {
		return
	}
	var req struct {
		ExamDate    string `json:"exam_date"`
		ExamType    string `json:"exam_type"`
		Tooth       string `json:"tooth"`
		Description string `json:"description"`
	}
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, r, err)
		return
	}
	e := &models.ExamHistoryEntry{PatientID: id, ExamDate: req.ExamDate, ExamType: req.ExamType, Tooth: req.Tooth, Description: req.Description}
	if err := h.store.AddExam(r.Context(), e); err != nil {
		httpx.Error(w, r, err)
		return
	}
	// the exam may have moved last_visit forward
	h.sel.refresh(r, id)
	httpx.JSON(w, http.StatusCreated, e)
}

// patient resolves {id} to an existing patient, writing the error otherwise.
func (h *ChartHandler) patient(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := pathID(r, "id")
	if err == nil {
		_, err = h.store.GetPatient(r.Context(), id)
	}
	if err != nil {
		httpx.Error(w, r, err)
		return 0, false
	}
	return id, true
}
