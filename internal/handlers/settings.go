package handlers

import (
	"net/http"

	"github.com/diewo77/dentalsoft/httpx"
	"github.com/diewo77/dentalsoft/internal/clinic"
	"github.com/diewo77/dentalsoft/internal/errs"
)

type SettingsHandler struct {
	clinic *clinic.Holder
}

func NewSettingsHandler(h *clinic.Holder) *SettingsHandler {
	return &SettingsHandler{clinic: h}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.clinic.Get())
}

// Update replaces the clinic configuration. Absent keys keep their current
// value.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	cfg := h.clinic.Get()
	if err := httpx.Decode(r, &cfg); err != nil {
		httpx.Error(w, r, err)
		return
	}
	if err := h.clinic.Update(cfg); err != nil {
		httpx.Error(w, r, errs.IO("handlers.UpdateSettings", err))
		return
	}
	httpx.JSON(w, http.StatusOK, cfg)
}
