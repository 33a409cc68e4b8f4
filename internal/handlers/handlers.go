// Package handlers exposes the clinic panels as JSON endpoints.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/dentalsoft/internal/errs"
	"github.com/diewo77/dentalsoft/internal/logging"
	"github.com/diewo77/dentalsoft/internal/selection"
)

// pathID parses the named path segment as a positive id.
func pathID(r *http.Request, name string) (uint, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.Validation("handlers.pathID", map[string]string{name: "invalid_id"})
	}
	return uint(id), nil
}

// servePDF writes a rendered document as an attachment.
func servePDF(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// selectionRefresher reloads the active patient snapshot after a write that
// changes patient fields.
type selectionRefresher struct {
	sel *selection.Context
	log *logging.Logger
}

func newSelectionRefresher(sel *selection.Context, log *logging.Logger) selectionRefresher {
	if log == nil {
		log = logging.Discard()
	}
	return selectionRefresher{sel: sel, log: log}
}

func (s selectionRefresher) refresh(r *http.Request, id uint) {
	if s.sel == nil {
		return
	}
	if err := s.sel.Invalidate(r.Context(), id); err != nil {
		s.log.WithPatient(id).WithField("component", "handlers").WithError(err).
			Warn("selection snapshot reload failed")
	}
}
