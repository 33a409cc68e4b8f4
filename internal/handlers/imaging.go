package handlers

import (
	"net/http"

	"github.com/diewo77/dentalsoft/httpx"
	"github.com/diewo77/dentalsoft/internal/errs"
	"github.com/diewo77/dentalsoft/internal/imaging"
	"github.com/diewo77/dentalsoft/internal/store"
)

// maxUploadBytes caps a multipart image upload.
const maxUploadBytes = 64 << 20

type ImagingHandler struct {
	store *store.Store
	lib   *imaging.Library
}

func NewImagingHandler(st *store.Store, lib *imaging.Library) *ImagingHandler {
	return &ImagingHandler{store: st, lib: lib}
}

func (h *ImagingHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	out, err := h.store.ImagesByPatient(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Upload imports the multipart "file" field for the patient. Optional
// fields: category, description, name.
func (h *ImagingHandler) Upload(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.UploadImage"
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		httpx.Error(w, r, errs.Validation(op, map[string]string{"file": "invalid_body"}))
		return
	}
	defer r.MultipartForm.RemoveAll()
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Error(w, r, errs.Validation(op, map[string]string{"file": "required"}))
		return
	}
	defer file.Close()

	category := r.FormValue("category")
	if category == "" {
		category = "Autre"
	}
	img, err := h.lib.Import(r.Context(), imaging.ImportRequest{
		PatientID:   id,
		Category:    category,
		Description: r.FormValue("description"),
		Name:        r.FormValue("name"),
		SourceName:  header.Filename,
		Source:      file,
	})
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, img)
}

func (h *ImagingHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	img, err := h.store.GetImage(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, img)
}

// File streams the stored image bytes.
func (h *ImagingHandler) File(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	img, f, err := h.lib.Open(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		httpx.Error(w, r, errs.IO("handlers.ImageFile", err))
		return
	}
	if img.Format == imaging.FormatDICOM {
		w.Header().Set("Content-Type", "application/dicom")
	}
	http.ServeContent(w, r, img.FileName, st.ModTime(), f)
}

func (h *ImagingHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	path, err := h.lib.Export(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"path": path})
}

// Delete removes the row and then the file. file_warning is set when the
// file could not be removed.
func (h *ImagingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	img, warn, err := h.lib.Delete(r.Context(), id)
	if err != nil {
		httpx.Error(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": img.ID, "file_warning": warn})
}
