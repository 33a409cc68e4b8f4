package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/diewo77/dentalsoft/i18n"
	"github.com/diewo77/dentalsoft/internal/errs"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// StatusFor maps an error kind to an HTTP status and a message code.
func StatusFor(err error) (int, string) {
	switch errs.KindOf(err) {
	case errs.KindNotFound:
		return http.StatusNotFound, "not_found"
	case errs.KindValidation:
		return http.StatusBadRequest, "validation_failed"
	case errs.KindConflict:
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// Error writes err as a JSON error. Validation details are translated to the
// request language; internal causes are not exposed.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, code := StatusFor(err)
	lang := i18n.LangFromContext(r.Context())
	resp := ErrorResponse{Error: code, Message: i18n.T(lang, code)}
	if fields := errs.FieldsOf(err); len(fields) > 0 {
		resp.Details = i18n.TranslateAll(lang, fields)
	}
	JSON(w, status, resp)
}

// Decode reads a JSON body into dst. Unknown fields are rejected.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.Validation("httpx.Decode", map[string]string{"body": "required"})
		}
		return errs.Validation("httpx.Decode", map[string]string{"body": "invalid_body"})
	}
	return nil
}
