// Package view renders the HTML previews served next to the PDF documents.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/diewo77/dentalsoft/i18n"
	"github.com/diewo77/dentalsoft/internal/documents"
)

//go:embed templates/*.html
var templatesFS embed.FS

var (
	once    sync.Once
	base    *template.Template
	baseErr error
)

// Funcs returns the func map shared by every template.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.LangFromContext(r.Context())
	return template.FuncMap{
		"t":          func(code string) string { return i18n.T(lang, code) },
		"lang":       func() string { return lang },
		"year":       func() int { return time.Now().Year() },
		"frenchDate": documents.FrenchDate,
		"money": func(v any, currency string) string {
			f, _ := toFloat64(v)
			return documents.Money(f, currency)
		},
		"mul": func(a, b any) float64 {
			fa, oka := toFloat64(a)
			fb, okb := toFloat64(b)
			if !oka || !okb {
				return 0
			}
			return fa * fb
		},
		// dict creates a map from key-value pairs for passing to sub-templates.
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func parse() {
	// Placeholder funcs; the real ones are bound per request.
	stub := Funcs(&http.Request{})
	base, baseErr = template.New("layout.html").Funcs(stub).ParseFS(templatesFS, "templates/*.html")
}

// Render executes the named page inside the layout. name is the file name
// without directory, e.g. "prescription.html".
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	once.Do(parse)
	if baseErr != nil {
		return baseErr
	}
	if base.Lookup(name) == nil {
		return fmt.Errorf("view: unknown template %q", name)
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, exists := data["Year"]; !exists {
		data["Year"] = time.Now().Year()
	}
	data["Page"] = name

	t, err := base.Clone()
	if err != nil {
		return err
	}
	t.Funcs(Funcs(r))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.ExecuteTemplate(w, "layout.html", data)
}

// PrescriptionPage builds the template data for a prescription preview.
func PrescriptionPage(doc documents.PrescriptionData) map[string]any {
	return map[string]any{
		"Title":           "Ordonnance - " + doc.PatientName,
		"Clinic":          doc.Clinic,
		"Doc":             doc,
		"PlaceAndDate":    documents.PlaceAndDate(doc.Clinic.City, doc.Date),
		"Recommendations": documents.RecommendationLines(doc.Recommendations),
	}
}

// InvoicePage builds the template data for an invoice preview.
func InvoicePage(doc documents.InvoiceData) map[string]any {
	return map[string]any{
		"Title":        "Facture " + doc.InvoiceNumber,
		"Clinic":       doc.Clinic,
		"Doc":          doc,
		"Currency":     doc.Clinic.CurrencyLabel(),
		"PlaceAndDate": documents.PlaceAndDate(doc.Clinic.City, doc.Date),
	}
}
