package documents

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/diewo77/dentalsoft/internal/clinic"
	"github.com/diewo77/dentalsoft/internal/models"
)

// PrescriptionData is what a prescription PDF needs.
type PrescriptionData struct {
	Clinic          clinic.Config
	PatientName     string
	Age             string
	Date            string // ISO
	Medications     []models.Medication
	Recommendations string
}

// AgeLabel renders an age for documents, or "-" when unknown.
func AgeLabel(age int, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%d ans", age)
}

// MedicationBlock returns the two printed lines for one medication.
func MedicationBlock(m models.Medication) (title, posology string) {
	return Printable(m.DisplayName()), Printable("» " + m.Posology())
}

// RecommendationLines splits free text into non-empty printed lines.
func RecommendationLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// PrescriptionFileName returns "Ordonnance_<Last>_<First>_<date>.pdf".
func PrescriptionFileName(last, first, isoDate string) string {
	name := fmt.Sprintf("Ordonnance_%s_%s_%s.pdf", strings.TrimSpace(last), strings.TrimSpace(first), isoDate)
	return strings.ReplaceAll(name, " ", "_")
}

// PrescriptionPDF renders a prescription.
func PrescriptionPDF(d PrescriptionData) ([]byte, error) {
	m := newDocument()
	addHeader(m, d.Clinic)
	spacer(m, 8)

	m.AddRows(text.NewRow(8, PlaceAndDate(d.Clinic.City, d.Date), props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}))
	spacer(m, 10)

	patient := props.Text{Size: 13, Style: fontstyle.Bold}
	m.AddRows(
		text.NewRow(8, "Nom & Prénom: "+Printable(d.PatientName), patient),
		text.NewRow(8, "Âge: "+d.Age, patient),
	)
	spacer(m, 10)

	heading := props.Text{Size: 15, Style: fontstyle.Bold, Color: titleColor}
	m.AddRows(text.NewRow(10, "Prescription:", heading))
	for _, med := range d.Medications {
		if strings.TrimSpace(med.Name) == "" {
			continue
		}
		title, posology := MedicationBlock(med)
		m.AddRows(
			text.NewRow(7, title, props.Text{Size: 13, Style: fontstyle.Bold, Color: titleColor}),
			text.NewRow(9, posology, props.Text{Size: 12, Left: 8, Color: mutedColor}),
		)
	}

	if recs := RecommendationLines(d.Recommendations); len(recs) > 0 {
		spacer(m, 8)
		m.AddRows(text.NewRow(10, "Recommandations:", heading))
		for _, r := range recs {
			m.AddRows(text.NewRow(6, Printable(r), props.Text{Size: 12}))
		}
	}

	addSignature(m, d.Clinic)
	addFooter(m, d.Clinic)
	return generate(m)
}
