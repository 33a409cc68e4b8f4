package documents

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/diewo77/dentalsoft/internal/clinic"
)

// InvoiceItem is one printed line.
type InvoiceItem struct {
	Code        string
	Description string
	Quantity    int
	UnitPrice   float64
	Total       float64
}

// InvoiceData is what an invoice PDF needs.
type InvoiceData struct {
	Clinic        clinic.Config
	InvoiceNumber string
	Date          string // ISO
	PatientName   string
	Items         []InvoiceItem
	Total         float64
	Paid          float64
	Remaining     float64
	Status        string
	Details       string
}

// InvoiceFileName returns "Facture_<number>.pdf".
func InvoiceFileName(number string) string {
	return "Facture_" + strings.ReplaceAll(number, " ", "_") + ".pdf"
}

// InvoicePDF renders an invoice.
func InvoicePDF(d InvoiceData) ([]byte, error) {
	cur := d.Clinic.CurrencyLabel()
	m := newDocument()
	addHeader(m, d.Clinic)
	spacer(m, 8)

	m.AddRow(10,
		text.NewCol(6, "Facture N° "+d.InvoiceNumber, props.Text{Size: 15, Style: fontstyle.Bold, Color: titleColor}),
		text.NewCol(6, PlaceAndDate(d.Clinic.City, d.Date), props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRows(text.NewRow(8, "Patient: "+Printable(d.PatientName), props.Text{Size: 12, Style: fontstyle.Bold}))
	if d.Details != "" {
		m.AddRows(text.NewRow(6, Printable(d.Details), props.Text{Size: 10, Color: mutedColor}))
	}
	spacer(m, 6)

	head := props.Text{Size: 10, Style: fontstyle.Bold}
	m.AddRow(7,
		text.NewCol(2, "Code", head),
		text.NewCol(5, "Désignation", head),
		text.NewCol(1, "Qté", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Center}),
		text.NewCol(2, "P.U.", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRows(line.NewRow(2, props.Line{Thickness: 0.3}))
	cell := props.Text{Size: 10}
	for _, it := range d.Items {
		m.AddRow(6,
			text.NewCol(2, it.Code, cell),
			text.NewCol(5, Printable(it.Description), cell),
			text.NewCol(1, strconv.Itoa(it.Quantity), props.Text{Size: 10, Align: align.Center}),
			text.NewCol(2, fmt.Sprintf("%.2f", it.UnitPrice), props.Text{Size: 10, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%.2f", it.Total), props.Text{Size: 10, Align: align.Right}),
		)
	}
	m.AddRows(line.NewRow(2, props.Line{Thickness: 0.3}))

	right := props.Text{Size: 11, Align: align.Right}
	bold := props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}
	m.AddRows(
		text.NewRow(8, "Total: "+Money(d.Total, cur), bold),
		text.NewRow(6, "Payé: "+Money(d.Paid, cur), right),
		text.NewRow(6, "Reste à payer: "+Money(d.Remaining, cur), right),
	)
	if d.Status != "" {
		m.AddRows(text.NewRow(6, "Statut: "+d.Status, right))
	}

	addSignature(m, d.Clinic)
	addFooter(m, d.Clinic)
	return generate(m)
}
