// Package documents renders prescriptions and invoices as A4 PDFs.
package documents

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/encoding/charmap"

	"github.com/diewo77/dentalsoft/internal/clinic"
)

const displayDate = "02/01/2006"

// arrowSubstitutes stand in for arrows outside cp1252.
var arrowSubstitutes = map[rune]rune{'➤': '»', '→': '»', '►': '»', '⇒': '»', '←': '«'}

// Printable rewrites s for the built-in PDF fonts, which only know cp1252.
// Arrows get a close substitute and other unsupported runes become "?".
func Printable(s string) string {
	return strings.Map(func(r rune) rune {
		if sub, ok := arrowSubstitutes[r]; ok {
			return sub
		}
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return '?'
		}
		return r
	}, s)
}

var (
	titleColor = &props.Color{Red: 44, Green: 62, Blue: 80}
	mutedColor = &props.Color{Red: 127, Green: 140, Blue: 141}
)

func newDocument() core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	return maroto.New(cfg)
}

// FrenchDate renders an ISO date as dd/mm/yyyy, or returns it unchanged
// when it does not parse.
func FrenchDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format(displayDate)
}

// PlaceAndDate returns "<city>, le dd/mm/yyyy".
func PlaceAndDate(city, iso string) string {
	if strings.TrimSpace(city) == "" {
		city = "Monastir"
	}
	return fmt.Sprintf("%s, le %s", city, FrenchDate(iso))
}

// Money formats an amount with two decimals and the currency label.
func Money(v float64, currency string) string {
	return fmt.Sprintf("%.2f %s", v, currency)
}

// addHeader writes the doctor, specialty and clinic block, with the logo on
// the left when one is configured and readable.
func addHeader(m core.Maroto, c clinic.Config) {
	lines := []struct {
		value string
		props props.Text
	}{
		{c.DoctorName, props.Text{Size: 18, Style: fontstyle.Bold, Align: align.Center, Color: titleColor}},
		{c.Specialty, props.Text{Size: 13, Align: align.Center}},
		{c.ClinicName, props.Text{Size: 12, Style: fontstyle.Italic, Align: align.Center, Color: mutedColor}},
	}

	logo := ""
	if c.LogoPath != "" {
		if _, err := os.Stat(c.LogoPath); err == nil {
			logo = c.LogoPath
		}
	}
	if logo == "" {
		for _, l := range lines {
			m.AddRows(text.NewRow(8, l.value, l.props))
		}
		return
	}

	info := col.New(9)
	top := 0.0
	for _, l := range lines {
		p := l.props
		p.Top = top
		info.Add(text.New(l.value, p))
		top += 8
	}
	m.AddRow(24, image.NewFromFileCol(3, logo, props.Rect{Center: true, Percent: 90}), info)
}

func addFooter(m core.Maroto, c clinic.Config) {
	m.AddRows(line.NewRow(6, props.Line{Color: mutedColor, Thickness: 0.3}))
	footer := props.Text{Size: 10, Color: mutedColor}
	for _, l := range c.ContactLines() {
		m.AddRows(text.NewRow(5, l, footer))
	}
	if addr := c.FullAddress(); addr != "" {
		m.AddRows(text.NewRow(5, "Adresse: "+addr, footer))
	}
}

func addSignature(m core.Maroto, c clinic.Config) {
	sig := props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}
	m.AddRows(
		text.NewRow(20, "", sig),
		text.NewRow(7, "Signature du médecin", sig),
		text.NewRow(7, c.DoctorName, sig),
		text.NewRow(20, "", sig),
	)
}

func spacer(m core.Maroto, h float64) {
	m.AddRows(text.NewRow(h, ""))
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}
