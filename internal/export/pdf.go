package export

import (
	"fmt"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/twiced-technology-gmbh/tasklist/internal/view"
)

const (
	pdfMargin   = 15.0
	pdfLineH    = 8.0
	pdfBoxSize  = 4.0
	pdfTextX    = pdfMargin + pdfBoxSize + 3
	pdfDateFmt  = "2006-01-02"
	pdfDateCell = 25.0

	coreFamily = "Arial"
	fontFamily = "tasklist"
)

// PDF writes a printable checklist of the rendered list to w. Text is set in
// the TrueType font at fontFile, or in the built-in Helvetica when fontFile
// is empty. Helvetica only covers Windows-1252; rows listed by Unsupported
// print with dots in place of the characters it lacks.
func PDF(w io.Writer, title string, v view.View, fontFile string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)

	family := coreFamily
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if fontFile != "" {
		if _, err := os.Stat(fontFile); err != nil {
			return fmt.Errorf("loading PDF font: %w", err)
		}
		for _, style := range []string{"", "B", "I"} {
			pdf.AddUTF8Font(fontFamily, style, fontFile)
		}
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("loading PDF font %s: %w", fontFile, err)
		}
		family = fontFamily
		tr = func(s string) string { return s }
	}

	pdf.AddPage()
	pdf.SetFont(family, "B", 16)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(10)
	pdf.SetFont(family, "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.Cell(0, 6, v.Count)
	pdf.Ln(10)

	if v.Empty {
		pdf.SetFont(family, "I", 11)
		pdf.Cell(0, pdfLineH, tr(v.Placeholder))
		pdf.Ln(pdfLineH)
	}

	pageW, _ := pdf.GetPageSize()
	textW := pageW - pdfTextX - pdfMargin - pdfDateCell
	for _, r := range v.Rows {
		y := pdf.GetY()
		pdf.SetDrawColor(60, 60, 60)
		pdf.Rect(pdfMargin, y+(pdfLineH-pdfBoxSize)/2, pdfBoxSize, pdfBoxSize, "D")
		if r.Completed {
			pdf.SetFont("ZapfDingbats", "", 10)
			pdf.SetTextColor(0, 130, 0)
			pdf.Text(pdfMargin+0.4, y+(pdfLineH+pdfBoxSize)/2-0.6, "4") // check mark glyph
		}

		pdf.SetXY(pdfTextX, y)
		pdf.SetFont(family, "", 11)
		if r.Completed {
			pdf.SetTextColor(140, 140, 140)
		} else {
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.CellFormat(textW, pdfLineH, tr(r.Text), "", 0, "L", false, 0, "")
		pdf.SetFont(family, "", 8)
		pdf.SetTextColor(140, 140, 140)
		pdf.CellFormat(pdfDateCell, pdfLineH, r.Created.Format(pdfDateFmt), "", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

// Unsupported returns the row numbers whose text the built-in PDF font
// cannot show, i.e. text outside Windows-1252.
func Unsupported(v view.View) []int {
	var rows []int
	for _, r := range v.Rows {
		if _, err := charmap.Windows1252.NewEncoder().String(r.Text); err != nil {
			rows = append(rows, r.Number)
		}
	}
	return rows
}
