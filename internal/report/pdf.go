package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

var pdfReplacer = strings.NewReplacer("→", "->", "✓", "", "⚠", "!")

// WritePDF renders r as a single-column A4 document, one multi-cell per line.
func WritePDF(w io.Writer, r *Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.Title, true)
	pdf.SetCreator("macrolens", true)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, line := range r.lines {
		if line == "" {
			pdf.Ln(8)
			continue
		}
		pdf.MultiCell(0, 8, tr(pdfReplacer.Replace(line)), "", "", false)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
