package render

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/zen-systems/ratewatch/pkg/report"
)

func writePDF(r *report.Report, charts []chartFile, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("USD Exchange Rate Analysis", false)

	// Title page with the executive summary.
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 14, "USD Exchange Rate Analysis - Argentina", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated %s | Source: %s", r.GeneratedAt.Format("2006-01-02 15:04 MST"), r.Source), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 9, "Executive Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, tr(r.Narrative.Summary), "", "L", false)
	pdf.Ln(4)

	writeQuoteTable(pdf, tr, r)

	for _, c := range charts {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 9, tr(c.Title), "", 1, "L", false, 0, "")
		pdf.ImageOptions(c.Path, 10, 30, 190, 0, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	for _, section := range []struct {
		title string
		body  string
	}{
		{"Quote Analysis", r.Narrative.Cotizations},
		{"Exchange-Rate Gaps", r.Narrative.Gaps},
		{"Market Trends", r.Narrative.Trends},
	} {
		if section.body == "" {
			continue
		}
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 9, section.title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(section.body), "", "L", false)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func writeQuoteTable(pdf *fpdf.Fpdf, tr func(string) string, r *report.Report) {
	pdf.SetFont("Helvetica", "B", 10)
	widths := []float64{50, 30, 30, 30, 50}
	for i, header := range []string{"House", "Buy", "Sell", "Spread", "Updated"} {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, q := range r.Quotes {
		pdf.CellFormat(widths[0], 7, tr(q.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, fmt.Sprintf("%.2f", q.Buy), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%.2f", q.Sell), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%.2f", q.Spread()), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, q.UpdatedAt.Format("2006-01-02 15:04"), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
}
