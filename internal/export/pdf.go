package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/lankastocks/cse-analyzer/internal/modules/recommendation"
)

// PDF writes a one-page summary report and returns the file path.
func (e *Exporter) PDF(result *recommendation.Result) (string, error) {
	path := e.filename(result.StockInfo.Ticker, "pdf")

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	title := "Stock Analysis Report"
	if result.StockInfo.Ticker != "" {
		title = fmt.Sprintf("Stock Analysis Report - %s", result.StockInfo.Ticker)
	}
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 9, fmt.Sprintf("%s  (score %.1f, %s confidence)",
		result.Recommendation, result.OverallScore, result.Confidence),
		"", 1, "C", false, 0, "")
	pdf.Ln(3)

	section := ""
	for _, r := range flatten(result) {
		if r.Section != section {
			section = r.Section
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetFillColor(221, 235, 247)
			pdf.CellFormat(0, 7, section, "", 1, "L", true, 0, "")
		}

		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(45, 6, r.Label, "", 0, "L", false, 0, "")
		pdf.MultiCell(0, 6, r.Value, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write PDF: %w", err)
	}

	e.log.Info().Str("path", path).Msg("PDF report written")
	return path, nil
}
