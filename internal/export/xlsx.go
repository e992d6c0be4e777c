package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/lankastocks/cse-analyzer/internal/modules/recommendation"
)

// XLSX writes the recommendation as a single-sheet workbook and returns the
// file path.
func (e *Exporter) XLSX(result *recommendation.Result) (string, error) {
	path := e.filename(result.StockInfo.Ticker, "xlsx")

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Analysis"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Section", "Label", "Value"}); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", "C1", headerStyle); err != nil {
		return "", fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range flatten(result) {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{r.Section, r.Label, r.Value}); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 14); err != nil {
		return "", err
	}
	if err := f.SetColWidth(sheet, "B", "B", 22); err != nil {
		return "", err
	}
	if err := f.SetColWidth(sheet, "C", "C", 60); err != nil {
		return "", err
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	e.log.Info().Str("path", path).Msg("XLSX report written")
	return path, nil
}
