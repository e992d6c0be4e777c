package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/lankastocks/cse-analyzer/internal/modules/recommendation"
)

// CSV writes the recommendation as a three-column CSV file and returns the
// file path.
func (e *Exporter) CSV(result *recommendation.Result) (string, error) {
	path := e.filename(result.StockInfo.Ticker, "csv")

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"section", "label", "value"}); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range flatten(result) {
		if err := writer.Write([]string{r.Section, r.Label, r.Value}); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}

	e.log.Info().Str("path", path).Msg("CSV report written")
	return path, nil
}
