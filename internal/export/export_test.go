package export

import (
	"encoding/csv"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankastocks/cse-analyzer/internal/config"
	"github.com/lankastocks/cse-analyzer/internal/domain"
	"github.com/lankastocks/cse-analyzer/internal/modules/recommendation"
)

func sampleResult(t *testing.T) *recommendation.Result {
	t.Helper()

	stock := &domain.StockFinancials{
		Ticker:             "LIOC",
		CompanyName:        "Lanka IOC PLC",
		Price:              domain.Float(100),
		EPS:                domain.Float(10),
		TotalDebt:          domain.Float(30),
		ShareholdersEquity: domain.Float(100),
	}
	stock.DeriveRatios()

	result, err := recommendation.New(config.DefaultAnalysis()).Generate(stock, nil, nil)
	require.NoError(t, err)
	return result
}

func newExporter(t *testing.T) *Exporter {
	t.Helper()

	exporter, err := New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return exporter
}

func TestCSV(t *testing.T) {
	exporter := newExporter(t)
	result := sampleResult(t)

	path, err := exporter.CSV(result)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".csv"))
	assert.Contains(t, path, "LIOC")

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Greater(t, len(rows), 5)

	assert.Equal(t, []string{"section", "label", "value"}, rows[0])
	assert.Equal(t, []string{"Stock", "Ticker", "LIOC"}, rows[1])
}

func TestXLSX(t *testing.T) {
	exporter := newExporter(t)

	path, err := exporter.XLSX(sampleResult(t))
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.True(t, strings.HasSuffix(path, ".xlsx"))
}

func TestPDF(t *testing.T) {
	exporter := newExporter(t)

	path, err := exporter.PDF(sampleResult(t))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestFilename_BlankTickerFallsBack(t *testing.T) {
	exporter := newExporter(t)

	path := exporter.filename("", "csv")
	assert.Contains(t, path, "ANALYSIS_recommendation_")
}

func TestFlatten_ContainsAllSections(t *testing.T) {
	rows := flatten(sampleResult(t))

	sections := map[string]bool{}
	for _, r := range rows {
		sections[r.Section] = true
	}

	for _, want := range []string{"Stock", "Overall", "Fundamental", "Technical", "Risk", "Insights"} {
		assert.True(t, sections[want], "missing section %s", want)
	}
}
