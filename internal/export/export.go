// Package export renders a recommendation result as a CSV, XLSX or PDF
// report on disk.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lankastocks/cse-analyzer/internal/modules/fundamental"
	"github.com/lankastocks/cse-analyzer/internal/modules/recommendation"
)

// Exporter writes analysis reports into a target directory.
type Exporter struct {
	dir string
	log zerolog.Logger
}

// New creates an exporter writing into dir, creating it if needed.
func New(dir string, log zerolog.Logger) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &Exporter{
		dir: dir,
		log: log.With().Str("component", "export").Logger(),
	}, nil
}

// filename builds a report path like <dir>/LIOC_recommendation_20260901T120000.csv
func (e *Exporter) filename(ticker, ext string) string {
	name := strings.ToUpper(strings.TrimSpace(ticker))
	if name == "" {
		name = "ANALYSIS"
	}
	stamp := time.Now().UTC().Format("20060102T150405")
	return filepath.Join(e.dir, fmt.Sprintf("%s_recommendation_%s.%s", name, stamp, ext))
}

// row is one label/value line of the flattened report.
type row struct {
	Section string
	Label   string
	Value   string
}

// flatten turns a recommendation result into ordered report rows shared by
// all three output formats.
func flatten(result *recommendation.Result) []row {
	rows := []row{
		{"Stock", "Ticker", result.StockInfo.Ticker},
		{"Stock", "Company", result.StockInfo.CompanyName},
		{"Stock", "Current Price", formatOptional(result.StockInfo.CurrentPrice)},
		{"Overall", "Score", fmt.Sprintf("%.1f", result.OverallScore)},
		{"Overall", "Recommendation", result.Recommendation},
		{"Overall", "Confidence", result.Confidence},
	}

	if f := result.FundamentalAnalysis; f != nil {
		rows = append(rows,
			row{"Fundamental", "Score", fmt.Sprintf("%.1f", f.OverallScore)},
			row{"Fundamental", "Recommendation", f.OverallRecommendation},
			row{"Fundamental", "Metrics Analyzed", fmt.Sprintf("%d", f.MetricsAnalyzed)},
		)
		for _, name := range fundamental.MetricOrder {
			m, ok := f.Metrics[name]
			if !ok {
				continue
			}
			rows = append(rows, row{
				Section: "Fundamental",
				Label:   strings.ToUpper(name),
				Value:   fmt.Sprintf("%s (%.0f) - %s", formatOptional(m.Value), m.Score, m.Rating),
			})
		}
	}

	t := result.TechnicalAnalysis
	rows = append(rows,
		row{"Technical", "Score", fmt.Sprintf("%.1f", t.OverallScore)},
		row{"Technical", "Signal", t.OverallSignal},
		row{"Technical", "Recommendation", t.OverallRecommendation},
	)
	if d := t.Detail; d != nil {
		rows = append(rows,
			row{"Technical", "RSI", fmt.Sprintf("%s (%s)", formatOptional(d.RSI.RSI), d.RSI.Signal)},
			row{"Technical", "MACD", fmt.Sprintf("%s (%s)", formatOptional(d.MACD.MACD), d.MACD.Signal)},
			row{"Technical", "Moving Averages", d.MovingAverages.Signal},
			row{"Technical", "Bollinger Bands", d.Bollinger.Signal},
			row{"Technical", "Stochastic", d.Stochastic.Signal},
		)
		if d.Volume != nil {
			rows = append(rows, row{"Technical", "Volume", d.Volume.VolumeTrend})
		}
	}

	r := result.RiskAssessment
	rows = append(rows,
		row{"Risk", "Score", fmt.Sprintf("%.1f", r.RiskScore)},
		row{"Risk", "Level", r.RiskLevel},
		row{"Risk", "Interpretation", r.RiskInterpretation},
	)
	for _, factor := range r.RiskFactors {
		rows = append(rows, row{"Risk", "Factor", factor})
	}

	for _, item := range result.KeyStrengths {
		rows = append(rows, row{"Insights", "Strength", item})
	}
	for _, item := range result.KeyConcerns {
		rows = append(rows, row{"Insights", "Concern", item})
	}
	for _, item := range result.ActionItems {
		rows = append(rows, row{"Insights", "Action", item})
	}

	return rows
}

func formatOptional(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *v)
}
