package fundamental

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankastocks/cse-analyzer/internal/config"
	"github.com/lankastocks/cse-analyzer/internal/domain"
)

func newAnalyzer() *Analyzer {
	return New(config.DefaultAnalysis())
}

func TestPERatio(t *testing.T) {
	analyzer := newAnalyzer()

	tests := []struct {
		name       string
		price      float64
		eps        float64
		wantScore  float64
		wantRating string
	}{
		{"deeply undervalued", 100, 10, 100, "Excellent"}, // P/E 10
		{"fairly valued", 150, 10, 70, "Fair"},            // P/E 15
		{"slightly overvalued", 200, 10, 50, "Fair"},      // P/E 20
		{"overvalued", 300, 10, 25, "Poor"},               // P/E 30
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := analyzer.PERatio(tt.price, tt.eps)
			require.NoError(t, err)

			assert.Equal(t, tt.wantScore, m.Score)
			assert.Equal(t, tt.wantRating, m.Rating)
			require.NotNil(t, m.Value)
			assert.InDelta(t, tt.price/tt.eps, *m.Value, 0.001)
		})
	}
}

func TestPERatio_NegativeEarnings(t *testing.T) {
	m, err := newAnalyzer().PERatio(100, -5)
	require.NoError(t, err)

	assert.Nil(t, m.Value)
	assert.Zero(t, m.Score)
	assert.Equal(t, "Poor", m.Rating)
}

func TestPERatio_InvalidPrice(t *testing.T) {
	_, err := newAnalyzer().PERatio(0, 10)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestROE(t *testing.T) {
	analyzer := newAnalyzer()

	tests := []struct {
		name      string
		netIncome float64
		equity    float64
		wantScore float64
	}{
		{"excellent returns", 25, 100, 100},  // 25%
		{"good returns", 17, 100, 85},        // 17%
		{"acceptable returns", 12, 100, 65},  // 12%
		{"below average", 7, 100, 40},        // 7%
		{"poor returns", 2, 100, 20},         // 2%
		{"unprofitable scores zero", -5, 100, 0},
		{"negative equity scores zero", 10, -50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := analyzer.ROE(tt.netIncome, tt.equity)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, m.Score)
		})
	}
}

func TestDebtToEquity_ZeroDebtIsValid(t *testing.T) {
	m, err := newAnalyzer().DebtToEquity(0, 100)
	require.NoError(t, err)

	assert.Equal(t, 100.0, m.Score)
	require.NotNil(t, m.Value)
	assert.Zero(t, *m.Value)
}

func TestEarningsGrowth(t *testing.T) {
	analyzer := newAnalyzer()

	tests := []struct {
		name      string
		current   float64
		previous  float64
		wantScore float64
	}{
		{"excellent growth", 12.5, 10, 100}, // +25%
		{"good growth", 11.5, 10, 85},       // +15%
		{"moderate growth", 10.7, 10, 70},   // +7%
		{"slow growth", 10.2, 10, 55},       // +2%
		{"declining earnings", 9, 10, 25},
		{"no prior earnings", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := analyzer.EarningsGrowth(tt.current, tt.previous)
			assert.Equal(t, tt.wantScore, m.Score)
		})
	}
}

func TestDividendYield(t *testing.T) {
	analyzer := newAnalyzer()

	tests := []struct {
		name      string
		dividend  float64
		price     float64
		wantScore float64
	}{
		{"high yield", 6, 100, 90},     // 6%
		{"good yield", 4, 100, 80},     // 4%
		{"moderate yield", 2, 100, 65}, // 2%
		{"low yield", 1, 100, 50},      // 1%
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := analyzer.DividendYield(tt.dividend, tt.price)
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, m.Score)
		})
	}
}

func TestDividendYield_ZeroDividendIsNeutral(t *testing.T) {
	m, err := newAnalyzer().DividendYield(0, 100)
	require.NoError(t, err)

	assert.Equal(t, 50.0, m.Score)
	require.NotNil(t, m.Value)
	assert.Zero(t, *m.Value)
}

func TestComprehensiveAnalysis(t *testing.T) {
	analyzer := newAnalyzer()

	stock := &domain.StockFinancials{
		Ticker:             "LIOC",
		Price:              domain.Float(100),
		EPS:                domain.Float(10),
		BookValuePerShare:  domain.Float(120),
		NetIncome:          domain.Float(25),
		ShareholdersEquity: domain.Float(100),
		TotalDebt:          domain.Float(30),
		CurrentAssets:      domain.Float(250),
		CurrentLiabilities: domain.Float(100),
		PreviousEPS:        domain.Float(8),
		AnnualDividend:     domain.Float(6),
	}

	result, err := analyzer.ComprehensiveAnalysis(stock)
	require.NoError(t, err)

	assert.Equal(t, 7, result.MetricsAnalyzed)
	// Every ratio lands in its best band: (100+100+100+100+100+100+90)/7
	assert.InDelta(t, 98.57, result.OverallScore, 0.01)
	assert.Contains(t, result.OverallRecommendation, "STRONG BUY")

	for _, name := range MetricOrder {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("expected metric %s in result", name)
		}
	}
}

func TestComprehensiveAnalysis_PartialData(t *testing.T) {
	analyzer := newAnalyzer()

	stock := &domain.StockFinancials{
		Price: domain.Float(100),
		EPS:   domain.Float(10),
	}

	result, err := analyzer.ComprehensiveAnalysis(stock)
	require.NoError(t, err)

	assert.Equal(t, 1, result.MetricsAnalyzed)
	assert.Equal(t, 100.0, result.OverallScore)
	_, hasPE := result.Metrics["pe_ratio"]
	assert.True(t, hasPE)
}

func TestComprehensiveAnalysis_NoData(t *testing.T) {
	result, err := newAnalyzer().ComprehensiveAnalysis(&domain.StockFinancials{})
	require.NoError(t, err)

	assert.Zero(t, result.MetricsAnalyzed)
	assert.Zero(t, result.OverallScore)
	assert.Contains(t, result.OverallRecommendation, "SELL")
}
