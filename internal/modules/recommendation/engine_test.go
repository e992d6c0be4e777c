package recommendation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankastocks/cse-analyzer/internal/config"
	"github.com/lankastocks/cse-analyzer/internal/domain"
)

func newEngine() *Engine {
	return New(config.DefaultAnalysis())
}

func strongStock() *domain.StockFinancials {
	return &domain.StockFinancials{
		Ticker:             "LIOC",
		CompanyName:        "Lanka IOC PLC",
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
		Beta:               domain.Float(0.7),
		MarketCap:          domain.Float(50_000_000_000),
	}
}

func weakStock() *domain.StockFinancials {
	return &domain.StockFinancials{
		Ticker:             "WEAK",
		Price:              domain.Float(100),
		EPS:                domain.Float(2), // P/E 50
		BookValuePerShare:  domain.Float(20),
		NetIncome:          domain.Float(-5),
		ShareholdersEquity: domain.Float(100),
		TotalDebt:          domain.Float(250),
		CurrentAssets:      domain.Float(50),
		CurrentLiabilities: domain.Float(100),
		PreviousEPS:        domain.Float(4),
		Beta:               domain.Float(1.8),
	}
}

func TestRiskScore(t *testing.T) {
	engine := newEngine()

	t.Run("strong profile is low risk", func(t *testing.T) {
		stock := strongStock()
		stock.DeriveRatios()

		result := engine.RiskScore(stock)

		assert.Equal(t, 4, result.FactorsAnalyzed)
		assert.GreaterOrEqual(t, result.RiskScore, 75.0)
		assert.Equal(t, "LOW RISK", result.RiskLevel)
	})

	t.Run("no data defaults to neutral", func(t *testing.T) {
		result := engine.RiskScore(&domain.StockFinancials{})

		assert.Zero(t, result.FactorsAnalyzed)
		assert.Equal(t, 50.0, result.RiskScore)
		assert.Contains(t, result.RiskFactors, "Insufficient data for risk assessment")
	})

	t.Run("leveraged illiquid stock is high risk", func(t *testing.T) {
		stock := weakStock()
		stock.DeriveRatios()

		result := engine.RiskScore(stock)
		assert.Less(t, result.RiskScore, 45.0)
		assert.Equal(t, "HIGH RISK", result.RiskLevel)
	})
}

func TestGenerate_WeightedBlend(t *testing.T) {
	engine := newEngine()
	stock := strongStock()
	stock.DeriveRatios()

	result, err := engine.Generate(stock, nil, nil)
	require.NoError(t, err)

	// Without prices the technical placeholder is a flat 50.
	assert.Equal(t, 50.0, result.TechnicalAnalysis.OverallScore)
	assert.Nil(t, result.TechnicalAnalysis.Detail)

	expected := result.FundamentalAnalysis.OverallScore*0.60 +
		50*0.30 +
		result.RiskAssessment.RiskScore*0.10
	assert.InDelta(t, expected, result.OverallScore, 0.001)

	assert.Equal(t, "LIOC", result.StockInfo.Ticker)
	assert.NotEmpty(t, result.Recommendation)
	assert.NotEmpty(t, result.Confidence)
}

func TestGenerate_StrongStockIsABuy(t *testing.T) {
	engine := newEngine()
	stock := strongStock()
	stock.DeriveRatios()

	// A long uptrend keeps the technical score from dragging the blend down.
	prices := make([]float64, 250)
	for i := range prices {
		prices[i] = 50 + float64(i)/5
	}

	result, err := engine.Generate(stock, prices, nil)
	require.NoError(t, err)

	assert.NotNil(t, result.TechnicalAnalysis.Detail)
	assert.Contains(t, []string{"STRONG BUY", "BUY", "HOLD"}, result.Recommendation)
	assert.Contains(t, result.KeyStrengths, "Strong fundamental metrics")
}

func TestGenerate_WeakStockRaisesConcerns(t *testing.T) {
	engine := newEngine()
	stock := weakStock()
	stock.DeriveRatios()

	result, err := engine.Generate(stock, nil, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, result.KeyConcerns)
	assert.LessOrEqual(t, len(result.KeyConcerns), 5)
	assert.LessOrEqual(t, len(result.KeyStrengths), 5)
	assert.LessOrEqual(t, len(result.ActionItems), 5)
	assert.Contains(t, []string{"SELL", "STRONG SELL", "HOLD"}, result.Recommendation)
}

func TestCompareToBreakeven(t *testing.T) {
	engine := newEngine()

	t.Run("profitable position", func(t *testing.T) {
		stock := strongStock()
		stock.Price = domain.Float(130)

		result, err := engine.CompareToBreakeven(stock, 100, 1000)
		require.NoError(t, err)

		assert.Equal(t, "PROFITABLE", result.PositionStatus)
		assert.Positive(t, result.CurrentProfitLoss)
		assert.Greater(t, result.BreakevenPrice, 100.0)
		assert.Contains(t, result.PositionRecommendation, "profits")
	})

	t.Run("losing position", func(t *testing.T) {
		stock := strongStock()
		stock.Price = domain.Float(80)

		result, err := engine.CompareToBreakeven(stock, 100, 1000)
		require.NoError(t, err)

		assert.Equal(t, "LOSS", result.PositionStatus)
		assert.Negative(t, result.CurrentProfitLoss)
	})

	t.Run("missing price is invalid", func(t *testing.T) {
		stock := strongStock()
		stock.Price = nil

		_, err := engine.CompareToBreakeven(stock, 100, 1000)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestEntryPrice(t *testing.T) {
	engine := newEngine()

	t.Run("strong stock enters at current price", func(t *testing.T) {
		stock := strongStock()
		stock.DeriveRatios()

		result, err := engine.EntryPrice(stock, 10)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, result.OverallScore, 70.0)
		assert.Equal(t, 100.0, result.IdealEntryPrice)
		assert.InDelta(t, 105.0, result.MaxEntryPrice, 0.001)
	})

	t.Run("weak stock needs a discount", func(t *testing.T) {
		stock := weakStock()
		stock.DeriveRatios()

		result, err := engine.EntryPrice(stock, 10)
		require.NoError(t, err)

		assert.Less(t, result.IdealEntryPrice, 100.0)
		assert.Less(t, result.MaxEntryPrice, 100.0)
	})

	t.Run("missing price is invalid", func(t *testing.T) {
		stock := strongStock()
		stock.Price = nil

		_, err := engine.EntryPrice(stock, 10)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}
