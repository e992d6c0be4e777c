package breakeven

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankastocks/cse-analyzer/internal/config"
	"github.com/lankastocks/cse-analyzer/internal/domain"
)

func newCalculator() *Calculator {
	return New(config.DefaultAnalysis())
}

func TestBreakevenPrice_NoTax(t *testing.T) {
	calc := newCalculator()

	result, err := calc.BreakevenPrice(100, 1000, false)
	require.NoError(t, err)

	// investment 100,820; sell fee rate 1.12%; 100820 / (1000 * 0.9888)
	assert.InDelta(t, 101.96, result.BreakevenPrice, 0.01)
	assert.Greater(t, result.BreakevenPrice, result.BuyPrice)
	assert.InDelta(t, 0, result.ProfitAtBreakeven, 0.01)
	assert.True(t, result.Converged)
	assert.False(t, result.IncludesCapitalGainsTax)
}

func TestBreakevenPrice_WithTax(t *testing.T) {
	calc := newCalculator()

	withTax, err := calc.BreakevenPrice(100, 1000, true)
	require.NoError(t, err)
	noTax, err := calc.BreakevenPrice(100, 1000, false)
	require.NoError(t, err)

	// At break-even there is no gain to tax, so the prices coincide; the
	// tax-inclusive price can never be lower.
	assert.GreaterOrEqual(t, withTax.BreakevenPrice, noTax.BreakevenPrice-0.001)
	assert.Greater(t, withTax.BreakevenPrice, 101.5)
	assert.Less(t, withTax.BreakevenPrice, 103.5)
	assert.True(t, withTax.Converged)
	assert.True(t, withTax.IncludesCapitalGainsTax)
	assert.InDelta(t, 0, withTax.NetProfitAfterTax, ConvergenceTolerance)
}

func TestBreakevenPrice_MinimumCommissionDominatesSmallTrades(t *testing.T) {
	calc := newCalculator()

	result, err := calc.BreakevenPrice(100, 10, false)
	require.NoError(t, err)

	// LKR 100 minimum commission on a LKR 1,000 trade forces a much higher
	// break-even than the percentage rates alone would.
	assert.Greater(t, result.BreakevenPrice, 110.0)
}

func TestBreakevenPrice_InvalidInput(t *testing.T) {
	calc := newCalculator()

	tests := []struct {
		name     string
		buyPrice float64
		quantity float64
	}{
		{"zero price", 0, 100},
		{"negative price", -10, 100},
		{"zero quantity", 100, 0},
		{"negative quantity", 100, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.BreakevenPrice(tt.buyPrice, tt.quantity, true)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestBreakevenPrice_ImpossibleFeeRate(t *testing.T) {
	cfg := config.DefaultAnalysis()
	cfg.Fees.Tier1.BrokerCommission = 0.99
	cfg.Fees.Tier1.STLTax = 0.05

	_, err := New(cfg).BreakevenPrice(100, 1000, false)
	if !errors.Is(err, domain.ErrComputation) {
		t.Fatalf("expected ErrComputation, got %v", err)
	}
}

func TestTargetPrice(t *testing.T) {
	calc := newCalculator()

	result, err := calc.TargetPrice(100, 1000, 10, true)
	require.NoError(t, err)

	assert.Greater(t, result.TargetSellPrice, result.BreakevenPrice)
	assert.Positive(t, result.PriceAboveBreakeven)
	// The derived price must actually deliver the requested net profit.
	assert.InDelta(t, 10, result.ActualProfitPercentage, 0.1)
	assert.InDelta(t, result.TotalInvestment*0.10, result.NetProfit, result.TotalInvestment*0.001)
}

func TestTargetPrice_NoTaxNeedsLowerPrice(t *testing.T) {
	calc := newCalculator()

	withTax, err := calc.TargetPrice(100, 1000, 10, true)
	require.NoError(t, err)
	noTax, err := calc.TargetPrice(100, 1000, 10, false)
	require.NoError(t, err)

	assert.Greater(t, withTax.TargetSellPrice, noTax.TargetSellPrice)
}

func TestTargetPrice_InvalidTarget(t *testing.T) {
	calc := newCalculator()

	_, err := calc.TargetPrice(100, 1000, 0, true)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProfitAtPrice(t *testing.T) {
	calc := newCalculator()

	tests := []struct {
		name           string
		sellPrice      float64
		wantProfitable bool
	}{
		{"well above break-even", 110, true},
		{"below break-even", 101, false},
		{"at a loss", 95, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.ProfitAtPrice(100, tt.sellPrice, 1000, true)
			require.NoError(t, err)

			assert.Equal(t, tt.wantProfitable, result.AboveBreakeven)
			if tt.wantProfitable {
				assert.Positive(t, result.NetProfit)
			} else {
				assert.Negative(t, result.NetProfit)
			}
		})
	}
}

func TestProfitAtPrice_TaxReducesProfit(t *testing.T) {
	calc := newCalculator()

	withTax, err := calc.ProfitAtPrice(100, 120, 1000, true)
	require.NoError(t, err)
	noTax, err := calc.ProfitAtPrice(100, 120, 1000, false)
	require.NoError(t, err)

	assert.Less(t, withTax.NetProfit, noTax.NetProfit)
	assert.Positive(t, withTax.CapitalGainsTax)
}
