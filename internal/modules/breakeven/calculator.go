// Package breakeven solves for the minimum sale price that recovers an
// investment net of CSE fees, with or without capital gains tax. The
// tax-inclusive case has no closed form because the tax depends on the
// profit at the very price being solved for, so it is found by bounded
// fixed-point iteration.
package breakeven

import (
	"fmt"
	"math"

	"github.com/lankastocks/cse-analyzer/internal/config"
	"github.com/lankastocks/cse-analyzer/internal/domain"
	"github.com/lankastocks/cse-analyzer/internal/modules/fees"
)

const (
	// MaxIterations bounds the tax-inclusive fixed-point solve. Realistic
	// fee and tax magnitudes converge in 2-3 iterations.
	MaxIterations = 20

	// ConvergenceTolerance is the absolute net-profit tolerance, in LKR, at
	// which the solve is considered converged.
	ConvergenceTolerance = 0.01
)

// Calculator solves break-even, target-price and profit-at-price questions
// for a stock position.
type Calculator struct {
	fees *fees.Calculator
	cfg  *config.Analysis
}

// New creates a break-even calculator bound to an analysis configuration.
func New(cfg *config.Analysis) *Calculator {
	return &Calculator{
		fees: fees.New(cfg),
		cfg:  cfg,
	}
}

// Result is the break-even analysis breakdown. GrossProfit, CapitalGainsTax
// and NetProfitAfterTax are only populated when tax was included.
type Result struct {
	BuyPrice                float64 `json:"buy_price"`
	Quantity                float64 `json:"quantity"`
	TotalInvestment         float64 `json:"total_investment"`
	BuyFeesPaid             float64 `json:"buy_fees_paid"`
	BreakevenPrice          float64 `json:"breakeven_price"`
	SellValueAtBreakeven    float64 `json:"sell_value_at_breakeven"`
	SellFeesAtBreakeven     float64 `json:"sell_fees_at_breakeven"`
	NetProceeds             float64 `json:"net_proceeds"`
	ProfitAtBreakeven       float64 `json:"profit_at_breakeven"`
	GrossProfit             float64 `json:"gross_profit,omitempty"`
	CapitalGainsTax         float64 `json:"capital_gains_tax,omitempty"`
	NetProfitAfterTax       float64 `json:"net_profit_after_tax,omitempty"`
	PriceIncreaseRequired   float64 `json:"price_increase_required"`
	PriceIncreasePercentage float64 `json:"price_increase_percentage"`
	IncludesCapitalGainsTax bool    `json:"includes_capital_gains_tax"`
	Converged               bool    `json:"converged"`
}

// TargetResult is the analysis of the sale price needed for a target profit.
type TargetResult struct {
	BuyPrice                float64 `json:"buy_price"`
	Quantity                float64 `json:"quantity"`
	TotalInvestment         float64 `json:"total_investment"`
	TargetProfitPercentage  float64 `json:"target_profit_percentage"`
	TargetProfitAmount      float64 `json:"target_profit_amount"`
	TargetSellPrice         float64 `json:"target_sell_price"`
	BreakevenPrice          float64 `json:"breakeven_price"`
	PriceIncreaseFromBuy    float64 `json:"price_increase_from_buy"`
	PriceIncreasePercentage float64 `json:"price_increase_percentage"`
	PriceAboveBreakeven     float64 `json:"price_above_breakeven"`
	SellFees                float64 `json:"sell_fees"`
	GrossProfit             float64 `json:"gross_profit"`
	CapitalGainsTax         float64 `json:"capital_gains_tax"`
	NetProfit               float64 `json:"net_profit"`
	ActualProfitPercentage  float64 `json:"actual_profit_percentage"`
	IncludesCapitalGainsTax bool    `json:"includes_capital_gains_tax"`
}

// ProfitResult is the profit/loss analysis at a given sale price.
type ProfitResult struct {
	BuyPrice                float64 `json:"buy_price"`
	SellPrice               float64 `json:"sell_price"`
	Quantity                float64 `json:"quantity"`
	TotalInvestment         float64 `json:"total_investment"`
	TotalFees               float64 `json:"total_fees"`
	GrossProfit             float64 `json:"gross_profit"`
	CapitalGainsTax         float64 `json:"capital_gains_tax"`
	NetProfit               float64 `json:"net_profit"`
	ProfitPercentage        float64 `json:"profit_percentage"`
	BreakevenPrice          float64 `json:"breakeven_price"`
	AboveBreakeven          bool    `json:"above_breakeven"`
	PriceVsBreakeven        float64 `json:"price_vs_breakeven"`
	IncludesCapitalGainsTax bool    `json:"includes_capital_gains_tax"`
}

// BreakevenPrice calculates the minimum sale price per share at which the
// position neither gains nor loses after all fees and, optionally, capital
// gains tax.
func (c *Calculator) BreakevenPrice(buyPrice, quantity float64, includeTax bool) (*Result, error) {
	if err := domain.ValidatePositive(buyPrice, "buy price"); err != nil {
		return nil, err
	}
	if err := domain.ValidatePositive(quantity, "quantity"); err != nil {
		return nil, err
	}

	buyValue := buyPrice * quantity
	buyFees, err := c.fees.CalculateBuyFees(buyValue)
	if err != nil {
		return nil, err
	}
	totalInvestment := buyFees.TotalCost

	// Tier is chosen from the buy value; the sale at break-even lands in
	// the same bracket for any realistic fee structure.
	sellFeeRate := c.fees.SellFeeRate(buyValue)
	if sellFeeRate >= 1.0 {
		return nil, fmt.Errorf("%w: total selling fee rate (%.2f%%) is too high, break-even is impossible",
			domain.ErrComputation, sellFeeRate*100)
	}

	// Closed form ignoring tax:
	// sellPrice * quantity * (1 - sellFeeRate) = totalInvestment
	estimate := totalInvestment / (quantity * (1 - sellFeeRate))

	if !includeTax {
		sellFees, err := c.fees.CalculateSellFees(estimate * quantity)
		if err != nil {
			return nil, err
		}

		return &Result{
			BuyPrice:                buyPrice,
			Quantity:                quantity,
			TotalInvestment:         totalInvestment,
			BuyFeesPaid:             buyFees.TotalFees,
			BreakevenPrice:          estimate,
			SellValueAtBreakeven:    estimate * quantity,
			SellFeesAtBreakeven:     sellFees.TotalFees,
			NetProceeds:             sellFees.NetProceeds,
			ProfitAtBreakeven:       sellFees.NetProceeds - totalInvestment,
			PriceIncreaseRequired:   estimate - buyPrice,
			PriceIncreasePercentage: (estimate - buyPrice) / buyPrice,
			IncludesCapitalGainsTax: false,
			Converged:               true,
		}, nil
	}

	// Tax applies to the profit, and the profit depends on the price being
	// solved for. Refine the no-tax estimate until the implied net profit
	// is within tolerance of zero. The loop is a contraction (tax rate x
	// fee adjustment < 1), so the cap is a safety bound, not a limit hit
	// in practice.
	taxRate := c.cfg.Taxes.CapitalGains
	converged := false

	for i := 0; i < MaxIterations; i++ {
		sellFees, err := c.fees.CalculateSellFees(estimate * quantity)
		if err != nil {
			return nil, err
		}
		grossProfit := sellFees.NetProceeds - totalInvestment

		if grossProfit <= 0 {
			// No profit means no tax; already at equilibrium.
			converged = true
			break
		}

		tax := grossProfit * taxRate
		netProfit := grossProfit - tax

		if math.Abs(netProfit) < ConvergenceTolerance {
			converged = true
			break
		}

		// Raise the estimate just enough to cover the tax.
		estimate += tax / quantity / (1 - sellFeeRate)
	}

	sellValue := estimate * quantity
	sellFees, err := c.fees.CalculateSellFees(sellValue)
	if err != nil {
		return nil, err
	}
	grossProfit := sellFees.NetProceeds - totalInvestment
	taxDetail := c.fees.CalculateCapitalGainsTax(grossProfit)

	return &Result{
		BuyPrice:                buyPrice,
		Quantity:                quantity,
		TotalInvestment:         totalInvestment,
		BuyFeesPaid:             buyFees.TotalFees,
		BreakevenPrice:          estimate,
		SellValueAtBreakeven:    sellValue,
		SellFeesAtBreakeven:     sellFees.TotalFees,
		NetProceeds:             sellFees.NetProceeds,
		ProfitAtBreakeven:       taxDetail.NetProfitAfterTax,
		GrossProfit:             grossProfit,
		CapitalGainsTax:         taxDetail.TaxAmount,
		NetProfitAfterTax:       taxDetail.NetProfitAfterTax,
		PriceIncreaseRequired:   estimate - buyPrice,
		PriceIncreasePercentage: (estimate - buyPrice) / buyPrice,
		IncludesCapitalGainsTax: true,
		Converged:               converged,
	}, nil
}

// TargetPrice calculates the sale price needed to realize a target profit
// percentage on the total investment. With tax included the required gross
// profit is grossed up by 1/(1-taxRate) before back-solving the price.
func (c *Calculator) TargetPrice(buyPrice, quantity, targetProfitPct float64, includeTax bool) (*TargetResult, error) {
	if err := domain.ValidatePositive(buyPrice, "buy price"); err != nil {
		return nil, err
	}
	if err := domain.ValidatePositive(quantity, "quantity"); err != nil {
		return nil, err
	}
	if err := domain.ValidatePositive(targetProfitPct, "target profit percentage"); err != nil {
		return nil, err
	}

	breakeven, err := c.BreakevenPrice(buyPrice, quantity, includeTax)
	if err != nil {
		return nil, err
	}

	totalInvestment := breakeven.TotalInvestment
	requiredNetProfit := totalInvestment * (targetProfitPct / 100)

	requiredGrossProfit := requiredNetProfit
	if includeTax && requiredNetProfit > 0 {
		requiredGrossProfit = requiredNetProfit / (1 - c.cfg.Taxes.CapitalGains)
	}

	requiredNetProceeds := totalInvestment + requiredGrossProfit

	// Back-solve the price from the sell-fee rate of the proceeds tier.
	sellFeeRate := c.fees.SellFeeRate(requiredNetProceeds)
	if sellFeeRate >= 1.0 {
		return nil, fmt.Errorf("%w: total selling fee rate (%.2f%%) is too high, target price is impossible",
			domain.ErrComputation, sellFeeRate*100)
	}
	targetSellPrice := requiredNetProceeds / (quantity * (1 - sellFeeRate))

	// Numerical consistency check: recompute actual fees and profit from
	// the derived price.
	sellFees, err := c.fees.CalculateSellFees(targetSellPrice * quantity)
	if err != nil {
		return nil, err
	}
	actualGrossProfit := sellFees.NetProceeds - totalInvestment

	actualNetProfit := actualGrossProfit
	actualTax := 0.0
	if includeTax {
		taxDetail := c.fees.CalculateCapitalGainsTax(actualGrossProfit)
		actualNetProfit = taxDetail.NetProfitAfterTax
		actualTax = taxDetail.TaxAmount
	}

	return &TargetResult{
		BuyPrice:                buyPrice,
		Quantity:                quantity,
		TotalInvestment:         totalInvestment,
		TargetProfitPercentage:  targetProfitPct,
		TargetProfitAmount:      requiredNetProfit,
		TargetSellPrice:         targetSellPrice,
		BreakevenPrice:          breakeven.BreakevenPrice,
		PriceIncreaseFromBuy:    targetSellPrice - buyPrice,
		PriceIncreasePercentage: (targetSellPrice - buyPrice) / buyPrice,
		PriceAboveBreakeven:     targetSellPrice - breakeven.BreakevenPrice,
		SellFees:                sellFees.TotalFees,
		GrossProfit:             actualGrossProfit,
		CapitalGainsTax:         actualTax,
		NetProfit:               actualNetProfit,
		ActualProfitPercentage:  actualNetProfit / totalInvestment * 100,
		IncludesCapitalGainsTax: includeTax,
	}, nil
}

// ProfitAtPrice calculates the profit or loss when selling at a specific
// price, alongside the break-even price for comparison.
func (c *Calculator) ProfitAtPrice(buyPrice, sellPrice, quantity float64, includeTax bool) (*ProfitResult, error) {
	if err := domain.ValidatePositive(buyPrice, "buy price"); err != nil {
		return nil, err
	}
	if err := domain.ValidatePositive(sellPrice, "sell price"); err != nil {
		return nil, err
	}
	if err := domain.ValidatePositive(quantity, "quantity"); err != nil {
		return nil, err
	}

	roundTrip, err := c.fees.CalculateRoundTripCost(buyPrice, sellPrice, quantity)
	if err != nil {
		return nil, err
	}

	breakeven, err := c.BreakevenPrice(buyPrice, quantity, includeTax)
	if err != nil {
		return nil, err
	}

	netProfit := roundTrip.GrossProfit
	if includeTax {
		netProfit = roundTrip.NetProfit
	}

	return &ProfitResult{
		BuyPrice:                buyPrice,
		SellPrice:               sellPrice,
		Quantity:                quantity,
		TotalInvestment:         roundTrip.BuyFees.TotalCost,
		TotalFees:               roundTrip.TotalFees,
		GrossProfit:             roundTrip.GrossProfit,
		CapitalGainsTax:         roundTrip.CapitalGainsTax.TaxAmount,
		NetProfit:               netProfit,
		ProfitPercentage:        netProfit / roundTrip.BuyFees.TotalCost,
		BreakevenPrice:          breakeven.BreakevenPrice,
		AboveBreakeven:          sellPrice >= breakeven.BreakevenPrice,
		PriceVsBreakeven:        sellPrice - breakeven.BreakevenPrice,
		IncludesCapitalGainsTax: includeTax,
	}, nil
}
