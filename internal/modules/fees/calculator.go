// Package fees implements the CSE trading fee schedule: tiered rate lookup,
// buy/sell fee breakdowns, capital gains tax and round-trip cost composition.
package fees

import (
	"fmt"

	"github.com/lankastocks/cse-analyzer/internal/config"
	"github.com/lankastocks/cse-analyzer/internal/domain"
)

// Calculator computes CSE trading fees and taxes. All methods are pure; the
// injected configuration is read-only.
type Calculator struct {
	cfg *config.Analysis
}

// New creates a fee calculator bound to an analysis configuration.
func New(cfg *config.Analysis) *Calculator {
	return &Calculator{cfg: cfg}
}

// Rates returns the fee tier for a transaction value. The tier-1 boundary is
// inclusive: a value exactly at the tier-1 maximum stays in tier 1.
func (c *Calculator) Rates(transactionValue float64) config.FeeTier {
	if transactionValue <= c.cfg.Fees.Tier1.MaxValue {
		return c.cfg.Fees.Tier1
	}
	return c.cfg.Fees.Tier2
}

// SellFeeRate returns the combined sell-side fee rate for the tier selected
// by the transaction value, including the sell-only STL levy.
func (c *Calculator) SellFeeRate(transactionValue float64) float64 {
	tier := c.Rates(transactionValue)
	return tier.BrokerCommission + tier.SECFee + tier.CSEFee + tier.CDSFee + tier.STLTax
}

// BuyFees is the breakdown of buy-side charges on a transaction.
type BuyFees struct {
	TransactionValue float64 `json:"transaction_value"`
	BrokerCommission float64 `json:"broker_commission"`
	SECFee           float64 `json:"sec_fee"`
	CSEFee           float64 `json:"cse_fee"`
	CDSFee           float64 `json:"cds_fee"`
	TotalFees        float64 `json:"total_fees"`
	TotalCost        float64 `json:"total_cost"`
	EffectiveRate    float64 `json:"effective_rate"`
	Tier             string  `json:"tier"`
}

// SellFees is the breakdown of sell-side charges, including the STL levy
// that applies only when selling.
type SellFees struct {
	TransactionValue float64 `json:"transaction_value"`
	BrokerCommission float64 `json:"broker_commission"`
	SECFee           float64 `json:"sec_fee"`
	CSEFee           float64 `json:"cse_fee"`
	CDSFee           float64 `json:"cds_fee"`
	STLTax           float64 `json:"stl_tax"`
	TotalFees        float64 `json:"total_fees"`
	NetProceeds      float64 `json:"net_proceeds"`
	EffectiveRate    float64 `json:"effective_rate"`
	Tier             string  `json:"tier"`
}

// TaxDetail is the capital gains tax on a realized gain. Losses carry zero
// tax and pass through unchanged.
type TaxDetail struct {
	CapitalGain       float64 `json:"capital_gain"`
	TaxRate           float64 `json:"tax_rate"`
	TaxAmount         float64 `json:"tax_amount"`
	NetProfitAfterTax float64 `json:"net_profit_after_tax"`
}

// RoundTrip is the complete cost picture of a buy followed by a sell.
type RoundTrip struct {
	BuyPrice            float64   `json:"buy_price"`
	SellPrice           float64   `json:"sell_price"`
	Quantity            float64   `json:"quantity"`
	BuyValue            float64   `json:"buy_value"`
	BuyFees             BuyFees   `json:"buy_fees"`
	SellValue           float64   `json:"sell_value"`
	SellFees            SellFees  `json:"sell_fees"`
	TotalFees           float64   `json:"total_fees"`
	GrossProfit         float64   `json:"gross_profit"`
	CapitalGainsTax     TaxDetail `json:"capital_gains_tax"`
	NetProfit           float64   `json:"net_profit"`
	TotalCostPercentage float64   `json:"total_cost_percentage"`
}

// CalculateBuyFees computes all buy-side charges on a transaction value.
// Broker commission is floored at the configured minimum.
func (c *Calculator) CalculateBuyFees(transactionValue float64) (*BuyFees, error) {
	if err := domain.ValidatePositive(transactionValue, "transaction value"); err != nil {
		return nil, err
	}

	rates := c.Rates(transactionValue)

	commission := transactionValue * rates.BrokerCommission
	if commission < c.cfg.Fees.MinimumCommission {
		commission = c.cfg.Fees.MinimumCommission
	}

	secFee := transactionValue * rates.SECFee
	cseFee := transactionValue * rates.CSEFee
	cdsFee := transactionValue * rates.CDSFee

	totalFees := commission + secFee + cseFee + cdsFee

	return &BuyFees{
		TransactionValue: transactionValue,
		BrokerCommission: commission,
		SECFee:           secFee,
		CSEFee:           cseFee,
		CDSFee:           cdsFee,
		TotalFees:        totalFees,
		TotalCost:        transactionValue + totalFees,
		EffectiveRate:    totalFees / transactionValue,
		Tier:             c.tierLabel(transactionValue),
	}, nil
}

// CalculateSellFees computes all sell-side charges on a transaction value,
// including the STL levy.
func (c *Calculator) CalculateSellFees(transactionValue float64) (*SellFees, error) {
	if err := domain.ValidatePositive(transactionValue, "transaction value"); err != nil {
		return nil, err
	}

	rates := c.Rates(transactionValue)

	commission := transactionValue * rates.BrokerCommission
	if commission < c.cfg.Fees.MinimumCommission {
		commission = c.cfg.Fees.MinimumCommission
	}

	secFee := transactionValue * rates.SECFee
	cseFee := transactionValue * rates.CSEFee
	cdsFee := transactionValue * rates.CDSFee
	stlTax := transactionValue * rates.STLTax

	totalFees := commission + secFee + cseFee + cdsFee + stlTax

	return &SellFees{
		TransactionValue: transactionValue,
		BrokerCommission: commission,
		SECFee:           secFee,
		CSEFee:           cseFee,
		CDSFee:           cdsFee,
		STLTax:           stlTax,
		TotalFees:        totalFees,
		NetProceeds:      transactionValue - totalFees,
		EffectiveRate:    totalFees / transactionValue,
		Tier:             c.tierLabel(transactionValue),
	}, nil
}

// CalculateCapitalGainsTax computes capital gains tax on a realized gain.
// Gains at or below zero are never taxed.
func (c *Calculator) CalculateCapitalGainsTax(capitalGain float64) TaxDetail {
	if capitalGain <= 0 {
		return TaxDetail{
			CapitalGain:       capitalGain,
			NetProfitAfterTax: capitalGain,
		}
	}

	rate := c.cfg.Taxes.CapitalGains
	tax := capitalGain * rate

	return TaxDetail{
		CapitalGain:       capitalGain,
		TaxRate:           rate,
		TaxAmount:         tax,
		NetProfitAfterTax: capitalGain - tax,
	}
}

// CalculateRoundTripCost composes buy fees, sell fees and capital gains tax
// for a complete buy-sell cycle.
func (c *Calculator) CalculateRoundTripCost(buyPrice, sellPrice, quantity float64) (*RoundTrip, error) {
	if err := domain.ValidatePositive(buyPrice, "buy price"); err != nil {
		return nil, err
	}
	if err := domain.ValidatePositive(sellPrice, "sell price"); err != nil {
		return nil, err
	}
	if err := domain.ValidatePositive(quantity, "quantity"); err != nil {
		return nil, err
	}

	buyValue := buyPrice * quantity
	buyFees, err := c.CalculateBuyFees(buyValue)
	if err != nil {
		return nil, err
	}

	sellValue := sellPrice * quantity
	sellFees, err := c.CalculateSellFees(sellValue)
	if err != nil {
		return nil, err
	}

	grossProfit := sellFees.NetProceeds - buyFees.TotalCost
	taxDetail := c.CalculateCapitalGainsTax(grossProfit)

	return &RoundTrip{
		BuyPrice:            buyPrice,
		SellPrice:           sellPrice,
		Quantity:            quantity,
		BuyValue:            buyValue,
		BuyFees:             *buyFees,
		SellValue:           sellValue,
		SellFees:            *sellFees,
		TotalFees:           buyFees.TotalFees + sellFees.TotalFees,
		GrossProfit:         grossProfit,
		CapitalGainsTax:     taxDetail,
		NetProfit:           taxDetail.NetProfitAfterTax,
		TotalCostPercentage: (buyFees.TotalFees + sellFees.TotalFees) / buyValue * 100,
	}, nil
}

// Summary is a formatted snapshot of the configured fee structure, used by
// the display layers.
type Summary struct {
	Tier1Max          string `json:"tier_1_max"`
	Tier1Brokerage    string `json:"tier_1_brokerage"`
	Tier1Total        string `json:"tier_1_total"`
	Tier2Min          string `json:"tier_2_min"`
	Tier2Brokerage    string `json:"tier_2_brokerage"`
	Tier2Total        string `json:"tier_2_total"`
	STLTax            string `json:"stl_tax"`
	CapitalGainsTax   string `json:"capital_gains_tax"`
	MinimumCommission string `json:"minimum_commission"`
}

// FeeSummary returns the current fee structure formatted for display.
func (c *Calculator) FeeSummary() Summary {
	t1 := c.cfg.Fees.Tier1
	t2 := c.cfg.Fees.Tier2
	t1Total := t1.BrokerCommission + t1.SECFee + t1.CSEFee + t1.CDSFee
	t2Total := t2.BrokerCommission + t2.SECFee + t2.CSEFee + t2.CDSFee

	return Summary{
		Tier1Max:          fmt.Sprintf("LKR %.0f", t1.MaxValue),
		Tier1Brokerage:    fmt.Sprintf("%.3f%%", t1.BrokerCommission*100),
		Tier1Total:        fmt.Sprintf("%.3f%%", t1Total*100),
		Tier2Min:          fmt.Sprintf("LKR %.0f+", t2.MinValue),
		Tier2Brokerage:    fmt.Sprintf("%.3f%%", t2.BrokerCommission*100),
		Tier2Total:        fmt.Sprintf("%.3f%%", t2Total*100),
		STLTax:            fmt.Sprintf("%.2f%% (sell only)", t1.STLTax*100),
		CapitalGainsTax:   fmt.Sprintf("%.0f%%", c.cfg.Taxes.CapitalGains*100),
		MinimumCommission: fmt.Sprintf("LKR %.0f", c.cfg.Fees.MinimumCommission),
	}
}

func (c *Calculator) tierLabel(transactionValue float64) string {
	if transactionValue <= c.cfg.Fees.Tier1.MaxValue {
		return "Tier 1 (<= Rs. 100Mn)"
	}
	return "Tier 2 (> Rs. 100Mn)"
}
