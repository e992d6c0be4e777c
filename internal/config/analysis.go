package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Analysis holds every tunable of the analysis engine: CSE fee tiers, tax
// rates, scoring thresholds and aggregation weights. It is loaded once at
// startup and must be treated as read-only afterwards; components receive it
// by injection and never reload it. Hot reloading means building a new
// Analysis and swapping the pointer, not mutating in place.
type Analysis struct {
	Fees       Fees       `yaml:"cse_fees"`
	Taxes      Taxes      `yaml:"taxes"`
	Thresholds Thresholds `yaml:"thresholds"`
}

// FeeTier holds the percentage rates for one transaction-value bracket.
type FeeTier struct {
	MaxValue         float64 `yaml:"max_value,omitempty"`
	MinValue         float64 `yaml:"min_value,omitempty"`
	BrokerCommission float64 `yaml:"broker_commission"`
	SECFee           float64 `yaml:"sec_fee"`
	CSEFee           float64 `yaml:"cse_fee"`
	CDSFee           float64 `yaml:"cds_fee"`
	STLTax           float64 `yaml:"stl_tax"` // share transaction levy, sell side only
}

// Fees holds the tiered CSE fee schedule.
type Fees struct {
	Tier1             FeeTier `yaml:"tier_1"`
	Tier2             FeeTier `yaml:"tier_2"`
	MinimumCommission float64 `yaml:"minimum_commission"`
}

// Taxes holds the flat tax rates.
type Taxes struct {
	CapitalGains        float64 `yaml:"capital_gains_tax"`
	DividendWithholding float64 `yaml:"dividend_withholding"`
}

// PEThresholds are the P/E ratio scoring cut points, ascending.
type PEThresholds struct {
	Undervalued  float64 `yaml:"undervalued"`
	FairValueMin float64 `yaml:"fair_value_min"`
	FairValueMax float64 `yaml:"fair_value_max"`
	Overvalued   float64 `yaml:"overvalued"`
}

// PBThresholds are the P/B ratio scoring cut points, ascending.
type PBThresholds struct {
	Undervalued float64 `yaml:"undervalued"`
	FairValue   float64 `yaml:"fair_value"`
	Overvalued  float64 `yaml:"overvalued"`
}

// ROEThresholds are the return-on-equity cut points, descending quality.
type ROEThresholds struct {
	Excellent  float64 `yaml:"excellent"`
	Good       float64 `yaml:"good"`
	Acceptable float64 `yaml:"acceptable"`
	Poor       float64 `yaml:"poor"`
}

// DebtEquityThresholds are the leverage cut points, ascending risk.
type DebtEquityThresholds struct {
	Conservative float64 `yaml:"conservative"`
	Moderate     float64 `yaml:"moderate"`
	Aggressive   float64 `yaml:"aggressive"`
	Risky        float64 `yaml:"risky"`
}

// CurrentRatioThresholds are the liquidity cut points, descending quality.
type CurrentRatioThresholds struct {
	Strong     float64 `yaml:"strong"`
	Adequate   float64 `yaml:"adequate"`
	Concerning float64 `yaml:"concerning"`
}

// GrowthThresholds are the earnings-growth cut points, descending quality.
type GrowthThresholds struct {
	Excellent float64 `yaml:"excellent"`
	Good      float64 `yaml:"good"`
	Moderate  float64 `yaml:"moderate"`
}

// RSIThresholds are the RSI band boundaries, ascending.
type RSIThresholds struct {
	Oversold    float64 `yaml:"oversold"`
	NeutralLow  float64 `yaml:"neutral_low"`
	NeutralHigh float64 `yaml:"neutral_high"`
	Overbought  float64 `yaml:"overbought"`
}

// Weights blends the three component scores into the overall score. The
// engine does not normalize; keeping the sum at 1.0 is the caller's job.
type Weights struct {
	Fundamental float64 `yaml:"fundamental"`
	Technical   float64 `yaml:"technical"`
	Risk        float64 `yaml:"risk"`
}

// Thresholds groups all scoring cut points.
type Thresholds struct {
	PERatio        PEThresholds           `yaml:"pe_ratio"`
	PBRatio        PBThresholds           `yaml:"pb_ratio"`
	ROE            ROEThresholds          `yaml:"roe"`
	DebtToEquity   DebtEquityThresholds   `yaml:"debt_to_equity"`
	CurrentRatio   CurrentRatioThresholds `yaml:"current_ratio"`
	EarningsGrowth GrowthThresholds       `yaml:"earnings_growth"`
	RSI            RSIThresholds          `yaml:"rsi"`
	Weights        Weights                `yaml:"weights"`
}

// DefaultAnalysis returns the published CSE fee schedule and the default
// scoring thresholds. Fee rates current as of the 2023 CSE fee circular.
func DefaultAnalysis() *Analysis {
	return &Analysis{
		Fees: Fees{
			Tier1: FeeTier{
				MaxValue:         100_000_000, // up to Rs. 100Mn
				BrokerCommission: 0.00640,
				SECFee:           0.00072,
				CSEFee:           0.00084,
				CDSFee:           0.00024,
				STLTax:           0.003,
			},
			Tier2: FeeTier{
				MinValue:         100_000_000,
				BrokerCommission: 0.002000,
				SECFee:           0.000450,
				CSEFee:           0.000525,
				CDSFee:           0.000150,
				STLTax:           0.003,
			},
			MinimumCommission: 100,
		},
		Taxes: Taxes{
			CapitalGains:        0.30,
			DividendWithholding: 0.14,
		},
		Thresholds: Thresholds{
			PERatio:        PEThresholds{Undervalued: 12, FairValueMin: 12, FairValueMax: 18, Overvalued: 25},
			PBRatio:        PBThresholds{Undervalued: 1.0, FairValue: 1.5, Overvalued: 3.0},
			ROE:            ROEThresholds{Excellent: 0.20, Good: 0.15, Acceptable: 0.10, Poor: 0.05},
			DebtToEquity:   DebtEquityThresholds{Conservative: 0.5, Moderate: 1.0, Aggressive: 1.5, Risky: 2.0},
			CurrentRatio:   CurrentRatioThresholds{Strong: 2.0, Adequate: 1.5, Concerning: 1.0},
			EarningsGrowth: GrowthThresholds{Excellent: 0.20, Good: 0.10, Moderate: 0.05},
			RSI:            RSIThresholds{Oversold: 30, NeutralLow: 40, NeutralHigh: 60, Overbought: 70},
			Weights:        Weights{Fundamental: 0.60, Technical: 0.30, Risk: 0.10},
		},
	}
}

// LoadAnalysis reads the analysis configuration from a YAML file. An empty
// path returns the built-in defaults.
func LoadAnalysis(path string) (*Analysis, error) {
	cfg := DefaultAnalysis()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse analysis config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects fee and tax rates outside [0, 1).
func (a *Analysis) Validate() error {
	tiers := map[string]FeeTier{"tier_1": a.Fees.Tier1, "tier_2": a.Fees.Tier2}
	for name, tier := range tiers {
		rates := []float64{tier.BrokerCommission, tier.SECFee, tier.CSEFee, tier.CDSFee, tier.STLTax}
		for _, r := range rates {
			if r < 0 || r >= 1 {
				return fmt.Errorf("%s: fee rate %v out of range [0, 1)", name, r)
			}
		}
	}
	if a.Taxes.CapitalGains < 0 || a.Taxes.CapitalGains >= 1 {
		return fmt.Errorf("capital_gains_tax %v out of range [0, 1)", a.Taxes.CapitalGains)
	}
	if a.Fees.MinimumCommission < 0 {
		return fmt.Errorf("minimum_commission must be non-negative")
	}
	return nil
}
