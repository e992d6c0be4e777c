// Package recommendation blends fundamental, technical and risk scores into
// a weighted buy/sell recommendation with confidence, strengths, concerns
// and action items.
package recommendation

import (
	"fmt"
	"strings"

	"github.com/lankastocks/cse-analyzer/internal/config"
	"github.com/lankastocks/cse-analyzer/internal/domain"
	"github.com/lankastocks/cse-analyzer/internal/modules/breakeven"
	"github.com/lankastocks/cse-analyzer/internal/modules/fundamental"
	"github.com/lankastocks/cse-analyzer/internal/modules/technical"
)

// maxInsights caps the strengths, concerns and action-item lists.
const maxInsights = 5

// RiskAssessment is the outcome of risk scoring: per-factor labels and an
// aggregate score mapped to a risk level.
type RiskAssessment struct {
	RiskScore          float64  `json:"risk_score"`
	RiskLevel          string   `json:"risk_level"`
	RiskInterpretation string   `json:"risk_interpretation"`
	RiskFactors        []string `json:"risk_factors"`
	FactorsAnalyzed    int      `json:"factors_analyzed"`
}

// TechnicalAssessment is the technical sub-result inside a recommendation.
// Detail is nil when no price history was supplied and the neutral
// placeholder participated in the blend instead.
type TechnicalAssessment struct {
	OverallScore          float64           `json:"overall_score"`
	OverallSignal         string            `json:"overall_signal"`
	OverallRecommendation string            `json:"overall_recommendation"`
	Detail                *technical.Result `json:"detail,omitempty"`
}

// StockInfo echoes the identifying fields of the analyzed stock.
type StockInfo struct {
	Ticker       string   `json:"ticker,omitempty"`
	CompanyName  string   `json:"company_name,omitempty"`
	CurrentPrice *float64 `json:"current_price,omitempty"`
}

// Result is the complete recommendation: sub-results, the weighted overall
// score, the final tier with its confidence label, and capped insight lists.
// Built fresh per call and never mutated afterwards.
type Result struct {
	StockInfo           StockInfo           `json:"stock_info"`
	FundamentalAnalysis *fundamental.Result `json:"fundamental_analysis"`
	TechnicalAnalysis   TechnicalAssessment `json:"technical_analysis"`
	RiskAssessment      RiskAssessment      `json:"risk_assessment"`
	OverallScore        float64             `json:"overall_score"`
	Recommendation      string              `json:"recommendation"`
	Confidence          string              `json:"confidence"`
	KeyStrengths        []string            `json:"key_strengths"`
	KeyConcerns         []string            `json:"key_concerns"`
	ActionItems         []string            `json:"action_items"`
}

// PositionResult compares a held position against its break-even price.
type PositionResult struct {
	BuyPrice               float64                 `json:"buy_price"`
	CurrentPrice           float64                 `json:"current_price"`
	BreakevenPrice         float64                 `json:"breakeven_price"`
	Quantity               float64                 `json:"quantity"`
	PositionStatus         string                  `json:"position_status"`
	CurrentProfitLoss      float64                 `json:"current_profit_loss"`
	ProfitPercentage       float64                 `json:"profit_percentage"`
	PriceToBreakeven       float64                 `json:"price_to_breakeven"`
	PositionRecommendation string                  `json:"position_recommendation"`
	BreakevenDetails       *breakeven.Result       `json:"breakeven_details"`
	ProfitDetails          *breakeven.ProfitResult `json:"profit_details"`
}

// EntryPriceResult suggests entry price bands keyed off the overall score.
type EntryPriceResult struct {
	CurrentPrice           float64 `json:"current_price"`
	IdealEntryPrice        float64 `json:"ideal_entry_price"`
	MaxEntryPrice          float64 `json:"max_entry_price"`
	TargetProfitPercentage float64 `json:"target_profit_percentage"`
	EntryRecommendation    string  `json:"entry_recommendation"`
	OverallScore           float64 `json:"overall_score"`
	OverallRecommendation  string  `json:"overall_recommendation"`
}

// Engine generates stock recommendations. Stateless apart from the injected
// read-only configuration; safe for concurrent use.
type Engine struct {
	cfg         *config.Analysis
	fundamental *fundamental.Analyzer
	technical   *technical.Analyzer
	breakeven   *breakeven.Calculator
	weights     config.Weights
}

// New creates a recommendation engine bound to an analysis configuration.
func New(cfg *config.Analysis) *Engine {
	return &Engine{
		cfg:         cfg,
		fundamental: fundamental.New(cfg),
		technical:   technical.New(cfg),
		breakeven:   breakeven.New(cfg),
		weights:     cfg.Thresholds.Weights,
	}
}

// RiskScore scores each risk factor present in the input (leverage,
// liquidity, beta, market cap) and averages them. With no factors supplied
// the score defaults to a neutral 50 with an explicit insufficient-data
// label.
func (e *Engine) RiskScore(stock *domain.StockFinancials) RiskAssessment {
	var factors []float64
	var details []string

	if stock.DebtToEquityRatio != nil {
		de := *stock.DebtToEquityRatio
		switch {
		case de <= 0.5:
			factors = append(factors, 90)
			details = append(details, "Low leverage (excellent)")
		case de <= 1.0:
			factors = append(factors, 75)
			details = append(details, "Moderate leverage (good)")
		case de <= 1.5:
			factors = append(factors, 55)
			details = append(details, "Elevated leverage (caution)")
		case de <= 2.0:
			factors = append(factors, 35)
			details = append(details, "High leverage (risky)")
		default:
			factors = append(factors, 15)
			details = append(details, "Very high leverage (high risk)")
		}
	}

	if stock.CurrentRatio != nil {
		cr := *stock.CurrentRatio
		switch {
		case cr >= 2.0:
			factors = append(factors, 90)
			details = append(details, "Strong liquidity")
		case cr >= 1.5:
			factors = append(factors, 75)
			details = append(details, "Adequate liquidity")
		case cr >= 1.0:
			factors = append(factors, 50)
			details = append(details, "Marginal liquidity")
		default:
			factors = append(factors, 25)
			details = append(details, "Liquidity concerns")
		}
	}

	if stock.Beta != nil {
		beta := *stock.Beta
		switch {
		case beta <= 0.8:
			factors = append(factors, 85)
			details = append(details, "Low volatility")
		case beta <= 1.2:
			factors = append(factors, 70)
			details = append(details, "Average volatility")
		case beta <= 1.5:
			factors = append(factors, 50)
			details = append(details, "Above average volatility")
		default:
			factors = append(factors, 30)
			details = append(details, "High volatility")
		}
	}

	if stock.MarketCap != nil {
		switch {
		case *stock.MarketCap >= 10_000_000_000: // 10B+ LKR
			factors = append(factors, 85)
			details = append(details, "Large cap (stable)")
		case *stock.MarketCap >= 1_000_000_000: // 1B+ LKR
			factors = append(factors, 70)
			details = append(details, "Mid cap (moderate risk)")
		default:
			factors = append(factors, 50)
			details = append(details, "Small cap (higher risk)")
		}
	}

	score := 50.0
	if len(factors) > 0 {
		sum := 0.0
		for _, f := range factors {
			sum += f
		}
		score = sum / float64(len(factors))
	} else {
		details = append(details, "Insufficient data for risk assessment")
	}

	var level, interpretation string
	switch {
	case score >= 75:
		level = "LOW RISK"
		interpretation = "Conservative investment with low risk profile"
	case score >= 60:
		level = "MODERATE RISK"
		interpretation = "Balanced risk-reward profile"
	case score >= 45:
		level = "ELEVATED RISK"
		interpretation = "Higher risk factors present"
	default:
		level = "HIGH RISK"
		interpretation = "Significant risk factors - suitable for aggressive investors only"
	}

	return RiskAssessment{
		RiskScore:          score,
		RiskLevel:          level,
		RiskInterpretation: interpretation,
		RiskFactors:        details,
		FactorsAnalyzed:    len(factors),
	}
}

// Generate produces the complete recommendation. Technical analysis runs
// only when a non-empty price series is supplied; otherwise a neutral
// placeholder (score 50) stands in and still participates in the weighted
// blend.
func (e *Engine) Generate(stock *domain.StockFinancials, prices, volumes []float64) (*Result, error) {
	result := &Result{
		StockInfo: StockInfo{
			Ticker:       stock.Ticker,
			CompanyName:  stock.CompanyName,
			CurrentPrice: stock.Price,
		},
	}

	fundamentalResult, err := e.fundamental.ComprehensiveAnalysis(stock)
	if err != nil {
		return nil, err
	}
	result.FundamentalAnalysis = fundamentalResult
	fundamentalScore := fundamentalResult.OverallScore

	var technicalScore float64
	if len(prices) > 0 {
		technicalResult, err := e.technical.ComprehensiveAnalysis(prices, volumes)
		if err != nil {
			return nil, err
		}
		result.TechnicalAnalysis = TechnicalAssessment{
			OverallScore:          technicalResult.OverallScore,
			OverallSignal:         technicalResult.OverallSignal,
			OverallRecommendation: technicalResult.OverallRecommendation,
			Detail:                technicalResult,
		}
		technicalScore = technicalResult.OverallScore
	} else {
		result.TechnicalAnalysis = TechnicalAssessment{
			OverallScore:          50,
			OverallSignal:         "NEUTRAL",
			OverallRecommendation: "No price history provided",
		}
		technicalScore = 50
	}

	riskResult := e.RiskScore(stock)
	result.RiskAssessment = riskResult
	riskScore := riskResult.RiskScore

	result.OverallScore = fundamentalScore*e.weights.Fundamental +
		technicalScore*e.weights.Technical +
		riskScore*e.weights.Risk

	switch {
	case result.OverallScore >= 80:
		result.Recommendation = "STRONG BUY"
		result.Confidence = "HIGH"
		result.ActionItems = append(result.ActionItems, "Consider establishing or adding to position")
	case result.OverallScore >= 70:
		result.Recommendation = "BUY"
		result.Confidence = "MODERATE-HIGH"
		result.ActionItems = append(result.ActionItems, "Good opportunity to buy")
	case result.OverallScore >= 55:
		result.Recommendation = "HOLD"
		result.Confidence = "MODERATE"
		result.ActionItems = append(result.ActionItems,
			"Maintain current position if owned",
			"Wait for better entry point if not owned")
	case result.OverallScore >= 40:
		result.Recommendation = "SELL"
		result.Confidence = "MODERATE-HIGH"
		result.ActionItems = append(result.ActionItems, "Consider reducing position")
	default:
		result.Recommendation = "STRONG SELL"
		result.Confidence = "HIGH"
		result.ActionItems = append(result.ActionItems, "Exit position or avoid purchasing")
	}

	// Strengths: component scores first, then standout fundamental metrics.
	if fundamentalScore >= 75 {
		result.KeyStrengths = append(result.KeyStrengths, "Strong fundamental metrics")
	}
	if technicalScore >= 70 {
		result.KeyStrengths = append(result.KeyStrengths, "Positive technical indicators")
	}
	if riskScore >= 70 {
		result.KeyStrengths = append(result.KeyStrengths, "Low risk profile")
	}
	for _, name := range fundamental.MetricOrder {
		if m, ok := fundamentalResult.Metrics[name]; ok && m.Score >= 80 {
			result.KeyStrengths = append(result.KeyStrengths,
				fmt.Sprintf("%s: %s", strings.ToUpper(name), m.Interpretation))
		}
	}

	// Concerns: component scores, weak fundamental metrics, then risk
	// factor labels that read as warnings.
	if fundamentalScore < 50 {
		result.KeyConcerns = append(result.KeyConcerns, "Weak fundamental metrics")
	}
	if technicalScore < 45 {
		result.KeyConcerns = append(result.KeyConcerns, "Negative technical signals")
	}
	if riskScore < 50 {
		result.KeyConcerns = append(result.KeyConcerns, "Elevated risk factors")
	}
	for _, name := range fundamental.MetricOrder {
		if m, ok := fundamentalResult.Metrics[name]; ok && m.Score <= 40 {
			result.KeyConcerns = append(result.KeyConcerns,
				fmt.Sprintf("%s: %s", strings.ToUpper(name), m.Interpretation))
		}
	}
	for _, factor := range riskResult.RiskFactors {
		lower := strings.ToLower(factor)
		if strings.Contains(lower, "high") || strings.Contains(lower, "concern") {
			result.KeyConcerns = append(result.KeyConcerns, factor)
		}
	}

	result.KeyStrengths = capList(result.KeyStrengths)
	result.KeyConcerns = capList(result.KeyConcerns)
	result.ActionItems = capList(result.ActionItems)

	return result, nil
}

// CompareToBreakeven reports whether a held position is above or below its
// tax-inclusive break-even price and tiers the advice by the size of the
// gain or loss.
func (e *Engine) CompareToBreakeven(stock *domain.StockFinancials, buyPrice, quantity float64) (*PositionResult, error) {
	if stock.Price == nil {
		return nil, fmt.Errorf("%w: current price is required", domain.ErrInvalidInput)
	}
	currentPrice := *stock.Price

	breakevenResult, err := e.breakeven.BreakevenPrice(buyPrice, quantity, true)
	if err != nil {
		return nil, err
	}

	profitResult, err := e.breakeven.ProfitAtPrice(buyPrice, currentPrice, quantity, true)
	if err != nil {
		return nil, err
	}

	var status, advice string
	profitPct := profitResult.ProfitPercentage * 100
	if currentPrice >= breakevenResult.BreakevenPrice {
		status = "PROFITABLE"
		switch {
		case profitPct >= 20:
			advice = "Consider taking profits - strong gains achieved"
		case profitPct >= 10:
			advice = "Moderate profits - hold for further gains or take profits"
		default:
			advice = "Slightly above break-even - hold for better returns"
		}
	} else {
		status = "LOSS"
		lossPct := -profitPct
		switch {
		case lossPct >= 20:
			advice = "Significant loss - evaluate if fundamentals support recovery"
		case lossPct >= 10:
			advice = "Moderate loss - hold if fundamentals are strong"
		default:
			advice = "Small loss - near break-even, consider holding"
		}
	}

	return &PositionResult{
		BuyPrice:               buyPrice,
		CurrentPrice:           currentPrice,
		BreakevenPrice:         breakevenResult.BreakevenPrice,
		Quantity:               quantity,
		PositionStatus:         status,
		CurrentProfitLoss:      profitResult.NetProfit,
		ProfitPercentage:       profitResult.ProfitPercentage,
		PriceToBreakeven:       currentPrice - breakevenResult.BreakevenPrice,
		PositionRecommendation: advice,
		BreakevenDetails:       breakevenResult,
		ProfitDetails:          profitResult,
	}, nil
}

// EntryPrice suggests ideal and maximum entry prices keyed off the overall
// recommendation score: strong stocks are worth their current price, weak
// ones only at a discount.
func (e *Engine) EntryPrice(stock *domain.StockFinancials, targetProfitPct float64) (*EntryPriceResult, error) {
	if stock.Price == nil {
		return nil, fmt.Errorf("%w: current price is required", domain.ErrInvalidInput)
	}
	currentPrice := *stock.Price

	recommendation, err := e.Generate(stock, nil, nil)
	if err != nil {
		return nil, err
	}

	var ideal, maxEntry float64
	var advice string
	switch {
	case recommendation.OverallScore >= 70:
		ideal = currentPrice
		maxEntry = currentPrice * 1.05
		advice = "Strong fundamentals - current price is good entry point"
	case recommendation.OverallScore >= 55:
		ideal = currentPrice * 0.97
		maxEntry = currentPrice * 0.95
		advice = "Wait for 3-5% pullback for better entry"
	default:
		ideal = currentPrice * 0.85
		maxEntry = currentPrice * 0.90
		advice = "Weak fundamentals - only buy at significant discount (10-15% lower)"
	}

	return &EntryPriceResult{
		CurrentPrice:           currentPrice,
		IdealEntryPrice:        ideal,
		MaxEntryPrice:          maxEntry,
		TargetProfitPercentage: targetProfitPct,
		EntryRecommendation:    advice,
		OverallScore:           recommendation.OverallScore,
		OverallRecommendation:  recommendation.Recommendation,
	}, nil
}

func capList(items []string) []string {
	if len(items) > maxInsights {
		return items[:maxInsights]
	}
	return items
}
