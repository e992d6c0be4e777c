// Package fundamental scores valuation, profitability, leverage, liquidity
// and income ratios against configured threshold bands. Each ratio yields a
// 0-100 score with a qualitative rating; ratios whose inputs are missing are
// skipped, and ratios that are undefined by business rule (zero EPS, negative
// equity) still score so that aggregation stays well-defined.
package fundamental

import (
	"fmt"

	"github.com/lankastocks/cse-analyzer/internal/config"
	"github.com/lankastocks/cse-analyzer/internal/domain"
)

// Metric is the outcome of scoring one ratio. A nil Value means the ratio is
// undefined for the given inputs; the Score is still meaningful.
type Metric struct {
	Value          *float64 `json:"value"`
	Score          float64  `json:"score"`
	Rating         string   `json:"rating"`
	Interpretation string   `json:"interpretation"`
	Recommendation string   `json:"recommendation"`
}

// Result is the comprehensive fundamental analysis output.
type Result struct {
	Metrics               map[string]Metric `json:"metrics"`
	OverallScore          float64           `json:"overall_score"`
	OverallRecommendation string            `json:"overall_recommendation"`
	MetricsAnalyzed       int               `json:"metrics_analyzed"`
}

// MetricOrder is the canonical iteration order for Result.Metrics, used
// wherever per-metric output must be deterministic.
var MetricOrder = []string{
	"pe_ratio",
	"pb_ratio",
	"roe",
	"debt_to_equity",
	"current_ratio",
	"earnings_growth",
	"dividend_yield",
}

// Analyzer scores fundamental ratios. Stateless apart from the injected
// read-only configuration.
type Analyzer struct {
	thresholds config.Thresholds
}

// New creates a fundamental analyzer bound to an analysis configuration.
func New(cfg *config.Analysis) *Analyzer {
	return &Analyzer{thresholds: cfg.Thresholds}
}

// PERatio scores price / earnings-per-share. Non-positive EPS means the
// company is not profitable: the ratio is undefined and scores zero.
func (a *Analyzer) PERatio(price, eps float64) (Metric, error) {
	if err := domain.ValidatePositive(price, "price"); err != nil {
		return Metric{}, err
	}

	if eps <= 0 {
		return Metric{
			Score:          0,
			Rating:         "Poor",
			Interpretation: "Negative or zero earnings",
			Recommendation: "AVOID - Company is not profitable",
		}, nil
	}

	pe := price / eps
	t := a.thresholds.PERatio

	var m Metric
	switch {
	case pe < t.Undervalued:
		m = Metric{Score: 100, Rating: "Excellent", Interpretation: "Significantly undervalued", Recommendation: "STRONG BUY"}
	case pe < t.FairValueMin:
		m = Metric{Score: 85, Rating: "Good", Interpretation: "Undervalued", Recommendation: "BUY"}
	case pe <= t.FairValueMax:
		m = Metric{Score: 70, Rating: "Fair", Interpretation: "Fairly valued", Recommendation: "HOLD"}
	case pe <= t.Overvalued:
		m = Metric{Score: 50, Rating: "Fair", Interpretation: "Slightly overvalued", Recommendation: "HOLD/SELL"}
	default:
		m = Metric{Score: 25, Rating: "Poor", Interpretation: "Overvalued", Recommendation: "SELL"}
	}
	m.Value = &pe
	return m, nil
}

// PBRatio scores price / book-value-per-share.
func (a *Analyzer) PBRatio(price, bookValuePerShare float64) (Metric, error) {
	if err := domain.ValidatePositive(price, "price"); err != nil {
		return Metric{}, err
	}
	if err := domain.ValidatePositive(bookValuePerShare, "book value per share"); err != nil {
		return Metric{}, err
	}

	pb := price / bookValuePerShare
	t := a.thresholds.PBRatio

	var m Metric
	switch {
	case pb < t.Undervalued:
		m = Metric{Score: 100, Rating: "Excellent", Interpretation: "Trading below book value - potential value opportunity", Recommendation: "STRONG BUY"}
	case pb <= t.FairValue:
		m = Metric{Score: 80, Rating: "Good", Interpretation: "Reasonably valued relative to assets", Recommendation: "BUY"}
	case pb <= t.Overvalued:
		m = Metric{Score: 60, Rating: "Fair", Interpretation: "Moderate premium to book value", Recommendation: "HOLD"}
	default:
		m = Metric{Score: 35, Rating: "Poor", Interpretation: "High premium to book value", Recommendation: "SELL"}
	}
	m.Value = &pb
	return m, nil
}

// ROE scores net income / shareholders' equity. Non-positive equity marks an
// insolvent company and non-positive income an unprofitable one; both are
// undefined ratios that score zero.
func (a *Analyzer) ROE(netIncome, shareholdersEquity float64) (Metric, error) {
	if shareholdersEquity <= 0 {
		return Metric{
			Score:          0,
			Rating:         "Poor",
			Interpretation: "Negative or zero shareholders equity - company is insolvent",
			Recommendation: "AVOID - Company has negative equity",
		}, nil
	}

	if netIncome <= 0 {
		return Metric{
			Score:          0,
			Rating:         "Poor",
			Interpretation: "Negative or zero net income",
			Recommendation: "POOR - Company not generating profit for shareholders",
		}, nil
	}

	roe := netIncome / shareholdersEquity
	t := a.thresholds.ROE

	var m Metric
	switch {
	case roe >= t.Excellent:
		m = Metric{Score: 100, Rating: "Excellent", Interpretation: "Excellent returns on shareholder capital", Recommendation: "STRONG BUY"}
	case roe >= t.Good:
		m = Metric{Score: 85, Rating: "Good", Interpretation: "Good profitability", Recommendation: "BUY"}
	case roe >= t.Acceptable:
		m = Metric{Score: 65, Rating: "Fair", Interpretation: "Acceptable returns", Recommendation: "HOLD"}
	case roe >= t.Poor:
		m = Metric{Score: 40, Rating: "Fair", Interpretation: "Below average returns", Recommendation: "HOLD/SELL"}
	default:
		m = Metric{Score: 20, Rating: "Poor", Interpretation: "Poor returns on equity", Recommendation: "SELL"}
	}
	m.Value = &roe
	return m, nil
}

// DebtToEquity scores total debt / shareholders' equity; lower leverage
// scores higher.
func (a *Analyzer) DebtToEquity(totalDebt, shareholdersEquity float64) (Metric, error) {
	if err := domain.ValidateNonNegative(totalDebt, "total debt"); err != nil {
		return Metric{}, err
	}
	if err := domain.ValidatePositive(shareholdersEquity, "shareholders' equity"); err != nil {
		return Metric{}, err
	}

	de := totalDebt / shareholdersEquity
	t := a.thresholds.DebtToEquity

	var m Metric
	switch {
	case de <= t.Conservative:
		m = Metric{Score: 100, Rating: "Excellent", Interpretation: "Very conservative leverage - low financial risk", Recommendation: "EXCELLENT - Strong balance sheet"}
	case de <= t.Moderate:
		m = Metric{Score: 80, Rating: "Good", Interpretation: "Moderate leverage - manageable debt levels", Recommendation: "GOOD - Balanced capital structure"}
	case de <= t.Aggressive:
		m = Metric{Score: 55, Rating: "Fair", Interpretation: "Elevated leverage - monitor debt levels", Recommendation: "CAUTION - Higher financial risk"}
	case de <= t.Risky:
		m = Metric{Score: 30, Rating: "Poor", Interpretation: "High leverage - significant financial risk", Recommendation: "RISKY - Vulnerable to economic downturns"}
	default:
		m = Metric{Score: 10, Rating: "Poor", Interpretation: "Very high leverage - potential solvency concerns", Recommendation: "HIGH RISK - Avoid unless restructuring"}
	}
	m.Value = &de
	return m, nil
}

// CurrentRatio scores current assets / current liabilities; higher liquidity
// scores higher.
func (a *Analyzer) CurrentRatio(currentAssets, currentLiabilities float64) (Metric, error) {
	if err := domain.ValidatePositive(currentAssets, "current assets"); err != nil {
		return Metric{}, err
	}
	if err := domain.ValidatePositive(currentLiabilities, "current liabilities"); err != nil {
		return Metric{}, err
	}

	cr := currentAssets / currentLiabilities
	t := a.thresholds.CurrentRatio

	var m Metric
	switch {
	case cr >= t.Strong:
		m = Metric{Score: 100, Rating: "Excellent", Interpretation: "Strong liquidity - can easily cover short-term obligations", Recommendation: "EXCELLENT"}
	case cr >= t.Adequate:
		m = Metric{Score: 80, Rating: "Good", Interpretation: "Adequate liquidity position", Recommendation: "GOOD"}
	case cr >= t.Concerning:
		m = Metric{Score: 50, Rating: "Fair", Interpretation: "Marginal liquidity - monitor cash flow", Recommendation: "CAUTION"}
	default:
		m = Metric{Score: 20, Rating: "Poor", Interpretation: "Liquidity concerns - may struggle with short-term obligations", Recommendation: "RISK - Potential solvency issues"}
	}
	m.Value = &cr
	return m, nil
}

// EarningsGrowth scores the year-over-year EPS growth rate. Undefined when
// the previous year had no earnings.
func (a *Analyzer) EarningsGrowth(currentEPS, previousEPS float64) Metric {
	if previousEPS <= 0 {
		return Metric{
			Score:          0,
			Rating:         "Poor",
			Interpretation: "Cannot calculate - previous year had no earnings",
			Recommendation: "N/A",
		}
	}

	growth := (currentEPS - previousEPS) / previousEPS
	t := a.thresholds.EarningsGrowth

	var m Metric
	switch {
	case growth >= t.Excellent:
		m = Metric{Score: 100, Rating: "Excellent", Interpretation: "Excellent growth - strong business momentum", Recommendation: "STRONG BUY"}
	case growth >= t.Good:
		m = Metric{Score: 85, Rating: "Good", Interpretation: "Good growth trajectory", Recommendation: "BUY"}
	case growth >= t.Moderate:
		m = Metric{Score: 70, Rating: "Fair", Interpretation: "Moderate growth", Recommendation: "HOLD"}
	case growth >= 0:
		m = Metric{Score: 55, Rating: "Fair", Interpretation: "Slow growth", Recommendation: "HOLD"}
	default:
		m = Metric{Score: 25, Rating: "Poor", Interpretation: "Declining earnings - negative growth", Recommendation: "SELL"}
	}
	m.Value = &growth
	return m
}

// DividendYield scores annual dividend / price. Zero dividend is neutral
// rather than penalized; the company may be reinvesting for growth.
func (a *Analyzer) DividendYield(annualDividend, price float64) (Metric, error) {
	if err := domain.ValidateNonNegative(annualDividend, "annual dividend"); err != nil {
		return Metric{}, err
	}
	if err := domain.ValidatePositive(price, "price"); err != nil {
		return Metric{}, err
	}

	if annualDividend == 0 {
		zero := 0.0
		return Metric{
			Value:          &zero,
			Score:          50,
			Rating:         "Fair",
			Interpretation: "No dividend - growth stock or retaining earnings",
			Recommendation: "Neutral - evaluate based on growth potential",
		}, nil
	}

	yield := annualDividend / price
	yieldPct := yield * 100

	var m Metric
	switch {
	case yieldPct >= 5.0:
		m = Metric{Score: 90, Rating: "Excellent", Interpretation: "High dividend yield - good income generation", Recommendation: "ATTRACTIVE for income investors"}
	case yieldPct >= 3.0:
		m = Metric{Score: 80, Rating: "Good", Interpretation: "Good dividend yield", Recommendation: "GOOD for balanced portfolios"}
	case yieldPct >= 1.5:
		m = Metric{Score: 65, Rating: "Fair", Interpretation: "Moderate dividend yield", Recommendation: "ACCEPTABLE"}
	default:
		m = Metric{Score: 50, Rating: "Fair", Interpretation: "Low dividend yield", Recommendation: "Evaluate for growth potential instead"}
	}
	m.Value = &yield
	return m, nil
}

// ComprehensiveAnalysis runs every ratio whose inputs are present and
// aggregates the scores to an overall recommendation. Missing inputs skip
// the metric; they are not failures.
func (a *Analyzer) ComprehensiveAnalysis(stock *domain.StockFinancials) (*Result, error) {
	metrics := make(map[string]Metric)

	if stock.Price != nil && stock.EPS != nil {
		m, err := a.PERatio(*stock.Price, *stock.EPS)
		if err != nil {
			return nil, fmt.Errorf("pe_ratio: %w", err)
		}
		metrics["pe_ratio"] = m
	}

	if stock.Price != nil && stock.BookValuePerShare != nil {
		m, err := a.PBRatio(*stock.Price, *stock.BookValuePerShare)
		if err != nil {
			return nil, fmt.Errorf("pb_ratio: %w", err)
		}
		metrics["pb_ratio"] = m
	}

	if stock.NetIncome != nil && stock.ShareholdersEquity != nil {
		m, err := a.ROE(*stock.NetIncome, *stock.ShareholdersEquity)
		if err != nil {
			return nil, fmt.Errorf("roe: %w", err)
		}
		metrics["roe"] = m
	}

	if stock.TotalDebt != nil && stock.ShareholdersEquity != nil {
		m, err := a.DebtToEquity(*stock.TotalDebt, *stock.ShareholdersEquity)
		if err != nil {
			return nil, fmt.Errorf("debt_to_equity: %w", err)
		}
		metrics["debt_to_equity"] = m
	}

	if stock.CurrentAssets != nil && stock.CurrentLiabilities != nil {
		m, err := a.CurrentRatio(*stock.CurrentAssets, *stock.CurrentLiabilities)
		if err != nil {
			return nil, fmt.Errorf("current_ratio: %w", err)
		}
		metrics["current_ratio"] = m
	}

	if stock.EPS != nil && stock.PreviousEPS != nil {
		metrics["earnings_growth"] = a.EarningsGrowth(*stock.EPS, *stock.PreviousEPS)
	}

	if stock.Price != nil && stock.AnnualDividend != nil {
		m, err := a.DividendYield(*stock.AnnualDividend, *stock.Price)
		if err != nil {
			return nil, fmt.Errorf("dividend_yield: %w", err)
		}
		metrics["dividend_yield"] = m
	}

	overall := 0.0
	if len(metrics) > 0 {
		sum := 0.0
		for _, m := range metrics {
			sum += m.Score
		}
		overall = sum / float64(len(metrics))
	}

	var recommendation string
	switch {
	case overall >= 85:
		recommendation = "STRONG BUY - Excellent fundamentals"
	case overall >= 75:
		recommendation = "BUY - Strong fundamentals"
	case overall >= 60:
		recommendation = "HOLD - Acceptable fundamentals"
	case overall >= 45:
		recommendation = "HOLD/SELL - Weak fundamentals"
	default:
		recommendation = "SELL - Poor fundamentals"
	}

	return &Result{
		Metrics:               metrics,
		OverallScore:          overall,
		OverallRecommendation: recommendation,
		MetricsAnalyzed:       len(metrics),
	}, nil
}
