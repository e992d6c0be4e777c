package domain

// StockFinancials carries the raw per-share and balance-sheet figures for a
// single stock. Every field except Ticker is optional: a nil pointer means
// the caller did not supply the figure, and any metric depending on it is
// skipped rather than failed. Values are plain LKR floats; the struct has no
// persisted identity and is built fresh for each analysis call.
type StockFinancials struct {
	Ticker      string `json:"ticker,omitempty"`
	CompanyName string `json:"company_name,omitempty"`

	Price              *float64 `json:"price,omitempty"`
	EPS                *float64 `json:"eps,omitempty"`
	BookValuePerShare  *float64 `json:"book_value_per_share,omitempty"`
	NetIncome          *float64 `json:"net_income,omitempty"`
	ShareholdersEquity *float64 `json:"shareholders_equity,omitempty"`
	TotalDebt          *float64 `json:"total_debt,omitempty"`
	CurrentAssets      *float64 `json:"current_assets,omitempty"`
	CurrentLiabilities *float64 `json:"current_liabilities,omitempty"`

	PreviousEPS    *float64 `json:"previous_eps,omitempty"`
	AnnualDividend *float64 `json:"annual_dividend,omitempty"`
	Beta           *float64 `json:"beta,omitempty"`
	MarketCap      *float64 `json:"market_cap,omitempty"`

	// Pre-derived ratios consumed by risk scoring. Callers that have the
	// balance-sheet figures can fill these via DeriveRatios.
	DebtToEquityRatio *float64 `json:"debt_to_equity_ratio,omitempty"`
	CurrentRatio      *float64 `json:"current_ratio,omitempty"`
}

// DeriveRatios fills DebtToEquityRatio and CurrentRatio from the raw
// balance-sheet fields when they are present and the ratios were not
// supplied directly. Returns the receiver for chaining.
func (s *StockFinancials) DeriveRatios() *StockFinancials {
	if s.DebtToEquityRatio == nil && s.TotalDebt != nil && s.ShareholdersEquity != nil && *s.ShareholdersEquity > 0 {
		ratio := *s.TotalDebt / *s.ShareholdersEquity
		s.DebtToEquityRatio = &ratio
	}
	if s.CurrentRatio == nil && s.CurrentAssets != nil && s.CurrentLiabilities != nil && *s.CurrentLiabilities > 0 {
		ratio := *s.CurrentAssets / *s.CurrentLiabilities
		s.CurrentRatio = &ratio
	}
	return s
}

// Float returns a pointer to v. Convenience for building StockFinancials
// literals and test fixtures.
func Float(v float64) *float64 {
	return &v
}
