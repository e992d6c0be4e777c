package server

import (
	"net/http"

	"github.com/lankastocks/cse-analyzer/internal/domain"
)

type technicalRequest struct {
	Ticker  string    `json:"ticker"`
	Prices  []float64 `json:"prices"`
	Volumes []float64 `json:"volumes"`
}

type recommendationRequest struct {
	Stock   domain.StockFinancials `json:"stock"`
	Prices  []float64              `json:"prices"`
	Volumes []float64              `json:"volumes"`
}

type positionRequest struct {
	Stock    domain.StockFinancials `json:"stock"`
	BuyPrice float64                `json:"buy_price"`
	Quantity float64                `json:"quantity"`
}

type entryPriceRequest struct {
	Stock           domain.StockFinancials `json:"stock"`
	TargetProfitPct float64                `json:"target_profit_pct"`
}

// handleFundamental runs fundamental analysis on the supplied financials
func (s *Server) handleFundamental(w http.ResponseWriter, r *http.Request) {
	var stock domain.StockFinancials
	if !s.decodeBody(w, r, &stock) {
		return
	}
	stock.DeriveRatios()

	result, err := s.fundamental.ComprehensiveAnalysis(&stock)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.recordHistory(stock.Ticker, "fundamental", result.OverallScore, result.OverallRecommendation, result)
	s.writeJSON(w, http.StatusOK, result)
}

// handleTechnical runs technical analysis on a price series
func (s *Server) handleTechnical(w http.ResponseWriter, r *http.Request) {
	var req technicalRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.technical.ComprehensiveAnalysis(req.Prices, req.Volumes)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.recordHistory(req.Ticker, "technical", result.OverallScore, result.OverallRecommendation, result)
	s.writeJSON(w, http.StatusOK, result)
}

// handleRecommendation generates the blended recommendation
func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	req.Stock.DeriveRatios()

	result, err := s.recommendation.Generate(&req.Stock, req.Prices, req.Volumes)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.recordHistory(req.Stock.Ticker, "recommendation", result.OverallScore, result.Recommendation, result)
	s.writeJSON(w, http.StatusOK, result)
}

// handlePosition compares a held position against its break-even price
func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.recommendation.CompareToBreakeven(&req.Stock, req.BuyPrice, req.Quantity)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleEntryPrice suggests entry price bands for a stock
func (s *Server) handleEntryPrice(w http.ResponseWriter, r *http.Request) {
	var req entryPriceRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	req.Stock.DeriveRatios()

	result, err := s.recommendation.EntryPrice(&req.Stock, req.TargetProfitPct)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// recordHistory persists an analysis result, best effort. Failures are logged
// but never fail the request that produced the result.
func (s *Server) recordHistory(ticker, analysisType string, score float64, recommendation string, result interface{}) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Save(ticker, analysisType, score, recommendation, result); err != nil {
		s.log.Error().Err(err).Str("type", analysisType).Msg("Failed to save analysis history")
	}
}
