package server

import "net/http"

type breakevenRequest struct {
	BuyPrice   float64 `json:"buy_price"`
	Quantity   float64 `json:"quantity"`
	IncludeTax bool    `json:"include_tax"`
}

type targetPriceRequest struct {
	BuyPrice        float64 `json:"buy_price"`
	Quantity        float64 `json:"quantity"`
	TargetProfitPct float64 `json:"target_profit_pct"`
	IncludeTax      bool    `json:"include_tax"`
}

type profitAtPriceRequest struct {
	BuyPrice   float64 `json:"buy_price"`
	SellPrice  float64 `json:"sell_price"`
	Quantity   float64 `json:"quantity"`
	IncludeTax bool    `json:"include_tax"`
}

// handleBreakeven computes the break-even sale price for a position
func (s *Server) handleBreakeven(w http.ResponseWriter, r *http.Request) {
	var req breakevenRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.breakeven.BreakevenPrice(req.BuyPrice, req.Quantity, req.IncludeTax)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleTargetPrice computes the sale price for a target profit percentage
func (s *Server) handleTargetPrice(w http.ResponseWriter, r *http.Request) {
	var req targetPriceRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.breakeven.TargetPrice(req.BuyPrice, req.Quantity, req.TargetProfitPct, req.IncludeTax)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleProfitAtPrice computes profit or loss at a specific sale price
func (s *Server) handleProfitAtPrice(w http.ResponseWriter, r *http.Request) {
	var req profitAtPriceRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.breakeven.ProfitAtPrice(req.BuyPrice, req.SellPrice, req.Quantity, req.IncludeTax)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}
