package server

import "net/http"

type transactionRequest struct {
	TransactionValue float64 `json:"transaction_value"`
}

type roundTripRequest struct {
	BuyPrice  float64 `json:"buy_price"`
	SellPrice float64 `json:"sell_price"`
	Quantity  float64 `json:"quantity"`
}

// handleFeeSummary returns the configured fee structure
func (s *Server) handleFeeSummary(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.fees.FeeSummary())
}

// handleBuyFees computes buy-side fees for a transaction value
func (s *Server) handleBuyFees(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.fees.CalculateBuyFees(req.TransactionValue)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleSellFees computes sell-side fees for a transaction value
func (s *Server) handleSellFees(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.fees.CalculateSellFees(req.TransactionValue)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleRoundTrip computes the full cost of a buy-sell cycle
func (s *Server) handleRoundTrip(w http.ResponseWriter, r *http.Request) {
	var req roundTripRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.fees.CalculateRoundTripCost(req.BuyPrice, req.SellPrice, req.Quantity)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}
