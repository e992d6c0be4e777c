package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankastocks/cse-analyzer/internal/config"
	"github.com/lankastocks/cse-analyzer/internal/database"
	"github.com/lankastocks/cse-analyzer/internal/modules/history"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "server_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := history.NewRepository(db.Conn(), zerolog.Nop())
	require.NoError(t, repo.Migrate())

	return New(Config{
		Port:     0,
		Log:      zerolog.Nop(),
		Analysis: config.DefaultAnalysis(),
		History:  repo,
		DevMode:  true,
	})
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doJSON(t, newTestServer(t), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestBuyFeesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/fees/buy", map[string]float64{
		"transaction_value": 100_000,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalFees float64 `json:"total_fees"`
		TotalCost float64 `json:"total_cost"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.InDelta(t, 820, body.TotalFees, 0.01)
	assert.InDelta(t, 100_820, body.TotalCost, 0.01)
}

func TestBuyFeesEndpoint_InvalidInputIs400(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/fees/buy", map[string]float64{
		"transaction_value": -5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestBreakevenEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/breakeven", map[string]interface{}{
		"buy_price":   100,
		"quantity":    1000,
		"include_tax": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		BreakevenPrice float64 `json:"breakeven_price"`
		Converged      bool    `json:"converged"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Greater(t, body.BreakevenPrice, 100.0)
	assert.True(t, body.Converged)
}

func TestFundamentalEndpointRecordsHistory(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/analyze/fundamental", map[string]interface{}{
		"ticker": "LIOC",
		"price":  100,
		"eps":    10,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	list := doJSON(t, srv, http.MethodGet, "/api/history/?limit=10", nil)
	require.Equal(t, http.StatusOK, list.Code)

	var body struct {
		Count   int `json:"count"`
		Records []struct {
			Ticker       string `json:"ticker"`
			AnalysisType string `json:"analysis_type"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "LIOC", body.Records[0].Ticker)
	assert.Equal(t, "fundamental", body.Records[0].AnalysisType)
}

func TestRecommendationEndpoint(t *testing.T) {
	srv := newTestServer(t)

	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + float64(i)/10
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/recommendation/", map[string]interface{}{
		"stock": map[string]interface{}{
			"ticker": "LIOC",
			"price":  100,
			"eps":    10,
		},
		"prices": prices,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		OverallScore   float64 `json:"overall_score"`
		Recommendation string  `json:"recommendation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Positive(t, body.OverallScore)
	assert.NotEmpty(t, body.Recommendation)
}

func TestHistoryDelete(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/analyze/fundamental", map[string]interface{}{
		"price": 100,
		"eps":   10,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	del := doJSON(t, srv, http.MethodDelete, "/api/history/1", nil)
	assert.Equal(t, http.StatusOK, del.Code)

	missing := doJSON(t, srv, http.MethodDelete, "/api/history/1", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestTechnicalEndpoint_EmptyPricesIs400(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/analyze/technical", map[string]interface{}{
		"ticker": "LIOC",
		"prices": []float64{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvalidJSONIs400(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/fees/buy", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
