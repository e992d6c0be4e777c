package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/lankastocks/cse-analyzer/internal/config"
	"github.com/lankastocks/cse-analyzer/internal/export"
	"github.com/lankastocks/cse-analyzer/internal/modules/breakeven"
	"github.com/lankastocks/cse-analyzer/internal/modules/fees"
	"github.com/lankastocks/cse-analyzer/internal/modules/fundamental"
	"github.com/lankastocks/cse-analyzer/internal/modules/history"
	"github.com/lankastocks/cse-analyzer/internal/modules/recommendation"
	"github.com/lankastocks/cse-analyzer/internal/modules/technical"
)

// Config holds server configuration
type Config struct {
	Port     int
	Log      zerolog.Logger
	Analysis *config.Analysis
	History  *history.Repository
	Exporter *export.Exporter
	DevMode  bool
}

// Server represents the HTTP server exposing the analysis engine
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger

	fees           *fees.Calculator
	breakeven      *breakeven.Calculator
	fundamental    *fundamental.Analyzer
	technical      *technical.Analyzer
	recommendation *recommendation.Engine
	history        *history.Repository
	exporter       *export.Exporter
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		fees:           fees.New(cfg.Analysis),
		breakeven:      breakeven.New(cfg.Analysis),
		fundamental:    fundamental.New(cfg.Analysis),
		technical:      technical.New(cfg.Analysis),
		recommendation: recommendation.New(cfg.Analysis),
		history:        cfg.History,
		exporter:       cfg.Exporter,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/fees", func(r chi.Router) {
			r.Get("/summary", s.handleFeeSummary)
			r.Post("/buy", s.handleBuyFees)
			r.Post("/sell", s.handleSellFees)
			r.Post("/roundtrip", s.handleRoundTrip)
		})

		r.Route("/breakeven", func(r chi.Router) {
			r.Post("/", s.handleBreakeven)
			r.Post("/target", s.handleTargetPrice)
			r.Post("/profit", s.handleProfitAtPrice)
		})

		r.Route("/analyze", func(r chi.Router) {
			r.Post("/fundamental", s.handleFundamental)
			r.Post("/technical", s.handleTechnical)
		})

		r.Route("/recommendation", func(r chi.Router) {
			r.Post("/", s.handleRecommendation)
			r.Post("/position", s.handlePosition)
			r.Post("/entry", s.handleEntryPrice)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.handleHistoryList)
			r.Get("/{id}", s.handleHistoryGet)
			r.Get("/{id}/export", s.handleHistoryExport)
			r.Delete("/{id}", s.handleHistoryDelete)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Router returns the chi mux, used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
