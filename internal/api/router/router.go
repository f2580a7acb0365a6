package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/labinsight/labinsight/internal/export"
	httpmiddleware "github.com/labinsight/labinsight/internal/http/middleware"
	"github.com/labinsight/labinsight/internal/report"
	"github.com/labinsight/labinsight/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ReportHandler      *report.Handler
	ExportHandler      *export.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// RateLimiter throttles the document analyze endpoint; nil disables it.
	RateLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1/reports", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.With(httpmiddleware.Limit(cfg.RateLimiter)).Post("/analyze", cfg.ReportHandler.AnalyzeDocument)
		} else {
			r.Post("/analyze", cfg.ReportHandler.AnalyzeDocument)
		}
		r.Post("/analyze-text", cfg.ReportHandler.AnalyzeText)
		if cfg.ExportHandler != nil {
			r.Post("/export", cfg.ExportHandler.Export)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
