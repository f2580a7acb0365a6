package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/labinsight/labinsight/internal/api/router"
	appconfig "github.com/labinsight/labinsight/internal/config"
	"github.com/labinsight/labinsight/internal/export"
	httpmiddleware "github.com/labinsight/labinsight/internal/http/middleware"
	"github.com/labinsight/labinsight/internal/observability/metrics"
	"github.com/labinsight/labinsight/internal/ocr"
	"github.com/labinsight/labinsight/internal/report"
	"github.com/labinsight/labinsight/pkg/logging"
)

func main() {
	// Load .env in development; ignored when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting labinsight API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	m := metrics.NewAnalysisMetrics(nil)

	var recognizer report.Recognizer
	if cfg.OCRAPIKey != "" {
		client, err := ocr.New(ocr.Config{
			BaseURL:          cfg.OCRBaseURL,
			APIKey:           cfg.OCRAPIKey,
			FallbackAPIKey:   cfg.OCRFallbackAPIKey,
			MaxDocumentBytes: cfg.MaxUploadBytes,
			Timeout:          cfg.OCRTimeout,
			MaxRetries:       cfg.OCRMaxRetries,
			Backoff:          cfg.OCRRetryBaseDelay,
			Logger:           logger.Logger,
		})
		if err != nil {
			logger.Error("failed to configure OCR client", "error", err)
			os.Exit(1)
		}
		recognizer = client
	} else {
		logger.Warn("OCR_API_KEY not set; document uploads disabled, text analysis only")
	}

	analyzer := report.NewAnalyzer(logger, m)
	reportHandler := report.NewHandler(analyzer, recognizer, m, logger, cfg.MaxUploadBytes)
	exportHandler := export.NewHandler(logger)
	rateLimiter := httpmiddleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)

	r := router.New(&router.Config{
		Logger:             logger,
		ReportHandler:      reportHandler,
		ExportHandler:      exportHandler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        rateLimiter,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
