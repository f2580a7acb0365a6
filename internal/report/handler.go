package report

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labinsight/labinsight/internal/observability/metrics"
	"github.com/labinsight/labinsight/internal/ocr"
	"github.com/labinsight/labinsight/pkg/logging"
)

// Recognizer is the OCR boundary the handler depends on. The core treats it
// as opaque: it returns raw text or a descriptive terminal error.
type Recognizer interface {
	Recognize(ctx context.Context, filename string, document io.Reader) (string, error)
}

// Handler handles HTTP requests for report analysis
type Handler struct {
	analyzer       *Analyzer
	recognizer     Recognizer
	metrics        *metrics.AnalysisMetrics
	logger         *logging.Logger
	maxUploadBytes int64
}

// NewHandler creates a new report handler. recognizer may be nil when no OCR
// credential is configured; document uploads then return 503 while the
// text-only endpoint keeps working.
func NewHandler(analyzer *Analyzer, recognizer Recognizer, m *metrics.AnalysisMetrics, logger *logging.Logger, maxUploadBytes int64) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 * 1024 * 1024
	}
	return &Handler{
		analyzer:       analyzer,
		recognizer:     recognizer,
		metrics:        m,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// AnalyzeDocument handles POST /api/v1/reports/analyze requests: a multipart
// document upload that is OCR'd and run through the full pipeline.
func (h *Handler) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	if h.recognizer == nil {
		http.Error(w, "document recognition is not configured", http.StatusServiceUnavailable)
		return
	}

	// Leave headroom for multipart framing around the document itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+64*1024)
	file, header, err := r.FormFile("document")
	if err != nil {
		file, header, err = r.FormFile("file")
	}
	if err != nil {
		http.Error(w, "missing document upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	text, err := h.recognizer.Recognize(r.Context(), header.Filename, file)
	if err != nil {
		h.logger.Error("text recognition failed", "file", header.Filename, "error", err)
		h.metrics.ObserveOCRRequest(ocrOutcome(err))
		http.Error(w, recognitionMessage(err), recognitionStatusCode(err))
		return
	}
	h.metrics.ObserveOCRRequest("ok")

	h.respondWithAnalysis(w, text)
}

// AnalyzeTextRequest is the payload for the text-only analysis endpoint.
type AnalyzeTextRequest struct {
	Text string `json:"text"`
}

// AnalyzeText handles POST /api/v1/reports/analyze-text requests for callers
// that already hold recognized text.
func (h *Handler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.respondWithAnalysis(w, req.Text)
}

func (h *Handler) respondWithAnalysis(w http.ResponseWriter, text string) {
	result, err := h.analyzer.Analyze(text)
	if err != nil {
		if errors.Is(err, ErrLowQualityScan) {
			http.Error(w, "The scan quality is too low to analyze. Please upload a clearer image.", http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("analysis failed", "error", err)
		http.Error(w, "analysis failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(result)
}

// recognitionStatusCode maps the OCR error taxonomy onto HTTP statuses:
// oversized uploads are the client's fault, unreadable scans are
// unprocessable, everything upstream is a bad gateway.
func recognitionStatusCode(err error) int {
	switch {
	case errors.Is(err, ocr.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ocr.ErrNoText):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// recognitionMessage returns the single user-facing message for a terminal
// recognition error. No internal detail is exposed.
func recognitionMessage(err error) string {
	switch {
	case errors.Is(err, ocr.ErrFileTooLarge):
		return "File too large. Please use a file smaller than 5MB."
	case errors.Is(err, ocr.ErrNoText):
		return "No readable text could be extracted. Please ensure the image is clear."
	case errors.Is(err, ocr.ErrInvalidCredentials):
		return "Text recognition is misconfigured. Please contact support."
	case errors.Is(err, ocr.ErrQuotaExceeded):
		return "Text recognition is temporarily unavailable. Please try again later."
	default:
		return "Text recognition failed. Please try again."
	}
}

func ocrOutcome(err error) string {
	switch {
	case errors.Is(err, ocr.ErrFileTooLarge):
		return "too_large"
	case errors.Is(err, ocr.ErrNoText):
		return "no_text"
	case errors.Is(err, ocr.ErrInvalidCredentials):
		return "bad_credentials"
	case errors.Is(err, ocr.ErrQuotaExceeded):
		return "quota"
	default:
		return "error"
	}
}
