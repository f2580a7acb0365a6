package export

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labinsight/labinsight/internal/report"
	"github.com/labinsight/labinsight/pkg/logging"
)

// Handler serves the printable document export.
type Handler struct {
	logger *logging.Logger
}

// NewHandler creates a new export handler.
func NewHandler(logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{logger: logger}
}

// Export handles POST /api/v1/reports/export requests: it receives a
// previously computed AnalysisResult and returns the printable HTML document.
// Severity and urgency are rendered as received, never recomputed.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var result report.AnalysisResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		h.logger.Error("failed to decode analysis result", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, &result); err != nil {
		h.logger.Error("failed to render printable report", "error", err)
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
