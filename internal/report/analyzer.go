package report

import (
	"errors"
	"unicode"

	"github.com/labinsight/labinsight/internal/observability/metrics"
	"github.com/labinsight/labinsight/pkg/logging"
)

// ErrLowQualityScan is returned when the recognized text is too short to
// carry any report content, so the caller can prompt for a better image
// instead of rendering an empty result.
var ErrLowQualityScan = errors.New("report: not enough readable text to analyze")

// minReadableRunes is the minimum count of non-space characters considered a
// usable scan.
const minReadableRunes = 10

// Analyzer runs the full text-to-triage pipeline. All lookup tables are
// read-only package data and every run allocates its own working state, so a
// single Analyzer is safe for concurrent use.
type Analyzer struct {
	logger  *logging.Logger
	metrics *metrics.AnalysisMetrics
}

// NewAnalyzer creates an Analyzer. Both arguments may be nil.
func NewAnalyzer(logger *logging.Logger, m *metrics.AnalysisMetrics) *Analyzer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Analyzer{logger: logger, metrics: m}
}

// Analyze turns raw OCR text into a complete AnalysisResult: patient info,
// explained parameters, and a triage recommendation. Each stage returns a
// fresh structure; nothing is mutated across stages. The only error condition
// is ErrLowQualityScan for near-empty input.
func (a *Analyzer) Analyze(rawText string) (*AnalysisResult, error) {
	if readableRunes(rawText) < minReadableRunes {
		a.metrics.ObserveAnalysis("low_quality", 0)
		return nil, ErrLowQualityScan
	}

	patientInfo := ExtractPatientInfo(rawText)
	parameters := ExtractParameters(rawText)

	enhanced := make([]EnhancedParameter, 0, len(parameters))
	for _, p := range parameters {
		enhanced = append(enhanced, EnhancedParameter{
			LabParameter: p,
			Explanation:  Explain(p.Name, p.Status, p.Value, p.NormalRange),
		})
	}

	recommendation := Recommend(parameters)

	a.logger.Info("report analyzed",
		"parameters", len(parameters),
		"urgency", string(recommendation.Urgency),
		"specialty", recommendation.Specialty,
	)
	a.metrics.ObserveAnalysis("ok", len(parameters))

	return &AnalysisResult{
		PatientInfo:    patientInfo,
		Parameters:     enhanced,
		Recommendation: recommendation,
	}, nil
}

func readableRunes(s string) int {
	count := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			count++
		}
	}
	return count
}
