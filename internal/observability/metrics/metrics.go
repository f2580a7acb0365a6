package metrics

import "github.com/prometheus/client_golang/prometheus"

// AnalysisMetrics exposes counters/histograms for the report analysis flow.
type AnalysisMetrics struct {
	analysesTotal       *prometheus.CounterVec
	parametersExtracted prometheus.Histogram
	ocrRequestsTotal    *prometheus.CounterVec
}

func NewAnalysisMetrics(reg prometheus.Registerer) *AnalysisMetrics {
	m := &AnalysisMetrics{
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labinsight",
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Total pipeline runs by outcome",
		}, []string{"outcome"}),
		parametersExtracted: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "labinsight",
			Subsystem: "analysis",
			Name:      "parameters_extracted",
			Help:      "Parameters extracted per analyzed report",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 40, 70},
		}),
		ocrRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labinsight",
			Subsystem: "ocr",
			Name:      "requests_total",
			Help:      "Total OCR recognition requests by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.analysesTotal, m.parametersExtracted, m.ocrRequestsTotal)
	return m
}

func (m *AnalysisMetrics) ObserveAnalysis(outcome string, parameterCount int) {
	if m == nil {
		return
	}
	m.analysesTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		m.parametersExtracted.Observe(float64(parameterCount))
	}
}

func (m *AnalysisMetrics) ObserveOCRRequest(outcome string) {
	if m == nil {
		return
	}
	m.ocrRequestsTotal.WithLabelValues(outcome).Inc()
}
