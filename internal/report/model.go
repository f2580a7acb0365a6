package report

// Status indicates where a measured value sits relative to its reference range.
type Status string

const (
	StatusNormal Status = "normal"
	StatusHigh   Status = "high"
	StatusLow    Status = "low"
)

// Severity grades how far an out-of-range value deviates from the reference
// band, independent of direction.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeverityCritical Severity = "critical"
)

// Urgency is the recommended speed of medical follow-up.
type Urgency string

const (
	UrgencyRoutine  Urgency = "routine"
	UrgencyModerate Urgency = "moderate"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

// rank orders urgency tiers from least to most severe.
func (u Urgency) rank() int {
	switch u {
	case UrgencyRoutine:
		return 0
	case UrgencyModerate:
		return 1
	case UrgencyUrgent:
		return 2
	case UrgencyCritical:
		return 3
	}
	return 0
}

// AtLeast reports whether u is as severe as other or more so.
func (u Urgency) AtLeast(other Urgency) bool {
	return u.rank() >= other.rank()
}

// PatientInfo holds the demographic fields recovered from a report header.
// Every field is always populated; extraction failures resolve to defaults.
type PatientInfo struct {
	Name       string `json:"name"`
	Age        string `json:"age"`
	Gender     string `json:"gender"`
	ReportDate string `json:"reportDate"`
	LabName    string `json:"labName,omitempty"`
}

// LabParameter is one measured test extracted from a report. Status and
// Severity are derived purely from Value and NormalRange.
type LabParameter struct {
	Name        string   `json:"name"`
	Value       float64  `json:"value"`
	Unit        string   `json:"unit"`
	NormalRange string   `json:"normalRange"`
	Status      Status   `json:"status"`
	Severity    Severity `json:"severity"`
}

// EnhancedParameter is a LabParameter joined with its plain-language
// explanation. It is a fresh copy; the underlying LabParameter is not mutated.
type EnhancedParameter struct {
	LabParameter
	Explanation string `json:"explanation"`
}

// Recommendation is the overall triage verdict for one report.
type Recommendation struct {
	Specialty string   `json:"specialty"`
	Urgency   Urgency  `json:"urgency"`
	Reason    string   `json:"reason"`
	Timeframe string   `json:"timeframe"`
	NextSteps []string `json:"nextSteps"`
}

// AnalysisResult is the complete output of one analyze run. The presentation
// and export layers consume it read-only.
type AnalysisResult struct {
	PatientInfo    PatientInfo         `json:"patientInfo"`
	Parameters     []EnhancedParameter `json:"parameters"`
	Recommendation Recommendation      `json:"recommendation"`
}
