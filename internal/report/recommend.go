package report

import (
	"fmt"
	"strings"
)

const maxNextSteps = 5

// nextStepsByUrgency keys the follow-up checklist on the urgency tier alone.
var nextStepsByUrgency = map[Urgency][]string{
	UrgencyCritical: {
		"Contact your healthcare provider immediately",
		"Do not delay seeking medical care",
		"Bring your complete lab report",
		"Have emergency contact information ready",
	},
	UrgencyModerate: {
		"Schedule an appointment with your doctor",
		"Prepare a list of current medications",
		"Note any symptoms or changes in health",
	},
	UrgencyRoutine: {
		"Schedule a routine follow-up appointment",
		"Continue current healthy lifestyle",
		"Monitor overall health",
	},
}

// Recommend aggregates classified parameters into a single triage verdict.
// Tiers are evaluated most severe first and are mutually exclusive: any
// critical-severity parameter forces the critical tier, more than three
// abnormal parameters the moderate tier, one to three the routine monitoring
// tier, and an empty or all-normal list the all-normal tier. The function is
// pure and deterministic for a given parameter list.
func Recommend(parameters []LabParameter) Recommendation {
	abnormal := make([]LabParameter, 0, len(parameters))
	critical := make([]LabParameter, 0)
	for _, p := range parameters {
		if p.Status != StatusNormal {
			abnormal = append(abnormal, p)
		}
		if p.Severity == SeverityCritical {
			critical = append(critical, p)
		}
	}

	var rec Recommendation
	switch {
	case len(critical) > 0:
		rec = Recommendation{
			Specialty: criticalSpecialty(critical),
			Urgency:   UrgencyCritical,
			Reason: fmt.Sprintf("Critical values detected for %s. Immediate medical evaluation required to prevent complications.",
				joinNames(critical)),
			Timeframe: "Within 24 hours",
		}
	case len(abnormal) > 3:
		rec = Recommendation{
			Specialty: inferSpecialty(abnormal),
			Urgency:   UrgencyModerate,
			Reason: fmt.Sprintf("Multiple parameters (%d) are outside the normal range, suggesting systemic involvement requiring comprehensive evaluation.",
				len(abnormal)),
			Timeframe: "Within 1-2 weeks",
		}
	case len(abnormal) > 0:
		rec = Recommendation{
			Specialty: inferSpecialty(abnormal),
			Urgency:   UrgencyRoutine,
			Reason: fmt.Sprintf("%d parameter(s) need attention. Early intervention can prevent progression to more serious conditions.",
				len(abnormal)),
			Timeframe: "Within 2-4 weeks",
		}
	default:
		rec = Recommendation{
			Specialty: "General Physician",
			Urgency:   UrgencyRoutine,
			Reason:    "All parameters are within normal limits. Continue current health maintenance practices.",
			Timeframe: "Annual check-up",
		}
	}

	rec.NextSteps = dedupeStrings(nextStepsByUrgency[rec.Urgency], maxNextSteps)
	return rec
}

// criticalSpecialty routes a critical result to the specialty owning the
// affected system, falling back to emergency medicine when the critical
// parameter belongs to none of the mapped systems.
func criticalSpecialty(critical []LabParameter) string {
	for _, keyword := range []struct{ substr, specialty string }{
		{"creatinine", "Nephrologist"},
		{"glucose", "Endocrinologist"},
		{"hemoglobin", "Hematologist"},
	} {
		for _, p := range critical {
			if strings.Contains(strings.ToLower(p.Name), keyword.substr) {
				return keyword.specialty
			}
		}
	}
	return "Emergency Medicine"
}

// inferSpecialty scans abnormal parameter names for domain keywords in fixed
// priority order: kidney before glucose before blood. First match wins.
func inferSpecialty(abnormal []LabParameter) string {
	hasKeyword := func(substr string) bool {
		for _, p := range abnormal {
			if strings.Contains(strings.ToLower(p.Name), substr) {
				return true
			}
		}
		return false
	}
	switch {
	case hasKeyword("creatinine"):
		return "Nephrologist"
	case hasKeyword("glucose"):
		return "Endocrinologist"
	case hasKeyword("hemoglobin"):
		return "Hematologist"
	default:
		return "General Physician"
	}
}

func joinNames(params []LabParameter) string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

// dedupeStrings removes duplicates preserving first-seen order and caps the
// result length.
func dedupeStrings(in []string, max int) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if len(out) == max {
			break
		}
	}
	return out
}
