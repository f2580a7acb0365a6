package report

import (
	"fmt"
	"regexp"
	"strings"
)

// explanationTable maps a canonical parameter name and status to a canned
// plain-language explanation. Read-only after init; entries cover the tests
// patients ask about most, everything else gets the template fallback.
var explanationTable = map[string]map[Status]string{
	"Hemoglobin": {
		StatusLow:  "Low hemoglobin indicates anemia, which means your blood has fewer red blood cells than normal. This can cause fatigue, weakness, and shortness of breath.",
		StatusHigh: "High hemoglobin levels may indicate dehydration, lung disease, or other conditions. Your blood is thicker than normal.",
	},
	"Glucose": {
		StatusHigh: "High blood glucose levels may indicate diabetes or prediabetes.",
		StatusLow:  "Low blood glucose can cause dizziness and weakness.",
	},
	"Creatinine": {
		StatusHigh: "High creatinine levels suggest your kidneys may not be filtering waste effectively.",
	},
	"Cholesterol": {
		StatusHigh: "High cholesterol increases your risk of heart disease and stroke. Diet and exercise changes can help bring it down.",
	},
	"Liver": {
		StatusHigh: "Elevated liver enzymes suggest the liver is inflamed or under stress. Alcohol, medications, and fatty liver disease are common causes.",
	},
	"White Blood": {
		StatusHigh: "A high white blood cell count often points to an infection or inflammation your body is fighting.",
		StatusLow:  "A low white blood cell count can weaken your immune response and make infections more likely.",
	},
	"Platelet": {
		StatusLow:  "Low platelets reduce your blood's ability to clot, which can cause easy bruising or bleeding.",
		StatusHigh: "High platelets can increase clotting risk and are sometimes a reaction to inflammation or iron deficiency.",
	},
	"TSH": {
		StatusHigh: "A high TSH usually means the thyroid is underactive (hypothyroidism), which can cause tiredness and weight gain.",
		StatusLow:  "A low TSH usually means the thyroid is overactive (hyperthyroidism), which can cause palpitations and weight loss.",
	},
	"Vitamin D": {
		StatusLow: "Low vitamin D is common and can affect bone strength and immunity. Sunlight exposure and supplements usually correct it.",
	},
	"Triglycerides": {
		StatusHigh: "High triglycerides are linked to heart disease risk and are often improved by reducing sugar and alcohol intake.",
	},
	"Uric Acid": {
		StatusHigh: "High uric acid can lead to gout and kidney stones. Hydration and dietary changes often help.",
	},
	"HbA1c": {
		StatusHigh: "A high HbA1c reflects elevated average blood sugar over the past three months and may indicate diabetes.",
	},
}

var (
	cleanPrefixRe = regexp.MustCompile(`(?i)^(Mean|Total|Complete)\s+`)
	cleanCountRe  = regexp.MustCompile(`(?i)\s+Count$`)
	cleanCellRe   = regexp.MustCompile(`(?i)\s+Cell.*$`)
)

// canonicalName normalizes an extracted parameter name to its explanation
// table key: common prefixes and suffixes are stripped and cholesterol and
// liver-enzyme variants collapse to one canonical entry each.
func canonicalName(name string) string {
	cleaned := cleanPrefixRe.ReplaceAllString(name, "")
	cleaned = cleanCountRe.ReplaceAllString(cleaned, "")
	cleaned = cleanCellRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	lower := strings.ToLower(cleaned)
	if strings.Contains(lower, "cholesterol") {
		return "Cholesterol"
	}
	if strings.Contains(lower, "liver") || strings.Contains(lower, "alt") || strings.Contains(lower, "ast") {
		return "Liver"
	}

	return cleaned
}

// Explain returns a plain-language explanation for a parameter in the given
// status. It always returns non-empty text: a table miss synthesizes a
// generic sentence from the direction of the deviation and the reference
// range.
func Explain(parameterName string, status Status, value float64, normalRange string) string {
	name := canonicalName(parameterName)

	if byStatus, ok := explanationTable[name]; ok {
		if explanation, ok := byStatus[status]; ok {
			return explanation
		}
	}

	direction := "above"
	if status == StatusLow {
		direction = "below"
	}
	return fmt.Sprintf("Your %s level is %s the normal range (%s).", name, direction, normalRange)
}
