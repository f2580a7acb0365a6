package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// now is stubbed in tests that pin the report-date fallback.
var now = time.Now

// Ordered most specific first; the first pattern whose capture passes the
// field's plausibility filter wins.
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Patient\s*Name|Name|PATIENT|Mr\.|Mrs\.|Ms\.)\s*[:\-]?\s*([A-Za-z .]{2,40})`),
	regexp.MustCompile(`(?i)Name\s*:\s*([A-Za-z .]{2,40})`),
	regexp.MustCompile(`(?i)Patient\s*:\s*([A-Za-z .]{2,40})`),
	regexp.MustCompile(`(?m)^([A-Z][a-z]+\s+[A-Z][a-z]+)`),
}

var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Age\s*[:\-]?\s*(\d{1,3})\s*(?:Years?|YRS?|Y)?`),
	regexp.MustCompile(`(?i)(\d{1,3})\s*(?:Years?|YRS?|Y)\s*(?:old)?`),
	regexp.MustCompile(`(?i)Age[:\s]*(\d{1,3})`),
}

var genderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Sex|Gender)\s*[:\-]?\s*(M|F|Male|Female)`),
	regexp.MustCompile(`(?i)\b(Male|Female|M|F)\b`),
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:Date|Report\s*Date|Collection\s*Date|TEST\s*DATE)\s*[:\-]?\s*(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`),
	regexp.MustCompile(`(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`),
	regexp.MustCompile(`(?i)(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{2,4})`),
}

var labNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)([A-Z\s]+(?:LAB|LABORATORY|DIAGNOSTICS|PATHOLOGY|MEDICAL|HOSPITAL|CLINIC))`),
	regexp.MustCompile(`(?i)((?:Dr\.?\s+)?[A-Z][a-z]+\s+(?:LAB|LABORATORY|DIAGNOSTICS))`),
}

// ExtractPatientInfo recovers patient demographics from raw OCR text. It
// never fails: each field falls back to a documented default when none of its
// patterns produce a plausible capture, and fields are extracted
// independently of one another.
func ExtractPatientInfo(rawText string) PatientInfo {
	info := PatientInfo{
		Name:       "Patient",
		Age:        "Unknown",
		Gender:     "Unknown",
		ReportDate: now().Format("01/02/2006"),
	}

	for _, re := range namePatterns {
		m := re.FindStringSubmatch(rawText)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if len(name) > 2 && len(name) < 40 {
			info.Name = name
			break
		}
	}

	for _, re := range agePatterns {
		m := re.FindStringSubmatch(rawText)
		if m == nil {
			continue
		}
		age, err := strconv.Atoi(m[1])
		if err == nil && age > 0 && age < 150 {
			info.Age = fmt.Sprintf("%d YRS", age)
			break
		}
	}

	for _, re := range genderPatterns {
		m := re.FindStringSubmatch(rawText)
		if m == nil {
			continue
		}
		switch strings.ToUpper(m[1]) {
		case "M", "MALE":
			info.Gender = "M"
		case "F", "FEMALE":
			info.Gender = "F"
		default:
			continue
		}
		break
	}

	for _, re := range datePatterns {
		m := re.FindStringSubmatch(rawText)
		if m == nil {
			continue
		}
		// Used verbatim; calendar validity is not checked.
		info.ReportDate = m[1]
		break
	}

	for _, re := range labNamePatterns {
		m := re.FindStringSubmatch(rawText)
		if m == nil {
			continue
		}
		info.LabName = strings.TrimSpace(m[1])
		break
	}

	return info
}
