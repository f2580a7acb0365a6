package report

import (
	"strconv"
	"strings"
)

// ExtractParameters scans raw OCR text for every catalog entry and returns
// the classified parameters it finds. It is total over any string input: text
// with no recognizable tests yields an empty slice, never an error.
//
// Each catalog entry contributes at most one parameter per document; the
// first line that matches one of the entry's patterns wins. Names already
// collected suppress later finds whose names contain them (or are contained
// by them) case-insensitively, so synonym entries do not double-report the
// same underlying test.
func ExtractParameters(rawText string) []LabParameter {
	lines := strings.Split(rawText, "\n")
	parameters := make([]LabParameter, 0, 8)

	for _, ce := range compiledCatalog {
		param, ok := ce.findFirst(lines)
		if !ok {
			continue
		}
		if isDuplicateName(parameters, param.Name) {
			continue
		}
		parameters = append(parameters, param)
	}

	return parameters
}

// findFirst tries the entry's patterns against every line and returns the
// first valid extraction.
func (ce compiledEntry) findFirst(lines []string) (LabParameter, bool) {
	for _, line := range lines {
		for _, re := range ce.patterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			name, value, ok := disambiguate(m[1], m[2], ce.primaryName)
			if !ok || value <= 0 {
				// A group that is not a positive number is either OCR noise
				// or a row index; try the next pattern shape.
				continue
			}
			status := classifyStatus(value, ce.entry.normalRange)
			return LabParameter{
				Name:        strings.TrimSpace(name),
				Value:       value,
				Unit:        ce.entry.unit,
				NormalRange: ce.entry.normalRange,
				Status:      status,
				Severity:    classifySeverity(status, value, ce.entry.normalRange),
			}, true
		}
	}
	return LabParameter{}, false
}

// disambiguate decides which captured group holds the test name and which
// holds the numeric value: whichever group fails to parse as a number is the
// name. If both parse as numbers the name group is unusable and the catalog's
// primary synonym stands in for it.
func disambiguate(g1, g2, primaryName string) (name string, value float64, ok bool) {
	if v1, err := strconv.ParseFloat(strings.TrimSpace(g1), 64); err == nil {
		name = strings.TrimSpace(g2)
		if name == "" {
			name = primaryName
		}
		if _, err := strconv.ParseFloat(name, 64); err == nil {
			name = primaryName
		}
		return name, v1, true
	}
	v2, err := strconv.ParseFloat(strings.TrimSpace(g2), 64)
	if err != nil {
		return "", 0, false
	}
	return g1, v2, true
}

// isDuplicateName reports whether candidate matches an already collected
// parameter by case-insensitive substring containment in either direction.
// Containment (rather than equality) is deliberate: "HB" and "Hemoglobin 10.5"
// must collapse to one record. It can also merge unrelated tests whose names
// overlap, which is accepted behavior pinned by tests.
func isDuplicateName(collected []LabParameter, candidate string) bool {
	c := strings.ToLower(strings.TrimSpace(candidate))
	for _, p := range collected {
		n := strings.ToLower(p.Name)
		if strings.Contains(n, c) || strings.Contains(c, n) {
			return true
		}
	}
	return false
}

// parseRange splits an inclusive "min-max" reference band.
func parseRange(normalRange string) (min, max float64, ok bool) {
	parts := strings.SplitN(normalRange, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	min, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	max, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil || max <= min {
		return 0, 0, false
	}
	return min, max, true
}

// classifyStatus places a value relative to its reference band. The band is
// inclusive: values equal to min or max are normal.
func classifyStatus(value float64, normalRange string) Status {
	min, max, ok := parseRange(normalRange)
	if !ok {
		return StatusNormal
	}
	if value < min {
		return StatusLow
	}
	if value > max {
		return StatusHigh
	}
	return StatusNormal
}

// classifySeverity grades an out-of-range value by its normalized deviation
// from the violated boundary, relative to the width of the normal band. The
// comparisons are strict: a deviation of exactly 0.2 or 0.5 stays in the
// lower tier.
func classifySeverity(status Status, value float64, normalRange string) Severity {
	if status == StatusNormal {
		return SeverityNormal
	}
	min, max, ok := parseRange(normalRange)
	if !ok {
		return SeverityNormal
	}
	width := max - min

	var deviation float64
	if status == StatusHigh {
		deviation = (value - max) / width
	} else {
		deviation = (min - value) / width
	}

	switch {
	case deviation > 0.5:
		return SeverityCritical
	case deviation > 0.2:
		return SeverityModerate
	default:
		return SeverityMild
	}
}
