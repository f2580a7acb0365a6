package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findParameter(t *testing.T, params []LabParameter, nameSubstr string) LabParameter {
	t.Helper()
	for _, p := range params {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(nameSubstr)) {
			return p
		}
	}
	t.Fatalf("no parameter with name containing %q in %v", nameSubstr, params)
	return LabParameter{}
}

func TestExtractParameters_HemoglobinScenario(t *testing.T) {
	// Pins the exact boundary math: d = (13.0-10.5)/4.0 = 0.625 > 0.5.
	params := ExtractParameters("Hemoglobin 10.5 g/dL")

	require.Len(t, params, 1)
	p := params[0]
	assert.Contains(t, p.Name, "Hemoglobin")
	assert.Equal(t, 10.5, p.Value)
	assert.Equal(t, "g/dL", p.Unit)
	assert.Equal(t, "13.0-17.0", p.NormalRange)
	assert.Equal(t, StatusLow, p.Status)
	assert.Equal(t, SeverityCritical, p.Severity)
}

func TestExtractParameters_PatternShapes(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		test  string
		value float64
	}{
		{"colon separator", "Glucose: 126 mg/dL", "Glucose", 126},
		{"dash separator", "Creatinine - 1.1 mg/dL", "Creatinine", 1.1},
		{"no separator", "TSH 2.5 mIU/L", "TSH", 2.5},
		{"loose spacing", "Platelet Count ........ 180", "Platelet", 180},
		{"value before name", "55 mg/dL result for HDL", "HDL", 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := ExtractParameters(tt.line)
			p := findParameter(t, params, tt.test)
			assert.Equal(t, tt.value, p.Value)
		})
	}
}

func TestExtractParameters_SynonymUsesFoundName(t *testing.T) {
	params := ExtractParameters("HB: 14.2 g/dL")

	require.Len(t, params, 1)
	assert.Equal(t, "HB", params[0].Name)
	assert.Equal(t, StatusNormal, params[0].Status)
}

func TestExtractParameters_RejectsNonPositiveValues(t *testing.T) {
	// Zero-valued captures are list/row indices or OCR noise, never results.
	params := ExtractParameters("Glucose 0\nCreatinine 0.0")
	assert.Empty(t, params)
}

func TestExtractParameters_NoMatchesYieldsEmptySlice(t *testing.T) {
	params := ExtractParameters("entirely unrelated scribbles without any tests")
	require.NotNil(t, params)
	assert.Empty(t, params)
}

func TestExtractParameters_OneParameterPerCatalogEntry(t *testing.T) {
	// The same test on two lines must produce a single record; the first
	// matching line wins.
	params := ExtractParameters("Glucose 126 mg/dL\nGlucose 99 mg/dL")

	require.Len(t, params, 1)
	assert.Equal(t, float64(126), params[0].Value)
}

func TestExtractParameters_DeduplicatesSynonymForms(t *testing.T) {
	// Hemoglobin reported both spelled out and abbreviated is one test.
	params := ExtractParameters("Hemoglobin 10.5 g/dL\nHB 10.5")

	count := 0
	for _, p := range params {
		lower := strings.ToLower(p.Name)
		if strings.Contains(lower, "hemoglobin") || strings.Contains(lower, "hb") {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractParameters_SubstringDedupSwallowsRelatedTest(t *testing.T) {
	// Documents current behavior: because duplicate suppression uses
	// substring containment, "Direct Bilirubin" is merged into a previously
	// extracted "Bilirubin" record even though they are distinct tests.
	params := ExtractParameters("Bilirubin 1.0 mg/dL\nDirect Bilirubin 0.2 mg/dL")

	require.Len(t, params, 1)
	assert.Equal(t, "Bilirubin", params[0].Name)
}

func TestExtractParameters_MultiplePanels(t *testing.T) {
	text := strings.Join([]string{
		"COMPLETE BLOOD COUNT",
		"Hemoglobin 11.2 g/dL",
		"Platelet Count 95 thousand/mcL",
		"KIDNEY FUNCTION",
		"Creatinine 2.4 mg/dL",
		"Urea 48 mg/dL",
	}, "\n")

	params := ExtractParameters(text)

	hb := findParameter(t, params, "Hemoglobin")
	assert.Equal(t, StatusLow, hb.Status)
	assert.Equal(t, SeverityModerate, hb.Severity) // d = 1.8/4.0 = 0.45

	plt := findParameter(t, params, "Platelet")
	assert.Equal(t, StatusLow, plt.Status)

	cre := findParameter(t, params, "Creatinine")
	assert.Equal(t, StatusHigh, cre.Status)
	assert.Equal(t, SeverityCritical, cre.Severity) // d = 1.1/0.7 > 0.5

	urea := findParameter(t, params, "Urea")
	assert.Equal(t, StatusHigh, urea.Status)
}

func TestClassifyStatus_Exhaustive(t *testing.T) {
	tests := []struct {
		value float64
		want  Status
	}{
		{69.9, StatusLow},
		{70, StatusNormal}, // band is inclusive at min
		{85, StatusNormal},
		{100, StatusNormal}, // and at max
		{100.1, StatusHigh},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.value), func(t *testing.T) {
			assert.Equal(t, tt.want, classifyStatus(tt.value, "70-100"))
		})
	}
}

func TestClassifySeverity_Breakpoints(t *testing.T) {
	// Range 100-200, width 100: deviations land exactly on the documented
	// breakpoints. The comparator is strict, so 0.2 and 0.5 stay in the
	// lower tier.
	tests := []struct {
		name   string
		status Status
		value  float64
		want   Severity
	}{
		{"high d=0.2 exactly", StatusHigh, 220, SeverityMild},
		{"high d just over 0.2", StatusHigh, 220.1, SeverityModerate},
		{"high d=0.5 exactly", StatusHigh, 250, SeverityModerate},
		{"high d just over 0.5", StatusHigh, 250.1, SeverityCritical},
		{"low d=0.2 exactly", StatusLow, 80, SeverityMild},
		{"low d just over 0.2", StatusLow, 79.9, SeverityModerate},
		{"low d=0.5 exactly", StatusLow, 50, SeverityModerate},
		{"low d just over 0.5", StatusLow, 49.9, SeverityCritical},
		{"normal is normal", StatusNormal, 150, SeverityNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifySeverity(tt.status, tt.value, "100-200"))
		})
	}
}

func TestClassifySeverity_MirroredDirections(t *testing.T) {
	// Same normalized deviation on either side of the band grades the same.
	high := classifySeverity(StatusHigh, 230, "100-200")
	low := classifySeverity(StatusLow, 70, "100-200")
	assert.Equal(t, high, low)
}

func TestParseRange(t *testing.T) {
	min, max, ok := parseRange("13.0-17.0")
	require.True(t, ok)
	assert.Equal(t, 13.0, min)
	assert.Equal(t, 17.0, max)

	_, _, ok = parseRange("not a range")
	assert.False(t, ok)

	_, _, ok = parseRange("17.0-13.0")
	assert.False(t, ok)
}

func TestCatalogIsWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range testCatalog {
		require.NotEmpty(t, e.synonyms)
		require.False(t, seen[e.synonyms], "duplicate catalog entry %q", e.synonyms)
		seen[e.synonyms] = true

		_, _, ok := parseRange(e.normalRange)
		require.True(t, ok, "entry %q has malformed range %q", e.synonyms, e.normalRange)
	}
	assert.GreaterOrEqual(t, len(testCatalog), 70)
}
