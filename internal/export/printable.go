package export

import (
	"fmt"
	"html/template"
	"io"

	"github.com/labinsight/labinsight/internal/report"
)

// Summary holds the counts the printable layout is built around. They are
// recomputed here from the parameter list rather than taken from the
// dashboard, and must always agree with what the parameters imply.
type Summary struct {
	Total    int
	Normal   int
	Abnormal int
	Critical int
}

// Summarize derives layout counts from an analysis result.
func Summarize(result *report.AnalysisResult) Summary {
	s := Summary{Total: len(result.Parameters)}
	for _, p := range result.Parameters {
		if p.Status == report.StatusNormal {
			s.Normal++
			continue
		}
		s.Abnormal++
		if p.Severity == report.SeverityCritical {
			s.Critical++
		}
	}
	return s
}

// urgencyColor maps the recommendation's urgency to the print color scheme.
// The urgency value is the single source of truth for coloring; the renderer
// never re-derives severity.
func urgencyColor(u report.Urgency) string {
	switch u {
	case report.UrgencyCritical, report.UrgencyUrgent:
		return "#dc2626" // red
	case report.UrgencyModerate:
		return "#ea580c" // orange
	case report.UrgencyRoutine:
		return "#2563eb" // blue
	}
	return "#2563eb"
}

func statusColor(s report.Status) string {
	if s == report.StatusNormal {
		return "#16a34a"
	}
	return "#dc2626"
}

var reportTemplate = template.Must(template.New("printable").Funcs(template.FuncMap{
	"urgencyColor": urgencyColor,
	"statusColor":  statusColor,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Lab Report Analysis</title>
<style>
body { font-family: Georgia, serif; margin: 40px; color: #111; }
h1 { border-bottom: 2px solid #111; padding-bottom: 8px; }
.meta td { padding: 2px 16px 2px 0; }
.summary { display: flex; gap: 24px; margin: 16px 0; }
.summary div { border: 1px solid #ccc; padding: 8px 16px; }
table.params { border-collapse: collapse; width: 100%; margin-top: 16px; }
table.params th, table.params td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
.recommendation { margin-top: 24px; padding: 12px 16px; border-left: 6px solid {{ urgencyColor .Result.Recommendation.Urgency }}; }
.disclaimer { margin-top: 32px; font-size: 0.8em; color: #555; }
@media print { body { margin: 12mm; } }
</style>
</head>
<body>
<h1>Lab Report Analysis</h1>
{{ if .Result.PatientInfo.LabName }}<p>{{ .Result.PatientInfo.LabName }}</p>{{ end }}
<table class="meta">
<tr><td>Patient</td><td>{{ .Result.PatientInfo.Name }}</td></tr>
<tr><td>Age</td><td>{{ .Result.PatientInfo.Age }}</td></tr>
<tr><td>Gender</td><td>{{ .Result.PatientInfo.Gender }}</td></tr>
<tr><td>Report date</td><td>{{ .Result.PatientInfo.ReportDate }}</td></tr>
</table>
<div class="summary">
<div><strong>{{ .Summary.Total }}</strong> tests</div>
<div><strong>{{ .Summary.Normal }}</strong> normal</div>
<div><strong>{{ .Summary.Abnormal }}</strong> abnormal</div>
<div><strong>{{ .Summary.Critical }}</strong> critical</div>
</div>
<table class="params">
<tr><th>Test</th><th>Result</th><th>Reference range</th><th>Status</th><th>Notes</th></tr>
{{ range .Result.Parameters }}
<tr>
<td>{{ .Name }}</td>
<td>{{ .Value }} {{ .Unit }}</td>
<td>{{ .NormalRange }}</td>
<td style="color: {{ statusColor .Status }}">{{ .Status }}{{ if ne .Severity "normal" }} ({{ .Severity }}){{ end }}</td>
<td>{{ .Explanation }}</td>
</tr>
{{ end }}
</table>
<div class="recommendation">
<p><strong>Recommended follow-up:</strong> {{ .Result.Recommendation.Specialty }}, {{ .Result.Recommendation.Timeframe }}</p>
<p>{{ .Result.Recommendation.Reason }}</p>
<ol>
{{ range .Result.Recommendation.NextSteps }}<li>{{ . }}</li>
{{ end }}</ol>
</div>
<p class="disclaimer">This analysis compares reported values against general reference ranges. It is not a medical diagnosis. Always review results with a qualified clinician.</p>
</body>
</html>
`))

// Render writes the printable HTML document for an analysis result. The
// result is consumed read-only.
func Render(w io.Writer, result *report.AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("export: nil analysis result")
	}
	data := struct {
		Result  *report.AnalysisResult
		Summary Summary
	}{Result: result, Summary: Summarize(result)}
	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("export: render printable report: %w", err)
	}
	return nil
}
