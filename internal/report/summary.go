package report

// Summary holds the display counts derived from a parameter list. The export
// layer recomputes these independently; both derivations must agree.
type Summary struct {
	Total    int `json:"total"`
	Normal   int `json:"normal"`
	Abnormal int `json:"abnormal"`
	Critical int `json:"critical"`
}

// Summarize counts parameters by status and severity. Every parameter is
// either normal or abnormal, and critical is a subset of abnormal.
func Summarize(parameters []EnhancedParameter) Summary {
	s := Summary{Total: len(parameters)}
	for _, p := range parameters {
		if p.Status == StatusNormal {
			s.Normal++
			continue
		}
		s.Abnormal++
		if p.Severity == SeverityCritical {
			s.Critical++
		}
	}
	return s
}
