package domain

// RepoReport is the structured result of a sandboxed repository deep-analysis.
// When the model's structured output fails validation, Summary holds the raw
// notes and Fallback is set.
type RepoReport struct {
	Repository   string   `json:"repository"`
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths,omitempty"`
	Concerns     []string `json:"concerns,omitempty"`
	QualityScore int      `json:"quality_score"`
	Fallback     bool     `json:"fallback,omitempty"`
}

// ResearchSource is one web page consulted during research.
type ResearchSource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ResearchReport is the synthesized result of a multi-step web research run.
type ResearchReport struct {
	Query       string           `json:"query"`
	Summary     string           `json:"summary"`
	KeyFindings []string         `json:"key_findings,omitempty"`
	Sources     []ResearchSource `json:"sources,omitempty"`
	Fallback    bool             `json:"fallback,omitempty"`
}
