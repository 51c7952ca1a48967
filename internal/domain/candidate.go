package domain

// Brief is a hiring manager's stated requirements for a search.
// All fields are optional; an empty brief still produces a ranked list.
type Brief struct {
	RequiredSkills []string `json:"required_skills,omitempty"`
	Location       string   `json:"location,omitempty"`
	ProjectType    string   `json:"project_type,omitempty"`
}

// Candidate is a scored GitHub profile, ephemeral per ranking request.
type Candidate struct {
	Username string         `json:"username"`
	Score    int            `json:"score"`
	Reasons  []string       `json:"match_reasons"`
	Concerns []string       `json:"concerns"`
	Metrics  ProfileMetrics `json:"metrics"`
}

// FailedProfile records a username whose profile fetch errored during ranking.
type FailedProfile struct {
	Username string `json:"username"`
	Error    string `json:"error"`
}

// RankResult is the full output of a ranking request.
type RankResult struct {
	Candidates []Candidate     `json:"candidates"`
	Failed     []FailedProfile `json:"failed,omitempty"`
}
