package domain

// ActivityLevel classifies how active a GitHub account has been recently.
type ActivityLevel string

// Activity level constants, derived from trailing 30/60-day event counts.
const (
	ActivityVeryActive ActivityLevel = "very_active"
	ActivityActive     ActivityLevel = "active"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityLow        ActivityLevel = "low"
	ActivityInactive   ActivityLevel = "inactive"
)

// LanguageStat is one entry in a profile's ranked language list.
type LanguageStat struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// RepoSummary is a condensed view of a repository for display and matching.
type RepoSummary struct {
	Name        string `json:"name"`
	Stars       int    `json:"stars"`
	Language    string `json:"language,omitempty"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// ContributionStats counts event types in the trailing activity window.
type ContributionStats struct {
	PushEvents  int `json:"push_events"`
	PREvents    int `json:"pr_events"`
	IssueEvents int `json:"issue_events"`
}

// HireabilitySignals captures weak signals that a developer may be reachable.
type HireabilitySignals struct {
	Hireable   bool `json:"hireable"`
	HasEmail   bool `json:"has_email"`
	HasBio     bool `json:"has_bio"`
	HasWebsite bool `json:"has_website"`
}

// ProfileMetrics is the derived, display-ready view of a GitHub profile.
// It is computed fresh from live API data and never persisted as its own entity.
type ProfileMetrics struct {
	Username        string             `json:"username"`
	DisplayName     string             `json:"display_name,omitempty"`
	Bio             string             `json:"bio,omitempty"`
	Location        string             `json:"location,omitempty"`
	Company         string             `json:"company,omitempty"`
	Blog            string             `json:"blog,omitempty"`
	AvatarURL       string             `json:"avatar_url,omitempty"`
	Followers       int                `json:"followers"`
	Following       int                `json:"following"`
	PublicRepos     int                `json:"public_repos"`
	AccountAgeYears float64            `json:"account_age_years"`
	TotalStars      int                `json:"total_stars"`
	TotalForks      int                `json:"total_forks"`
	Languages       []LanguageStat     `json:"languages"`
	Topics          []string           `json:"topics"`
	Activity        ActivityLevel      `json:"activity_level"`
	TopRepos        []RepoSummary      `json:"top_repos"`
	RecentRepos     int                `json:"recently_active_repos"`
	Contributions   ContributionStats  `json:"contributions"`
	Hireability     HireabilitySignals `json:"hireability"`
}
