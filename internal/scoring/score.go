package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hireloop/devscout/internal/domain"
)

const (
	baseScore = 50
	minScore  = 0
	maxScore  = 100
)

// accumulator carries the running total and explanation lists through the
// rule sequence.
type accumulator struct {
	total    int
	reasons  []string
	concerns []string
}

func (a *accumulator) add(delta int, reason string) {
	a.total += delta
	if reason != "" {
		a.reasons = append(a.reasons, reason)
	}
}

func (a *accumulator) concern(text string) {
	a.concerns = append(a.concerns, text)
}

// rules is the ordered rule table. Each rule is independent and additive;
// they interact only through the shared running total.
var rules = []func(*accumulator, *domain.ProfileMetrics, *domain.Brief){
	ruleSkillMatch,
	ruleLocation,
	ruleAccountMaturity,
	ruleActivity,
	ruleRecentRepos,
	ruleStars,
	ruleFollowers,
	ruleProjectType,
	ruleHireable,
	ruleContactInfo,
	ruleProfileGaps,
	ruleContributionDiversity,
}

// ScoreCandidate evaluates one profile against a brief. It is a pure
// function of its inputs: same metrics and brief always produce the same
// score and the same reason/concern ordering.
func ScoreCandidate(m domain.ProfileMetrics, brief domain.Brief) domain.Candidate {
	acc := &accumulator{total: baseScore}
	for _, rule := range rules {
		rule(acc, &m, &brief)
	}

	score := acc.total
	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}

	return domain.Candidate{
		Username: m.Username,
		Score:    score,
		Reasons:  acc.reasons,
		Concerns: acc.concerns,
		Metrics:  m,
	}
}

// TopCandidates sorts candidates descending by score and returns the first n.
// The sort is stable; order among equal scores is otherwise unspecified.
func TopCandidates(candidates []domain.Candidate, n int) []domain.Candidate {
	sorted := make([]domain.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// ruleSkillMatch awards up to 25 points for required skills found in the
// profile's languages or topics, penalizes briefs where nothing matched,
// and adds a primary-language bonus.
func ruleSkillMatch(acc *accumulator, m *domain.ProfileMetrics, brief *domain.Brief) {
	if len(brief.RequiredSkills) == 0 {
		return
	}

	terms := make([]string, 0, len(m.Languages)+len(m.Topics))
	for _, l := range m.Languages {
		terms = append(terms, l.Name)
	}
	terms = append(terms, m.Topics...)

	var matched []string
	for _, skill := range brief.RequiredSkills {
		if matchesAny(skill, terms) {
			matched = append(matched, skill)
		}
	}

	if len(matched) == 0 {
		acc.add(-15, "")
		acc.concern("None of the required skills appear in languages or topics")
		return
	}

	bonus := 8 * len(matched)
	if bonus > 25 {
		bonus = 25
	}
	acc.add(bonus, "Knows "+strings.Join(matched, ", "))

	if len(m.Languages) > 0 {
		primary := m.Languages[0]
		for _, skill := range brief.RequiredSkills {
			if looseMatch(skill, primary.Name) {
				acc.add(5, fmt.Sprintf("%s is primary language (%.0f%%)", primary.Name, primary.Percentage))
				break
			}
		}
	}
}

func ruleLocation(acc *accumulator, m *domain.ProfileMetrics, brief *domain.Brief) {
	if brief.Location == "" || m.Location == "" {
		return
	}
	if looseMatch(brief.Location, m.Location) {
		acc.add(12, "Located in "+m.Location)
	}
}

// ruleAccountMaturity awards the first matching tier only.
func ruleAccountMaturity(acc *accumulator, m *domain.ProfileMetrics, _ *domain.Brief) {
	age := m.AccountAgeYears
	repos := m.PublicRepos
	switch {
	case age >= 5 && repos >= 20:
		acc.add(12, fmt.Sprintf("Established account (%.1f years, %d repos)", age, repos))
	case age >= 3 && repos >= 10:
		acc.add(8, fmt.Sprintf("Seasoned account (%.1f years, %d repos)", age, repos))
	case age >= 1 && repos >= 5:
		acc.add(4, fmt.Sprintf("Active account (%.1f years, %d repos)", age, repos))
	}
}

func ruleActivity(acc *accumulator, m *domain.ProfileMetrics, _ *domain.Brief) {
	switch m.Activity {
	case domain.ActivityVeryActive:
		acc.add(15, "Very active on GitHub in the last month")
	case domain.ActivityActive:
		acc.add(10, "Active on GitHub in the last month")
	case domain.ActivityModerate:
		acc.add(5, "Moderately active on GitHub")
	case domain.ActivityLow:
		acc.concern("Low recent activity")
	case domain.ActivityInactive:
		acc.add(-8, "")
		acc.concern("No recent public activity")
	}
}

func ruleRecentRepos(acc *accumulator, m *domain.ProfileMetrics, _ *domain.Brief) {
	if m.RecentRepos >= 5 {
		acc.add(5, fmt.Sprintf("%d repos updated recently", m.RecentRepos))
	}
}

// ruleStars awards the highest matching tier only.
func ruleStars(acc *accumulator, m *domain.ProfileMetrics, _ *domain.Brief) {
	switch {
	case m.TotalStars >= 1000:
		acc.add(18, "")
	case m.TotalStars >= 100:
		acc.add(10, "")
	case m.TotalStars >= 10:
		acc.add(4, "")
	}
}

// ruleFollowers awards the highest matching tier only.
func ruleFollowers(acc *accumulator, m *domain.ProfileMetrics, _ *domain.Brief) {
	switch {
	case m.Followers >= 1000:
		acc.add(8, "")
	case m.Followers >= 100:
		acc.add(4, "")
	}
}

func ruleProjectType(acc *accumulator, m *domain.ProfileMetrics, brief *domain.Brief) {
	if brief.ProjectType == "" {
		return
	}

	if matchesAny(brief.ProjectType, m.Topics) {
		acc.add(10, "Has relevant "+brief.ProjectType+" projects")
		return
	}
	for _, r := range m.TopRepos {
		if looseMatch(brief.ProjectType, r.Name) || looseMatch(brief.ProjectType, r.Description) {
			acc.add(10, "Has relevant "+brief.ProjectType+" projects")
			return
		}
	}
}

func ruleHireable(acc *accumulator, m *domain.ProfileMetrics, _ *domain.Brief) {
	if m.Hireability.Hireable {
		acc.add(5, "Open to opportunities")
	}
}

func ruleContactInfo(acc *accumulator, m *domain.ProfileMetrics, _ *domain.Brief) {
	if m.Hireability.HasEmail && m.Hireability.HasBio {
		acc.add(3, "")
	}
}

func ruleProfileGaps(acc *accumulator, m *domain.ProfileMetrics, _ *domain.Brief) {
	if !m.Hireability.HasBio && !m.Hireability.HasWebsite {
		acc.concern("Limited profile information")
	}
}

func ruleContributionDiversity(acc *accumulator, m *domain.ProfileMetrics, _ *domain.Brief) {
	pr := m.Contributions.PREvents
	issues := m.Contributions.IssueEvents
	switch {
	case pr >= 5 && issues >= 3:
		acc.add(5, "Active in PRs and issues")
	case pr >= 3 || issues >= 5:
		acc.add(2, "")
	}
}

// looseMatch reports whether either string is a case-insensitive substring
// of the other. Both sides empty-check first so "" never matches.
func looseMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

func matchesAny(term string, candidates []string) bool {
	for _, c := range candidates {
		if looseMatch(term, c) {
			return true
		}
	}
	return false
}
