// Package scoring turns raw GitHub API data into profile metrics and scores
// candidates against a hiring brief. Everything here is pure computation;
// all I/O lives in the adapters.
package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/hireloop/devscout/internal/domain"
	"github.com/hireloop/devscout/internal/port"
)

const (
	recentWindow   = 30 * 24 * time.Hour
	extendedWindow = 60 * 24 * time.Hour
	yearDays       = 365
)

// ExtractMetrics derives a ProfileMetrics from raw profile, repository, and
// event data. Forked repositories are excluded from star/fork totals and from
// language/topic aggregation. The clock is passed in so results are
// reproducible.
func ExtractMetrics(p *port.Profile, repos []port.Repository, events []port.Event, topRepoLimit int, now time.Time) domain.ProfileMetrics {
	m := domain.ProfileMetrics{
		Username:    p.Login,
		DisplayName: p.Name,
		Bio:         p.Bio,
		Location:    p.Location,
		Company:     p.Company,
		Blog:        p.Blog,
		AvatarURL:   p.AvatarURL,
		Followers:   p.Followers,
		Following:   p.Following,
		PublicRepos: p.PublicRepos,
		Hireability: domain.HireabilitySignals{
			Hireable:   p.Hireable,
			HasEmail:   p.Email != "",
			HasBio:     p.Bio != "",
			HasWebsite: p.Blog != "",
		},
	}

	if !p.CreatedAt.IsZero() {
		years := now.Sub(p.CreatedAt).Hours() / 24 / yearDays
		m.AccountAgeYears = math.Round(years*10) / 10
	}

	langCounts := make(map[string]int)
	topicSet := make(map[string]struct{})
	var sourceRepos []port.Repository

	for _, r := range repos {
		if r.Fork {
			continue
		}
		sourceRepos = append(sourceRepos, r)
		m.TotalStars += r.Stars
		m.TotalForks += r.Forks
		if r.Language != "" {
			langCounts[r.Language]++
		}
		for _, t := range r.Topics {
			topicSet[t] = struct{}{}
		}
		if lastTouched(r).After(now.Add(-recentWindow)) {
			m.RecentRepos++
		}
	}

	m.Languages = rankLanguages(langCounts)
	m.Topics = sortedKeys(topicSet)
	m.TopRepos = topRepos(sourceRepos, topRepoLimit)
	m.Activity = classifyActivity(events, now)
	m.Contributions = countContributions(events, now)

	return m
}

// classifyActivity applies the 30-day thresholds in strict descending order;
// each check assumes the previous ones failed. Only the final "low" tier
// looks at the 60-day window.
func classifyActivity(events []port.Event, now time.Time) domain.ActivityLevel {
	var last30, last60 int
	for _, e := range events {
		if e.CreatedAt.After(now.Add(-recentWindow)) {
			last30++
		}
		if e.CreatedAt.After(now.Add(-extendedWindow)) {
			last60++
		}
	}

	switch {
	case last30 >= 50:
		return domain.ActivityVeryActive
	case last30 >= 20:
		return domain.ActivityActive
	case last30 >= 5:
		return domain.ActivityModerate
	case last60 >= 5:
		return domain.ActivityLow
	default:
		return domain.ActivityInactive
	}
}

func countContributions(events []port.Event, now time.Time) domain.ContributionStats {
	var stats domain.ContributionStats
	for _, e := range events {
		if !e.CreatedAt.After(now.Add(-extendedWindow)) {
			continue
		}
		switch e.Type {
		case "PushEvent":
			stats.PushEvents++
		case "PullRequestEvent", "PullRequestReviewEvent", "PullRequestReviewCommentEvent":
			stats.PREvents++
		case "IssuesEvent", "IssueCommentEvent":
			stats.IssueEvents++
		}
	}
	return stats
}

// rankLanguages weights each language by repository count and returns a
// descending list of {name, percentage}. Percentages are rounded to one
// decimal, so their sum never exceeds 100.
func rankLanguages(counts map[string]int) []domain.LanguageStat {
	if len(counts) == 0 {
		return nil
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	stats := make([]domain.LanguageStat, 0, len(counts))
	for name, n := range counts {
		pct := float64(n) / float64(total) * 100
		stats = append(stats, domain.LanguageStat{
			Name:       name,
			Percentage: math.Floor(pct*10) / 10,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Percentage != stats[j].Percentage {
			return stats[i].Percentage > stats[j].Percentage
		}
		return stats[i].Name < stats[j].Name
	})

	return stats
}

func topRepos(repos []port.Repository, limit int) []domain.RepoSummary {
	sorted := make([]port.Repository, len(repos))
	copy(sorted, repos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Stars > sorted[j].Stars
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]domain.RepoSummary, len(sorted))
	for i, r := range sorted {
		out[i] = domain.RepoSummary{
			Name:        r.Name,
			Stars:       r.Stars,
			Language:    r.Language,
			URL:         r.HTMLURL,
			Description: r.Description,
		}
	}
	return out
}

// lastTouched prefers pushed_at but falls back to updated_at, since some
// API responses omit one of the two.
func lastTouched(r port.Repository) time.Time {
	if r.PushedAt.After(r.UpdatedAt) {
		return r.PushedAt
	}
	return r.UpdatedAt
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
