package scoring

import (
	"testing"
	"time"

	"github.com/hireloop/devscout/internal/domain"
	"github.com/hireloop/devscout/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func TestExtractMetricsAccountAge(t *testing.T) {
	p := &port.Profile{
		Login:     "alice",
		CreatedAt: testNow.AddDate(-3, 0, 0),
	}

	m := ExtractMetrics(p, nil, nil, 5, testNow)

	assert.InDelta(t, 3.0, m.AccountAgeYears, 0.05)
}

func TestExtractMetricsForkExclusion(t *testing.T) {
	p := &port.Profile{Login: "alice"}
	repos := []port.Repository{
		{Name: "own", Stars: 10, Forks: 2, Language: "Go", Topics: []string{"cli"}},
		{Name: "forked", Stars: 500, Forks: 50, Language: "C", Fork: true, Topics: []string{"kernel"}},
	}

	m := ExtractMetrics(p, repos, nil, 5, testNow)

	assert.Equal(t, 10, m.TotalStars)
	assert.Equal(t, 2, m.TotalForks)
	require.Len(t, m.Languages, 1)
	assert.Equal(t, "Go", m.Languages[0].Name)
	assert.Equal(t, []string{"cli"}, m.Topics)
	require.Len(t, m.TopRepos, 1)
	assert.Equal(t, "own", m.TopRepos[0].Name)
}

func TestExtractMetricsLanguageRanking(t *testing.T) {
	p := &port.Profile{Login: "alice"}
	repos := []port.Repository{
		{Name: "a", Language: "Go"},
		{Name: "b", Language: "Go"},
		{Name: "c", Language: "Go"},
		{Name: "d", Language: "Rust"},
	}

	m := ExtractMetrics(p, repos, nil, 5, testNow)

	require.Len(t, m.Languages, 2)
	assert.Equal(t, domain.LanguageStat{Name: "Go", Percentage: 75}, m.Languages[0])
	assert.Equal(t, domain.LanguageStat{Name: "Rust", Percentage: 25}, m.Languages[1])

	var sum float64
	for _, l := range m.Languages {
		sum += l.Percentage
	}
	assert.LessOrEqual(t, sum, 100.0)
}

func TestExtractMetricsTopRepos(t *testing.T) {
	p := &port.Profile{Login: "alice"}
	repos := []port.Repository{
		{Name: "small", Stars: 1},
		{Name: "big", Stars: 300},
		{Name: "mid", Stars: 40},
		{Name: "tiny", Stars: 0},
	}

	m := ExtractMetrics(p, repos, nil, 2, testNow)

	require.Len(t, m.TopRepos, 2)
	assert.Equal(t, "big", m.TopRepos[0].Name)
	assert.Equal(t, "mid", m.TopRepos[1].Name)
}

func TestExtractMetricsRecentRepos(t *testing.T) {
	p := &port.Profile{Login: "alice"}
	repos := []port.Repository{
		{Name: "fresh", PushedAt: daysAgo(3)},
		{Name: "fresh-update-only", UpdatedAt: daysAgo(10)},
		{Name: "stale", PushedAt: daysAgo(90)},
		{Name: "forked-fresh", PushedAt: daysAgo(1), Fork: true},
	}

	m := ExtractMetrics(p, repos, nil, 5, testNow)

	assert.Equal(t, 2, m.RecentRepos)
}

// TestClassifyActivityCascade pins the strict threshold order: exactly 50
// events is very_active, exactly 49 is active, and so on down the tiers.
func TestClassifyActivityCascade(t *testing.T) {
	tests := []struct {
		name   string
		last30 int
		last60 int // events between 30 and 60 days ago
		want   domain.ActivityLevel
	}{
		{"exactly 50 recent", 50, 0, domain.ActivityVeryActive},
		{"exactly 49 recent", 49, 0, domain.ActivityActive},
		{"exactly 20 recent", 20, 0, domain.ActivityActive},
		{"exactly 19 recent", 19, 0, domain.ActivityModerate},
		{"exactly 5 recent", 5, 0, domain.ActivityModerate},
		{"4 recent but 5 in 60 days", 4, 1, domain.ActivityLow},
		{"0 recent 5 older", 0, 5, domain.ActivityLow},
		{"nothing anywhere", 0, 0, domain.ActivityInactive},
		{"4 recent nothing older", 4, 0, domain.ActivityInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []port.Event
			for i := 0; i < tt.last30; i++ {
				events = append(events, port.Event{Type: "PushEvent", CreatedAt: daysAgo(10)})
			}
			for i := 0; i < tt.last60; i++ {
				events = append(events, port.Event{Type: "PushEvent", CreatedAt: daysAgo(45)})
			}

			assert.Equal(t, tt.want, classifyActivity(events, testNow))
		})
	}
}

func TestCountContributions(t *testing.T) {
	events := []port.Event{
		{Type: "PushEvent", CreatedAt: daysAgo(5)},
		{Type: "PushEvent", CreatedAt: daysAgo(40)},
		{Type: "PullRequestEvent", CreatedAt: daysAgo(12)},
		{Type: "PullRequestReviewEvent", CreatedAt: daysAgo(14)},
		{Type: "IssuesEvent", CreatedAt: daysAgo(20)},
		{Type: "IssueCommentEvent", CreatedAt: daysAgo(25)},
		{Type: "WatchEvent", CreatedAt: daysAgo(2)},
		{Type: "PushEvent", CreatedAt: daysAgo(90)}, // outside window
	}

	stats := countContributions(events, testNow)

	assert.Equal(t, 2, stats.PushEvents)
	assert.Equal(t, 2, stats.PREvents)
	assert.Equal(t, 2, stats.IssueEvents)
}

func TestExtractMetricsHireabilitySignals(t *testing.T) {
	p := &port.Profile{
		Login:    "alice",
		Email:    "alice@example.com",
		Bio:      "systems engineer",
		Hireable: true,
	}

	m := ExtractMetrics(p, nil, nil, 5, testNow)

	assert.True(t, m.Hireability.Hireable)
	assert.True(t, m.Hireability.HasEmail)
	assert.True(t, m.Hireability.HasBio)
	assert.False(t, m.Hireability.HasWebsite)
}
