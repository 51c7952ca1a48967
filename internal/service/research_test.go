package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hireloop/devscout/internal/domain"
	"github.com/hireloop/devscout/internal/port"
	"github.com/hireloop/devscout/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearch struct {
	results   []port.SearchResult
	searchErr error
	scrapeErr map[string]error
}

func (f *fakeSearch) Search(_ context.Context, _ string, _ int) ([]port.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeSearch) Scrape(_ context.Context, url string) (string, error) {
	if err, ok := f.scrapeErr[url]; ok {
		return "", err
	}
	return "page content for " + url, nil
}

func TestResearchHappyPath(t *testing.T) {
	search := &fakeSearch{results: []port.SearchResult{
		{Title: "Talk at GopherCon", URL: "https://example.com/talk", Snippet: "a talk"},
		{Title: "Blog post", URL: "https://example.com/blog", Snippet: "a post"},
	}}
	aiProvider := &scriptedAI{responses: []string{
		"Spoke about generics at GopherCon 2024.",
		"Writes about distributed systems.",
		`{"summary": "Active public speaker and writer.", "key_findings": ["conference talk", "technical blog"]}`,
	}}
	svc := NewResearchService(search, aiProvider, 5)

	stream := svc.Research(context.Background(), "who is alice dev")
	events := drainStream(t, stream)

	assert.Equal(t, []progress.Status{
		progress.StatusInitializing,
		progress.StatusSearching,
		progress.StatusScraping,
		progress.StatusAnalyzingResult,
		progress.StatusScraping,
		progress.StatusAnalyzingResult,
		progress.StatusSynthesizing,
		progress.StatusComplete,
	}, statuses(events))

	var report domain.ResearchReport
	require.NoError(t, json.Unmarshal(events[len(events)-1].Result, &report))
	assert.Equal(t, "who is alice dev", report.Query)
	assert.Len(t, report.KeyFindings, 2)
	assert.Len(t, report.Sources, 2)
	assert.False(t, report.Fallback)
}

func TestResearchNoResults(t *testing.T) {
	svc := NewResearchService(&fakeSearch{}, &scriptedAI{}, 5)

	final := svc.Research(context.Background(), "nobody at all").Wait()

	require.Equal(t, progress.StatusError, final.Status)
	assert.Contains(t, final.Error, port.ErrNoResults.Error())
}

func TestResearchScrapeFailureSkipsResult(t *testing.T) {
	search := &fakeSearch{
		results: []port.SearchResult{
			{Title: "Dead link", URL: "https://example.com/gone"},
			{Title: "Good page", URL: "https://example.com/ok", Snippet: "snippet"},
		},
		scrapeErr: map[string]error{"https://example.com/gone": errors.New("404")},
	}
	aiProvider := &scriptedAI{responses: []string{
		"Useful fact from the good page.",
		`{"summary": "One source.", "key_findings": ["fact"]}`,
	}}
	svc := NewResearchService(search, aiProvider, 5)

	final := svc.Research(context.Background(), "query").Wait()

	require.Equal(t, progress.StatusComplete, final.Status)
	var report domain.ResearchReport
	require.NoError(t, json.Unmarshal(final.Result, &report))
	require.Len(t, report.Sources, 1)
	assert.Equal(t, "https://example.com/ok", report.Sources[0].URL)
}

func TestResearchIrrelevantPagesFiltered(t *testing.T) {
	search := &fakeSearch{results: []port.SearchResult{
		{Title: "Unrelated", URL: "https://example.com/noise"},
	}}
	aiProvider := &scriptedAI{responses: []string{
		"NONE",
		`{"summary": "Nothing found.", "key_findings": []}`,
	}}
	svc := NewResearchService(search, aiProvider, 5)

	final := svc.Research(context.Background(), "query").Wait()

	require.Equal(t, progress.StatusComplete, final.Status)
	var report domain.ResearchReport
	require.NoError(t, json.Unmarshal(final.Result, &report))
	assert.Empty(t, report.Sources)
}

func TestResearchSynthesisParseFallback(t *testing.T) {
	search := &fakeSearch{results: []port.SearchResult{
		{Title: "Page", URL: "https://example.com/p"},
	}}
	aiProvider := &scriptedAI{responses: []string{
		"A relevant note.",
		"Here is my summary in plain prose instead of JSON.",
	}}
	svc := NewResearchService(search, aiProvider, 5)

	final := svc.Research(context.Background(), "query").Wait()

	require.Equal(t, progress.StatusComplete, final.Status)
	var report domain.ResearchReport
	require.NoError(t, json.Unmarshal(final.Result, &report))
	assert.True(t, report.Fallback)
	assert.Contains(t, report.Summary, "plain prose")
	assert.Len(t, report.Sources, 1)
}
