package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hireloop/devscout/internal/adapter/ai"
	"github.com/hireloop/devscout/internal/domain"
	"github.com/hireloop/devscout/internal/port"
	"github.com/hireloop/devscout/internal/progress"
)

const maxScrapeChars = 6000

// ResearchService performs multi-step web research: search, scrape and
// analyze each result, then synthesize a report.
type ResearchService struct {
	search     port.SearchProvider
	ai         port.AIProvider
	maxResults int
}

// NewResearchService creates a research service.
func NewResearchService(search port.SearchProvider, aiProvider port.AIProvider, maxResults int) *ResearchService {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &ResearchService{
		search:     search,
		ai:         aiProvider,
		maxResults: maxResults,
	}
}

// Research runs the research pipeline, yielding one scrape/analyze event
// pair per discovered result before synthesizing.
func (s *ResearchService) Research(ctx context.Context, query string) *progress.Stream {
	return progress.Run(ctx, func(ctx context.Context, em *progress.Emitter) (progress.Event, error) {
		if err := em.Emit(progress.Event{
			Status:  progress.StatusInitializing,
			Message: "Starting research: " + query,
		}); err != nil {
			return progress.Event{}, err
		}

		if err := em.Emit(progress.Event{
			Status:  progress.StatusSearching,
			Message: "Searching the web",
		}); err != nil {
			return progress.Event{}, err
		}

		results, err := s.search.Search(ctx, query, s.maxResults)
		if err != nil {
			return progress.Event{}, fmt.Errorf("web search failed: %w", err)
		}
		if len(results) == 0 {
			return progress.Event{}, port.ErrNoResults
		}

		var notes []string
		var sources []domain.ResearchSource

		for _, result := range results {
			if err := em.Emit(progress.Event{
				Status:  progress.StatusScraping,
				Message: "Reading " + result.Title,
				URL:     result.URL,
			}); err != nil {
				return progress.Event{}, err
			}

			content, scrapeErr := s.search.Scrape(ctx, result.URL)
			if scrapeErr != nil {
				slog.Warn("scrape failed, skipping result", "url", result.URL, "error", scrapeErr)
				continue
			}

			if err := em.Emit(progress.Event{
				Status:  progress.StatusAnalyzingResult,
				Message: "Analyzing " + result.Title,
				URL:     result.URL,
			}); err != nil {
				return progress.Event{}, err
			}

			note := s.analyzeResult(ctx, query, result, content)
			if note != "" {
				notes = append(notes, note)
				sources = append(sources, domain.ResearchSource{
					Title: result.Title,
					URL:   result.URL,
				})
			}
		}

		if err := em.Emit(progress.Event{
			Status:  progress.StatusSynthesizing,
			Message: "Synthesizing findings",
		}); err != nil {
			return progress.Event{}, err
		}

		report := s.synthesize(ctx, query, notes, sources)
		payload, err := json.Marshal(report)
		if err != nil {
			return progress.Event{}, fmt.Errorf("encode report: %w", err)
		}

		return progress.Complete("Research complete", payload), nil
	})
}

const analyzeSystemPrompt = `You extract facts relevant to a research question from a web page.
Respond with a short plain-text note of the relevant facts, or the single word NONE if the page is irrelevant.`

// analyzeResult extracts relevant facts from one scraped page. Failures
// degrade to the search snippet rather than failing the run.
func (s *ResearchService) analyzeResult(ctx context.Context, query string, result port.SearchResult, content string) string {
	prompt := fmt.Sprintf("Research question: %s\n\nPage (%s):\n%s", query, result.URL, truncate(content, maxScrapeChars))

	note, err := s.ai.Complete(ctx, analyzeSystemPrompt, prompt)
	if err != nil {
		slog.Warn("result analysis failed, using snippet", "url", result.URL, "error", err)
		return result.Snippet
	}
	if strings.TrimSpace(note) == "NONE" {
		return ""
	}
	return note
}

const synthesizeSystemPrompt = `You synthesize research notes into a report for a hiring manager.
Respond with a single JSON object and nothing else:
{"summary": "...", "key_findings": ["..."]}`

// synthesize merges all notes into a report, falling back to the joined raw
// notes when the structured output fails validation.
func (s *ResearchService) synthesize(ctx context.Context, query string, notes []string, sources []domain.ResearchSource) domain.ResearchReport {
	joined := strings.Join(notes, "\n---\n")
	prompt := fmt.Sprintf("Research question: %s\n\nNotes:\n%s", query, joined)

	raw, err := s.ai.Complete(ctx, synthesizeSystemPrompt, prompt)
	if err != nil {
		slog.Warn("synthesis failed, falling back to notes", "query", query, "error", err)
		return fallbackResearchReport(query, joined, sources)
	}

	var report domain.ResearchReport
	if err := ai.DecodeJSON(raw, &report); err != nil {
		slog.Warn("synthesis parse failed, falling back to raw text", "query", query, "error", err)
		return fallbackResearchReport(query, raw, sources)
	}

	report.Query = query
	report.Sources = sources
	return report
}

func fallbackResearchReport(query, text string, sources []domain.ResearchSource) domain.ResearchReport {
	return domain.ResearchReport{
		Query:    query,
		Summary:  strings.TrimSpace(text),
		Sources:  sources,
		Fallback: true,
	}
}
