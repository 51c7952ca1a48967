package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hireloop/devscout/internal/domain"
	"github.com/hireloop/devscout/internal/port"
	"github.com/hireloop/devscout/internal/scoring"
)

const rankTopRepoLimit = 5

// RankingService finds and ranks GitHub candidates against a hiring brief.
type RankingService struct {
	github      port.GitHubProvider
	history     port.HistoryStore
	topN        int
	concurrency int
}

// NewRankingService creates a ranking service. history may be nil in tests.
func NewRankingService(github port.GitHubProvider, history port.HistoryStore, topN, concurrency int) *RankingService {
	if topN <= 0 {
		topN = 5
	}
	if concurrency <= 0 {
		concurrency = 10
	}
	return &RankingService{
		github:      github,
		history:     history,
		topN:        topN,
		concurrency: concurrency,
	}
}

// FindCandidates resolves usernames (from the query if none are given),
// scores each against the brief, and returns the top candidates. Winners
// are appended to search history as a fire-and-forget side effect.
func (s *RankingService) FindCandidates(ctx context.Context, query string, usernames []string, brief domain.Brief) (*domain.RankResult, error) {
	if len(usernames) == 0 {
		if strings.TrimSpace(query) == "" {
			return nil, fmt.Errorf("either usernames or a search query is required")
		}
		found, err := s.github.SearchUsers(ctx, query, s.concurrency)
		if err != nil {
			return nil, fmt.Errorf("search users: %w", err)
		}
		usernames = found
	}

	if len(usernames) > s.concurrency {
		usernames = usernames[:s.concurrency]
	}

	candidates, failed := s.scoreAll(ctx, usernames, brief)

	if len(candidates) == 0 {
		return nil, summarizeFailures(failed)
	}

	top := scoring.TopCandidates(candidates, s.topN)

	s.recordHistory(query, brief, top)

	return &domain.RankResult{Candidates: top, Failed: failed}, nil
}

// scoreAll scores every username concurrently, bounded by the concurrency
// cap. Each candidate is independent; results are merged only after all
// complete.
func (s *RankingService) scoreAll(ctx context.Context, usernames []string, brief domain.Brief) ([]domain.Candidate, []domain.FailedProfile) {
	type outcome struct {
		candidate *domain.Candidate
		failed    *domain.FailedProfile
	}

	outcomes := make([]outcome, len(usernames))
	sem := make(chan struct{}, s.concurrency)

	var wg sync.WaitGroup
	for i, username := range usernames {
		wg.Add(1)
		go func(i int, username string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			candidate, err := s.scoreOne(ctx, username, brief)
			if err != nil {
				outcomes[i] = outcome{failed: &domain.FailedProfile{
					Username: username,
					Error:    err.Error(),
				}}
				return
			}
			outcomes[i] = outcome{candidate: candidate}
		}(i, username)
	}
	wg.Wait()

	var candidates []domain.Candidate
	var failed []domain.FailedProfile
	for _, o := range outcomes {
		switch {
		case o.candidate != nil:
			candidates = append(candidates, *o.candidate)
		case o.failed != nil:
			failed = append(failed, *o.failed)
		}
	}
	return candidates, failed
}

// scoreOne fetches profile, repos, and events jointly, then extracts metrics
// and scores them. A failed profile fetch fails the candidate; failed repo or
// event fetches degrade to empty lists.
func (s *RankingService) scoreOne(ctx context.Context, username string, brief domain.Brief) (*domain.Candidate, error) {
	var (
		profile    *port.Profile
		profileErr error
		repos      []port.Repository
		events     []port.Event
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		profile, profileErr = s.github.Profile(ctx, username)
	}()
	go func() {
		defer wg.Done()
		var err error
		repos, err = s.github.Repositories(ctx, username)
		if err != nil {
			slog.Warn("repo fetch failed, using empty list", "username", username, "error", err)
			repos = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		events, err = s.github.Events(ctx, username)
		if err != nil {
			slog.Warn("event fetch failed, using empty list", "username", username, "error", err)
			events = nil
		}
	}()
	wg.Wait()

	if profileErr != nil {
		return nil, profileErr
	}

	metrics := scoring.ExtractMetrics(profile, repos, events, rankTopRepoLimit, time.Now())
	candidate := scoring.ScoreCandidate(metrics, brief)
	return &candidate, nil
}

// recordHistory appends the winners asynchronously. A write failure is
// logged and never surfaces to the caller.
func (s *RankingService) recordHistory(query string, brief domain.Brief, winners []domain.Candidate) {
	if s.history == nil || len(winners) == 0 {
		return
	}

	if query == "" {
		query = strings.Join(brief.RequiredSkills, ", ")
	}

	records := make([]domain.SearchRecord, len(winners))
	for i, c := range winners {
		reasons, _ := json.Marshal(c.Reasons)
		records[i] = domain.SearchRecord{
			Query:    query,
			Username: c.Username,
			Score:    c.Score,
			Reasons:  string(reasons),
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.history.AppendSearches(ctx, records); err != nil {
			slog.Error("failed to append search history", "error", err)
		}
	}()
}

// summarizeFailures builds the error for an all-failed ranking, keeping
// rate-limit errors distinguishable from generic ones.
func summarizeFailures(failed []domain.FailedProfile) error {
	for _, f := range failed {
		if strings.Contains(f.Error, port.ErrRateLimited.Error()) {
			return fmt.Errorf("%w: %s", port.ErrRateLimited, f.Username)
		}
	}

	parts := make([]string, len(failed))
	for i, f := range failed {
		parts[i] = fmt.Sprintf("%s: %s", f.Username, f.Error)
	}
	return fmt.Errorf("%w: %s", port.ErrNoCandidates, strings.Join(parts, "; "))
}

// IsRateLimited reports whether a ranking error was caused by rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, port.ErrRateLimited)
}
