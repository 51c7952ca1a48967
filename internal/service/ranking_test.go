package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hireloop/devscout/internal/domain"
	"github.com/hireloop/devscout/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGitHub serves canned profiles and records which usernames were fetched.
type fakeGitHub struct {
	mu        sync.Mutex
	profiles  map[string]*port.Profile
	failWith  map[string]error
	repoErr   error
	eventErr  error
	searchHit []string
}

func newFakeGitHub(usernames ...string) *fakeGitHub {
	f := &fakeGitHub{
		profiles: make(map[string]*port.Profile),
		failWith: make(map[string]error),
	}
	for _, u := range usernames {
		f.profiles[u] = &port.Profile{
			Login:     u,
			Bio:       "engineer",
			CreatedAt: time.Now().AddDate(-4, 0, 0),
		}
	}
	return f
}

func (f *fakeGitHub) Profile(_ context.Context, username string) (*port.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failWith[username]; ok {
		return nil, err
	}
	p, ok := f.profiles[username]
	if !ok {
		return nil, port.ErrUserNotFound
	}
	return p, nil
}

func (f *fakeGitHub) Repositories(_ context.Context, username string) ([]port.Repository, error) {
	if f.repoErr != nil {
		return nil, f.repoErr
	}
	return []port.Repository{
		{Name: username + "-tool", Stars: 50, Language: "Go"},
	}, nil
}

func (f *fakeGitHub) Events(_ context.Context, _ string) ([]port.Event, error) {
	if f.eventErr != nil {
		return nil, f.eventErr
	}
	return []port.Event{{Type: "PushEvent", CreatedAt: time.Now().Add(-24 * time.Hour)}}, nil
}

func (f *fakeGitHub) SearchUsers(_ context.Context, _ string, _ int) ([]string, error) {
	return f.searchHit, nil
}

func (f *fakeGitHub) Contributors(_ context.Context, _, _ string) ([]port.Contributor, error) {
	return nil, nil
}

func (f *fakeGitHub) Collaboration(_ context.Context, _ string) (*domain.CollaborationGraph, error) {
	return nil, nil
}

// fakeHistory records appended rows and can be told to fail.
type fakeHistory struct {
	mu      sync.Mutex
	rows    []domain.SearchRecord
	failing bool
}

func (f *fakeHistory) AppendSearches(_ context.Context, records []domain.SearchRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("database unavailable")
	}
	f.rows = append(f.rows, records...)
	return nil
}

func (f *fakeHistory) ListSearches(_ context.Context, _, _ int) ([]domain.SearchRecord, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows, len(f.rows), nil
}

func (f *fakeHistory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func TestFindCandidatesRanksAndPersists(t *testing.T) {
	usernames := make([]string, 7)
	for i := range usernames {
		usernames[i] = fmt.Sprintf("dev%d", i)
	}
	gh := newFakeGitHub(usernames...)
	history := &fakeHistory{}
	svc := NewRankingService(gh, history, 5, 10)

	result, err := svc.FindCandidates(context.Background(), "go developers", usernames, domain.Brief{
		RequiredSkills: []string{"go"},
	})

	require.NoError(t, err)
	assert.Len(t, result.Candidates, 5)
	assert.Empty(t, result.Failed)

	for _, c := range result.Candidates {
		assert.GreaterOrEqual(t, c.Score, 0)
		assert.LessOrEqual(t, c.Score, 100)
	}

	// History rows land asynchronously: exactly min(N, 5).
	require.Eventually(t, func() bool {
		return history.count() == 5
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFindCandidatesHistoryFailureDoesNotAffectResult(t *testing.T) {
	gh := newFakeGitHub("alice", "bob")
	history := &fakeHistory{failing: true}
	svc := NewRankingService(gh, history, 5, 10)

	result, err := svc.FindCandidates(context.Background(), "", []string{"alice", "bob"}, domain.Brief{})

	require.NoError(t, err)
	assert.Len(t, result.Candidates, 2)
	assert.Equal(t, 0, history.count())
}

func TestFindCandidatesCollectsFailures(t *testing.T) {
	gh := newFakeGitHub("alice")
	gh.failWith["missing"] = port.ErrUserNotFound
	svc := NewRankingService(gh, nil, 5, 10)

	result, err := svc.FindCandidates(context.Background(), "", []string{"alice", "missing"}, domain.Brief{})

	require.NoError(t, err)
	assert.Len(t, result.Candidates, 1)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "missing", result.Failed[0].Username)
	assert.Equal(t, "User not found", result.Failed[0].Error)
}

func TestFindCandidatesAllFailed(t *testing.T) {
	gh := newFakeGitHub()
	gh.failWith["ghost1"] = port.ErrUserNotFound
	gh.failWith["ghost2"] = errors.New("connection reset")
	svc := NewRankingService(gh, nil, 5, 10)

	_, err := svc.FindCandidates(context.Background(), "", []string{"ghost1", "ghost2"}, domain.Brief{})

	require.Error(t, err)
	assert.ErrorIs(t, err, port.ErrNoCandidates)
	assert.False(t, IsRateLimited(err))
}

func TestFindCandidatesRateLimitSurfacesDistinctly(t *testing.T) {
	gh := newFakeGitHub()
	gh.failWith["a"] = port.ErrRateLimited
	gh.failWith["b"] = errors.New("boom")
	svc := NewRankingService(gh, nil, 5, 10)

	_, err := svc.FindCandidates(context.Background(), "", []string{"a", "b"}, domain.Brief{})

	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
}

func TestFindCandidatesDegradesOnSubFetchFailure(t *testing.T) {
	gh := newFakeGitHub("alice")
	gh.repoErr = errors.New("repos endpoint down")
	gh.eventErr = errors.New("events endpoint down")
	svc := NewRankingService(gh, nil, 5, 10)

	result, err := svc.FindCandidates(context.Background(), "", []string{"alice"}, domain.Brief{})

	require.NoError(t, err)
	require.Len(t, result.Candidates, 1)
	c := result.Candidates[0]
	assert.Empty(t, c.Metrics.Languages)
	assert.Equal(t, domain.ActivityInactive, c.Metrics.Activity)
}

func TestFindCandidatesUsesSearchWhenNoUsernames(t *testing.T) {
	gh := newFakeGitHub("found1", "found2")
	gh.searchHit = []string{"found1", "found2"}
	svc := NewRankingService(gh, nil, 5, 10)

	result, err := svc.FindCandidates(context.Background(), "rust berlin", nil, domain.Brief{})

	require.NoError(t, err)
	assert.Len(t, result.Candidates, 2)
}

func TestFindCandidatesRequiresQueryOrUsernames(t *testing.T) {
	svc := NewRankingService(newFakeGitHub(), nil, 5, 10)

	_, err := svc.FindCandidates(context.Background(), "  ", nil, domain.Brief{})

	assert.Error(t, err)
}
