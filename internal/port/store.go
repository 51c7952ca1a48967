package port

import (
	"context"

	"github.com/hireloop/devscout/internal/domain"
)

// HistoryStore persists ranking winners as append-only search history.
type HistoryStore interface {
	// AppendSearches inserts one row per record. Writes are fire-and-forget
	// from the caller's perspective; a failure must not fail the ranking.
	AppendSearches(ctx context.Context, records []domain.SearchRecord) error

	// ListSearches returns search history newest first, plus the total count.
	ListSearches(ctx context.Context, limit, offset int) ([]domain.SearchRecord, int, error)
}
