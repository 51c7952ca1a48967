package domain

import "time"

// SearchRecord is one persisted search-history row: a winner from a past
// ranking request. Rows are append-only; nothing updates them in place.
type SearchRecord struct {
	ID        string    `json:"id"         db:"id"`
	Query     string    `json:"query"      db:"query"`
	Username  string    `json:"username"   db:"username"`
	Score     int       `json:"score"      db:"score"`
	Reasons   string    `json:"reasons"    db:"reasons"` // JSON array blob
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
