package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hireloop/devscout/internal/domain"
)

// PostgresStore handles all relational database operations.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// --- Search history ---

// AppendSearches inserts one search-history row per record. History is
// append-only; rows are never updated in place.
func (s *PostgresStore) AppendSearches(ctx context.Context, records []domain.SearchRecord) error {
	query := `INSERT INTO search_history (query, username, score, reasons)
	          VALUES ($1, $2, $3, $4::jsonb)`

	for _, r := range records {
		reasons := r.Reasons
		if reasons == "" {
			reasons = "[]"
		}
		if _, err := s.db.ExecContext(ctx, query, r.Query, r.Username, r.Score, reasons); err != nil {
			return fmt.Errorf("append search: %w", err)
		}
	}
	return nil
}

// ListSearches returns search history newest first, plus the total row count.
func (s *PostgresStore) ListSearches(ctx context.Context, limit, offset int) ([]domain.SearchRecord, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_history`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count searches: %w", err)
	}

	query := `SELECT id, query, username, score, COALESCE(reasons::text, '[]'), created_at
	          FROM search_history
	          ORDER BY created_at DESC
	          LIMIT $1 OFFSET $2`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	var records []domain.SearchRecord
	for rows.Next() {
		var r domain.SearchRecord
		if err := rows.Scan(&r.ID, &r.Query, &r.Username, &r.Score, &r.Reasons, &r.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan search: %w", err)
		}
		records = append(records, r)
	}
	return records, total, nil
}

// --- Audit logs ---

// WriteAudit implements middleware.AuditWriter.
func (s *PostgresStore) WriteAudit(action, resource, details, ip, userAgent string) error {
	query := `INSERT INTO audit_logs (action, resource, details, ip, user_agent)
	          VALUES ($1, $2, $3::jsonb, $4, $5)`
	_, err := s.db.ExecContext(context.Background(), query, action, resource, details, ip, userAgent)
	return err
}

// AuditLogRow is one stored audit entry.
type AuditLogRow struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	Details   string    `json:"details"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// ListAuditLogs returns recent audit logs, newest first.
func (s *PostgresStore) ListAuditLogs(ctx context.Context, limit int) ([]AuditLogRow, error) {
	query := `SELECT id, action, resource, COALESCE(details::text, '{}'), ip, user_agent, created_at
	          FROM audit_logs
	          ORDER BY created_at DESC
	          LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []AuditLogRow
	for rows.Next() {
		var l AuditLogRow
		if err := rows.Scan(&l.ID, &l.Action, &l.Resource, &l.Details, &l.IP, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}
