package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/arturoeanton/codeguard/internal/domain"

	_ "github.com/lib/pq"
)

const activitySchema = `
	CREATE TABLE IF NOT EXISTS activity_log (
		id           BIGSERIAL PRIMARY KEY,
		logged_at    TIMESTAMPTZ NOT NULL,
		language     TEXT NOT NULL,
		code_length  INTEGER NOT NULL CHECK (code_length >= 0),
		duration_ms  BIGINT NOT NULL,
		status       TEXT NOT NULL
	)`

// PostgresActivityStore mirrors activity records into Postgres.
// Rows are only ever inserted.
type PostgresActivityStore struct {
	db *sql.DB
}

// NewPostgresActivityStore opens a connection, ensures the table exists and returns a store.
func NewPostgresActivityStore(ctx context.Context, databaseURL string) (*PostgresActivityStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewPostgresActivityStoreFromDB(ctx, db)
}

// NewPostgresActivityStoreFromDB wraps an existing handle and ensures the schema.
func NewPostgresActivityStoreFromDB(ctx context.Context, db *sql.DB) (*PostgresActivityStore, error) {
	if _, err := db.ExecContext(ctx, activitySchema); err != nil {
		return nil, fmt.Errorf("ensure activity_log: %w", err)
	}
	return &PostgresActivityStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresActivityStore) Close() error {
	return s.db.Close()
}

// Name implements port.ActivitySink.
func (s *PostgresActivityStore) Name() string { return "postgres" }

// Append inserts one activity row.
func (s *PostgresActivityStore) Append(ctx context.Context, rec domain.ActivityRecord) error {
	query := `INSERT INTO activity_log (logged_at, language, code_length, duration_ms, status)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := s.db.ExecContext(ctx, query,
		rec.Time, rec.Language, rec.CodeLength, rec.Duration.Milliseconds(), string(rec.Status),
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Count returns the number of stored rows.
func (s *PostgresActivityStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_log`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count activity: %w", err)
	}
	return n, nil
}

// Recent returns up to limit rows, newest first.
func (s *PostgresActivityStore) Recent(ctx context.Context, limit int) ([]domain.ActivityRecord, error) {
	query := `SELECT logged_at, language, code_length, duration_ms, status
	          FROM activity_log ORDER BY logged_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var out []domain.ActivityRecord
	for rows.Next() {
		var (
			rec    domain.ActivityRecord
			ms     int64
			status string
		)
		if err := rows.Scan(&rec.Time, &rec.Language, &rec.CodeLength, &ms, &status); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		rec.Duration = time.Duration(ms) * time.Millisecond
		rec.Status = domain.AuditStatus(status)
		out = append(out, rec)
	}
	return out, rows.Err()
}
