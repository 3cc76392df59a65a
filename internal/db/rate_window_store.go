package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RateWindowStore tracks fixed-window request counters for authenticated
// identities. One row per identity+endpoint+minute; windows roll over
// implicitly and stale rows are removed by Cleanup.
type RateWindowStore struct {
	db *sql.DB
}

// NewRateWindowStore creates a rate window store
func NewRateWindowStore(db *sql.DB) *RateWindowStore {
	return &RateWindowStore{db: db}
}

// Increment atomically bumps the counter for the current window and returns
// the post-increment count
func (s *RateWindowStore) Increment(ctx context.Context, identity, endpoint string, windowStart time.Time) (int, error) {
	query := `
		INSERT INTO rate_windows (identity, endpoint, window_start, count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (identity, endpoint, window_start) DO UPDATE SET
			count = rate_windows.count + 1
		RETURNING count
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, identity, endpoint, windowStart).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to increment rate window: %w", err)
	}

	return count, nil
}

// Cleanup deletes windows older than the retention cutoff
func (s *RateWindowStore) Cleanup(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM rate_windows WHERE window_start < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up rate windows: %w", err)
	}

	deleted, _ := result.RowsAffected()
	return deleted, nil
}
