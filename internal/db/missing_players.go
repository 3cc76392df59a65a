package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/plugbts/propflow/pkg/models"
)

// MissingPlayerStore tracks names that failed canonical resolution
type MissingPlayerStore struct {
	db *sql.DB
}

// NewMissingPlayerStore creates a missing-player store
func NewMissingPlayerStore(db *sql.DB) *MissingPlayerStore {
	return &MissingPlayerStore{db: db}
}

// UpsertMissingPlayer inserts a record on first sight of a name and bumps
// last_seen/count on every subsequent occurrence
func (s *MissingPlayerStore) UpsertMissingPlayer(ctx context.Context, rec models.MissingPlayerRecord) error {
	query := `
		INSERT INTO missing_players (
			normalized_name, team, league, generated_id, sample_odd_id,
			first_seen, last_seen, count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (league, normalized_name) DO UPDATE SET
			team = EXCLUDED.team,
			generated_id = EXCLUDED.generated_id,
			sample_odd_id = EXCLUDED.sample_odd_id,
			last_seen = EXCLUDED.last_seen,
			count = missing_players.count + 1
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.NormalizedName,
		rec.Team,
		rec.League,
		rec.GeneratedID,
		rec.SampleOddID,
		rec.FirstSeen,
		rec.LastSeen,
		rec.Count,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert missing player: %w", err)
	}

	return nil
}

// DeleteMissingPlayer removes a record once a canonical mapping exists
func (s *MissingPlayerStore) DeleteMissingPlayer(ctx context.Context, league, normalizedName string) error {
	query := `DELETE FROM missing_players WHERE league = $1 AND normalized_name = $2`

	if _, err := s.db.ExecContext(ctx, query, league, normalizedName); err != nil {
		return fmt.Errorf("failed to delete missing player: %w", err)
	}

	return nil
}

// ListMissingPlayers returns open records for operator follow-up, most
// frequently seen first
func (s *MissingPlayerStore) ListMissingPlayers(ctx context.Context, league string) ([]models.MissingPlayerRecord, error) {
	query := `
		SELECT normalized_name, team, league, generated_id,
		       COALESCE(sample_odd_id, ''), first_seen, last_seen, count
		FROM missing_players
		WHERE league = $1
		ORDER BY count DESC, last_seen DESC
	`

	rows, err := s.db.QueryContext(ctx, query, league)
	if err != nil {
		return nil, fmt.Errorf("failed to query missing players: %w", err)
	}
	defer rows.Close()

	var records []models.MissingPlayerRecord
	for rows.Next() {
		var rec models.MissingPlayerRecord
		if err := rows.Scan(
			&rec.NormalizedName,
			&rec.Team,
			&rec.League,
			&rec.GeneratedID,
			&rec.SampleOddID,
			&rec.FirstSeen,
			&rec.LastSeen,
			&rec.Count,
		); err != nil {
			return nil, fmt.Errorf("failed to scan missing player row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("missing player rows error: %w", err)
	}

	return records, nil
}
