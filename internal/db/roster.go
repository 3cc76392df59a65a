package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/plugbts/propflow/pkg/models"
)

// RosterStore reads the canonical player roster
type RosterStore struct {
	db *sql.DB
}

// NewRosterStore creates a roster store
func NewRosterStore(db *sql.DB) *RosterStore {
	return &RosterStore{db: db}
}

// LoadRoster bulk-reads roster rows for a league, capped at limit
func (s *RosterStore) LoadRoster(ctx context.Context, league string, limit int) ([]models.PlayerIdentity, error) {
	query := `
		SELECT player_id, full_name, team, league, COALESCE(position, '')
		FROM players
		WHERE league = $1
		ORDER BY player_id
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, league, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	var roster []models.PlayerIdentity
	for rows.Next() {
		var p models.PlayerIdentity
		if err := rows.Scan(&p.CanonicalID, &p.FullName, &p.Team, &p.League, &p.Position); err != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", err)
		}
		roster = append(roster, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("roster rows error: %w", err)
	}

	return roster, nil
}
