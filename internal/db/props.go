package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/plugbts/propflow/pkg/models"
)

// PropStore persists props with conflict-key merge semantics
type PropStore struct {
	db *sql.DB
}

// NewPropStore creates a prop store
func NewPropStore(db *sql.DB) *PropStore {
	return &PropStore{db: db}
}

// UpsertChunk writes one chunk of props in a single multi-row statement.
// Rows merge on conflict_key, so re-running over unchanged input overwrites
// instead of duplicating. Returns how many rows were fresh inserts vs
// updates of existing rows.
func (s *PropStore) UpsertChunk(ctx context.Context, props []models.Prop) (int, int, error) {
	if len(props) == 0 {
		return 0, 0, nil
	}

	const cols = 21

	valueRows := make([]string, 0, len(props))
	args := make([]interface{}, 0, len(props)*cols)

	for i, p := range props {
		placeholders := make([]string, cols)
		for j := 0; j < cols; j++ {
			placeholders[j] = fmt.Sprintf("$%d", i*cols+j+1)
		}
		valueRows = append(valueRows, "("+strings.Join(placeholders, ", ")+")")

		quotes, err := json.Marshal(p.AllBookQuotes)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to marshal book quotes: %w", err)
		}

		args = append(args,
			p.ConflictKey,
			string(p.PropType),
			p.PlayerID,
			p.PlayerName,
			p.TeamRef,
			p.Team,
			p.Opponent,
			p.MarketLabel,
			p.Line,
			p.BestOverPrice,
			p.BestOverBook,
			p.BestUnderPrice,
			p.BestUnderBook,
			quotes,
			p.GameID,
			p.GameTime,
			p.League,
			p.Season,
			p.Week,
			p.LastUpdated,
			p.IsAvailable,
		)
	}

	query := fmt.Sprintf(`
		INSERT INTO props (
			conflict_key, prop_type, player_id, player_name, team_ref,
			team, opponent, market_label, line,
			best_over_price, best_over_book, best_under_price, best_under_book,
			all_book_quotes, game_id, game_time, league, season, week,
			last_updated, is_available
		) VALUES %s
		ON CONFLICT (conflict_key) DO UPDATE SET
			line = EXCLUDED.line,
			best_over_price = EXCLUDED.best_over_price,
			best_over_book = EXCLUDED.best_over_book,
			best_under_price = EXCLUDED.best_under_price,
			best_under_book = EXCLUDED.best_under_book,
			all_book_quotes = EXCLUDED.all_book_quotes,
			game_time = EXCLUDED.game_time,
			last_updated = EXCLUDED.last_updated,
			is_available = EXCLUDED.is_available
		RETURNING (xmax = 0) AS inserted
	`, strings.Join(valueRows, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to upsert props chunk: %w", err)
	}
	defer rows.Close()

	inserted, updated := 0, 0
	for rows.Next() {
		var fresh bool
		if err := rows.Scan(&fresh); err != nil {
			return inserted, updated, fmt.Errorf("failed to scan upsert result: %w", err)
		}
		if fresh {
			inserted++
		} else {
			updated++
		}
	}

	if err := rows.Err(); err != nil {
		return inserted, updated, fmt.Errorf("upsert rows error: %w", err)
	}

	return inserted, updated, nil
}
