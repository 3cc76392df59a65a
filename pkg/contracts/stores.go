package contracts

import (
	"context"

	"github.com/plugbts/propflow/pkg/models"
)

// PropStore persists one chunk of props with conflict-key merge semantics.
// Implementations must insert-or-update, never duplicate.
type PropStore interface {
	UpsertChunk(ctx context.Context, props []models.Prop) (inserted, updated int, err error)
}

// RosterSource provides the bulk roster read used to build the identity map
type RosterSource interface {
	LoadRoster(ctx context.Context, league string, limit int) ([]models.PlayerIdentity, error)
}

// MissingPlayerStore records and clears unresolved-name bookkeeping.
// Both operations are best-effort from the resolver's point of view.
type MissingPlayerStore interface {
	UpsertMissingPlayer(ctx context.Context, rec models.MissingPlayerRecord) error
	DeleteMissingPlayer(ctx context.Context, league, normalizedName string) error
	ListMissingPlayers(ctx context.Context, league string) ([]models.MissingPlayerRecord, error)
}
