package store

import (
	"context"
	"fmt"

	"github.com/plugbts/propflow/pkg/contracts"
	"github.com/plugbts/propflow/pkg/models"
)

// DefaultChunkSize bounds one upsert statement's row count
const DefaultChunkSize = 500

// BatchWriter wraps a PropStore with validation, chunking and a single bounded
// retry per chunk. A failed chunk is counted as errors and persistence moves
// on to the next chunk; partial success is a normal, reportable outcome.
type BatchWriter struct {
	store     contracts.PropStore
	chunkSize int
}

// NewBatchWriter creates a batch writer with the given chunk size
// (DefaultChunkSize when <= 0)
func NewBatchWriter(store contracts.PropStore, chunkSize int) *BatchWriter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &BatchWriter{store: store, chunkSize: chunkSize}
}

// Upsert persists props and reports aggregate inserted/updated/error counts.
// Invalid props are dropped and counted as errors without aborting the batch.
func (w *BatchWriter) Upsert(ctx context.Context, props []models.Prop) models.BatchResult {
	var result models.BatchResult

	valid := make([]models.Prop, 0, len(props))
	for _, p := range props {
		if err := validate(p); err != nil {
			fmt.Printf("dropping invalid prop: %v\n", err)
			result.Errors++
			continue
		}
		valid = append(valid, p)
	}

	for start := 0; start < len(valid); start += w.chunkSize {
		if ctx.Err() != nil {
			// Caller cancelled: remaining chunks never start
			result.Errors += len(valid) - start
			return result
		}

		end := start + w.chunkSize
		if end > len(valid) {
			end = len(valid)
		}
		chunk := valid[start:end]

		inserted, updated, err := w.store.UpsertChunk(ctx, chunk)
		if err != nil {
			fmt.Printf("chunk upsert failed, retrying once: %v\n", err)
			inserted, updated, err = w.store.UpsertChunk(ctx, chunk)
		}

		if err != nil {
			fmt.Printf("chunk upsert failed after retry: %v\n", err)
			result.Errors += len(chunk)
			continue
		}

		result.Inserted += inserted
		result.Updated += updated
	}

	return result
}

// validate checks the minimum identity fields required to persist a prop
func validate(p models.Prop) error {
	if p.ConflictKey == "" {
		return fmt.Errorf("prop missing conflict key (game %s)", p.GameID)
	}
	if p.GameID == "" {
		return fmt.Errorf("prop %s missing game ID", p.ConflictKey)
	}
	if p.MarketLabel == "" {
		return fmt.Errorf("prop %s missing market label", p.ConflictKey)
	}
	switch p.PropType {
	case models.PropTypePlayer:
		if p.PlayerID == "" {
			return fmt.Errorf("player prop %s missing player ID", p.ConflictKey)
		}
	case models.PropTypeTeam:
		if p.TeamRef == "" {
			return fmt.Errorf("team prop %s missing team ref", p.ConflictKey)
		}
	default:
		return fmt.Errorf("prop %s has unknown type %q", p.ConflictKey, p.PropType)
	}
	return nil
}
