package identity

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/plugbts/propflow/internal/names"
	"github.com/plugbts/propflow/pkg/contracts"
	"github.com/plugbts/propflow/pkg/models"
)

const (
	// DefaultTTL is how long a roster snapshot stays fresh
	DefaultTTL = 30 * time.Minute

	// maxRosterRows caps a single bulk roster read
	maxRosterRows = 5000
)

// snapshot is one complete roster-derived name map. It is built wholesale and
// swapped in atomically; readers always see a consistent snapshot, never a
// partially-rebuilt map.
type snapshot struct {
	byName map[string]models.PlayerIdentity // normalized key -> identity
	keys   []string                         // insertion order, fixes fuzzy tie-breaks
	built  time.Time
}

// Resolver maps upstream display names to canonical roster identities with a
// process-wide TTL cache per league.
type Resolver struct {
	roster  contracts.RosterSource
	missing contracts.MissingPlayerStore
	ttl     time.Duration

	mu        sync.RWMutex
	snapshots map[string]*snapshot
}

// NewResolver creates a resolver backed by the given roster source. The
// missing-player store may be nil, in which case bookkeeping is skipped.
func NewResolver(roster contracts.RosterSource, missing contracts.MissingPlayerStore, ttl time.Duration) *Resolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Resolver{
		roster:    roster,
		missing:   missing,
		ttl:       ttl,
		snapshots: make(map[string]*snapshot),
	}
}

// Resolve returns the canonical identity for a display name and whether a
// roster match was found. Resolution order: exact normalized match, substring
// fuzzy match (first match in snapshot key order wins), then a deterministic
// synthetic identity. It never fails; bookkeeping side effects are
// best-effort and logged only.
func (r *Resolver) Resolve(ctx context.Context, rawName, team, league, sampleOddID string) (models.PlayerIdentity, bool) {
	normalized := names.Normalize(rawName)
	if normalized == "" {
		return r.synthetic(ctx, rawName, normalized, team, league, sampleOddID)
	}

	snap, err := r.currentSnapshot(ctx, league)
	if err != nil {
		fmt.Printf("roster load failed for %s: %v\n", league, err)
		return r.synthetic(ctx, rawName, normalized, team, league, sampleOddID)
	}

	// Exact match on the normalized name
	if id, ok := snap.byName[normalized]; ok {
		r.clearMissing(ctx, league, normalized)
		return id, true
	}

	// Substring containment fuzzy match. Key order is the snapshot's
	// insertion order, so tie-breaks are stable across identical reloads.
	// Known accuracy risk: very short keys can match unrelated longer
	// names; the matching policy is deliberately unchanged pending product
	// input.
	for _, key := range snap.keys {
		if strings.Contains(normalized, key) || strings.Contains(key, normalized) {
			r.clearMissing(ctx, league, normalized)
			return snap.byName[key], true
		}
	}

	return r.synthetic(ctx, rawName, normalized, team, league, sampleOddID)
}

// synthetic builds the reproducible fallback identity and records the miss
// for operator follow-up
func (r *Resolver) synthetic(ctx context.Context, rawName, normalized, team, league, sampleOddID string) (models.PlayerIdentity, bool) {
	if normalized == "" {
		normalized = names.Normalize(rawName)
	}
	id := names.SyntheticID(normalized, team)
	if normalized != "" {
		r.recordMissing(ctx, normalized, team, league, id, sampleOddID)
	}
	return models.PlayerIdentity{
		CanonicalID: id,
		FullName:    rawName,
		Team:        team,
		League:      league,
	}, false
}

// Refresh forces a rebuild of the league snapshot on the next resolution
func (r *Resolver) Refresh(league string) {
	r.mu.Lock()
	delete(r.snapshots, strings.ToUpper(league))
	r.mu.Unlock()
}

// currentSnapshot returns a fresh snapshot, rebuilding on TTL expiry
func (r *Resolver) currentSnapshot(ctx context.Context, league string) (*snapshot, error) {
	key := strings.ToUpper(league)

	r.mu.RLock()
	snap, ok := r.snapshots[key]
	r.mu.RUnlock()

	if ok && time.Since(snap.built) < r.ttl {
		return snap, nil
	}

	rebuilt, err := r.buildSnapshot(ctx, league)
	if err != nil {
		if ok {
			// Serve the stale snapshot rather than failing resolution
			return snap, nil
		}
		return nil, err
	}

	r.mu.Lock()
	r.snapshots[key] = rebuilt
	r.mu.Unlock()

	return rebuilt, nil
}

// buildSnapshot loads the roster and derives the lookup key set. The full
// normalized name is authoritative; generated variants are advisory shortcuts
// and never overwrite an entry already chosen for a different player.
func (r *Resolver) buildSnapshot(ctx context.Context, league string) (*snapshot, error) {
	roster, err := r.roster.LoadRoster(ctx, league, maxRosterRows)
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}

	snap := &snapshot{
		byName: make(map[string]models.PlayerIdentity, len(roster)*3),
		built:  time.Now(),
	}

	add := func(key string, p models.PlayerIdentity) {
		if key == "" {
			return
		}
		if _, taken := snap.byName[key]; taken {
			return
		}
		snap.byName[key] = p
		snap.keys = append(snap.keys, key)
	}

	for _, p := range roster {
		normalized := names.Normalize(p.FullName)
		add(normalized, p)
		for _, variant := range names.Variants(normalized) {
			add(variant, p)
		}
	}

	return snap, nil
}

// clearMissing deletes any missing-player record once a canonical mapping
// exists. Failures must never affect the surrounding ingestion.
func (r *Resolver) clearMissing(ctx context.Context, league, normalized string) {
	if r.missing == nil {
		return
	}
	if err := r.missing.DeleteMissingPlayer(ctx, league, normalized); err != nil {
		fmt.Printf("error clearing missing player %q: %v\n", normalized, err)
	}
}

// recordMissing upserts a missing-player record on fallback resolution
func (r *Resolver) recordMissing(ctx context.Context, normalized, team, league, generatedID, sampleOddID string) {
	if r.missing == nil {
		return
	}
	now := time.Now().UTC()
	rec := models.MissingPlayerRecord{
		NormalizedName: normalized,
		Team:           team,
		League:         league,
		GeneratedID:    generatedID,
		SampleOddID:    sampleOddID,
		FirstSeen:      now,
		LastSeen:       now,
		Count:          1,
	}
	if err := r.missing.UpsertMissingPlayer(ctx, rec); err != nil {
		fmt.Printf("error recording missing player %q: %v\n", normalized, err)
	}
}
