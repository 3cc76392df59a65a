package provider

import (
	"context"
	"fmt"

	"github.com/plugbts/propflow/pkg/contracts"
	"github.com/plugbts/propflow/pkg/models"
)

// MaxPages bounds pagination per stage even if upstream keeps returning a
// cursor, protecting against unbounded pagination loops
const MaxPages = 5

// EventFetcher retrieves upstream events with a layered fallback strategy.
// Each stage runs only when every earlier stage produced zero events; a
// non-empty stage short-circuits the chain.
type EventFetcher struct {
	client *Client

	// onStatus, when set, receives the upstream status bucket of every
	// page fetch for metrics
	onStatus func(status int)
}

// NewEventFetcher creates an event fetcher
func NewEventFetcher(client *Client) *EventFetcher {
	return &EventFetcher{client: client}
}

// OnStatus registers a status-bucket observer
func (f *EventFetcher) OnStatus(fn func(status int)) {
	f.onStatus = fn
}

// FetchEvents returns upstream events for a league/season/week. It exhausts
// the fallback chain before giving up and returns an empty slice, never an
// error: callers must treat empty as a valid terminal state.
func (f *EventFetcher) FetchEvents(ctx context.Context, profile contracts.LeagueProfile, season string, week int) []models.Event {
	league := profile.GetLeagueKey()

	primary := EventQuery{
		LeagueID:      league,
		Season:        season,
		Week:          week,
		OddsAvailable: true,
		PlayerProps:   true,
	}

	if events := f.fetchStage(ctx, "primary", primary); len(events) > 0 {
		return events
	}

	// Stage 1: prior-season retry for known season labeling quirks
	for _, fallbackSeason := range profile.GetSeasonFallbacks(season) {
		q := primary
		q.Season = fallbackSeason
		if events := f.fetchStage(ctx, "prior-season "+fallbackSeason, q); len(events) > 0 {
			return events
		}
	}

	// Stage 2: same query with the week filter dropped
	if week > 0 {
		q := primary
		q.Week = 0
		if events := f.fetchStage(ctx, "no-week", q); len(events) > 0 {
			return events
		}
	}

	// Stage 3: maximally relaxed query omitting all odds/market filters
	relaxed := EventQuery{LeagueID: league, Season: season}
	if events := f.fetchStage(ctx, "relaxed", relaxed); len(events) > 0 {
		return events
	}

	fmt.Printf("⚠️  no events for %s season=%s week=%d after all fallbacks\n", league, season, week)
	return []models.Event{}
}

// fetchStage paginates one query stage sequentially, bounded at MaxPages.
// A failed page aborts this stage's pagination but keeps whatever the stage
// already collected; the chain itself continues.
func (f *EventFetcher) fetchStage(ctx context.Context, stage string, q EventQuery) []models.Event {
	var events []models.Event
	cursor := ""

	for page := 0; page < MaxPages; page++ {
		if ctx.Err() != nil {
			return events
		}

		pageEvents, nextCursor, err := f.client.FetchEventsPage(ctx, q, cursor)
		if f.onStatus != nil {
			f.onStatus(StatusCode(err))
		}
		if err != nil {
			fmt.Printf("fetch stage %s page %d failed: %v\n", stage, page+1, err)
			break
		}

		events = append(events, pageEvents...)

		if nextCursor == "" {
			break
		}
		cursor = nextCursor
	}

	return events
}
