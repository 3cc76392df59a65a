package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/plugbts/propflow/internal/handlers"
	"github.com/plugbts/propflow/internal/metrics"
	"github.com/plugbts/propflow/internal/pipeline"
	"github.com/plugbts/propflow/internal/props"
	"github.com/plugbts/propflow/internal/provider"
	"github.com/plugbts/propflow/internal/ratelimit"
	"github.com/plugbts/propflow/internal/registry"
	"github.com/plugbts/propflow/internal/store"
	"github.com/plugbts/propflow/pkg/models"
	"github.com/plugbts/propflow/sports/football_nfl"
)

// fakeCache is an in-memory PropsCache recording writes and purges
type fakeCache struct {
	entries map[string][]byte
	sets    int
	purged  []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	payload, ok := c.entries[key]
	return payload, ok
}

func (c *fakeCache) Set(_ context.Context, key string, payload []byte) {
	c.sets++
	c.entries[key] = payload
}

func (c *fakeCache) Purge(_ context.Context, key string) (bool, error) {
	c.purged = append(c.purged, key)
	_, existed := c.entries[key]
	delete(c.entries, key)
	return existed, nil
}

// fakeResolver resolves every name deterministically
type fakeResolver struct{}

func (fakeResolver) Resolve(_ context.Context, rawName, _, league, _ string) (models.PlayerIdentity, bool) {
	id := strings.ReplaceAll(strings.ToUpper(rawName), " ", "_") + "_1_" + league
	return models.PlayerIdentity{CanonicalID: id, FullName: rawName, Team: "BUF", League: league}, true
}

// sinkStore accepts every chunk; the read path never writes to it
type sinkStore struct{}

func (sinkStore) UpsertChunk(_ context.Context, chunk []models.Prop) (int, int, error) {
	return len(chunk), 0, nil
}

func upstreamEvent() models.Event {
	return models.Event{
		EventID:  "evt-buf-kc",
		LeagueID: "NFL",
		Season:   "2026",
		Status: models.EventStatus{
			StartsAt: time.Date(2026, 9, 6, 17, 0, 0, 0, time.UTC),
		},
		Teams: models.EventTeams{
			Home: models.TeamInfo{TeamID: "KC", Names: models.TeamNames{Long: "Kansas City Chiefs"}},
			Away: models.TeamInfo{TeamID: "BUF", Names: models.TeamNames{Long: "Buffalo Bills"}},
		},
		Odds: map[string]models.RawOddEntry{
			"odd-pass-over": {
				OddID:         "odd-pass-over",
				StatID:        "passing_yards",
				PlayerID:      "JOSH_ALLEN_1_NFL",
				SideID:        "over",
				PeriodID:      "game",
				MarketID:      "ou",
				BookOverUnder: "249.5",
				BookOdds:      "-110",
			},
		},
	}
}

// newTestRouter wires the full read surface against an upstream test server
func newTestRouter(t *testing.T, events []models.Event, edgeCache *fakeCache, purgeSecret string) *chi.Mux {
	t.Helper()

	envelope := struct {
		Events []models.Event `json:"events"`
	}{Events: events}
	body, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("marshaling test envelope: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	t.Cleanup(server.Close)

	leagues := registry.NewLeagueRegistry()
	if err := leagues.Register(football_nfl.NewProfile()); err != nil {
		t.Fatalf("registering profile: %v", err)
	}

	pipe := pipeline.NewPipeline(
		provider.NewEventFetcher(provider.NewClient(server.URL, "test-key", 0)),
		props.NewAssembler(fakeResolver{}),
		store.NewBatchWriter(sinkStore{}, 0),
		leagues,
		metrics.NewCollector(),
	)

	handler := handlers.NewHandler(pipe, edgeCache, ratelimit.NewLimiter(nil, 0),
		metrics.NewCollector(), nil, purgeSecret, nil, nil)

	r := chi.NewRouter()
	r.Get("/api/{league}/player-props", handler.GetPlayerProps)
	r.Post("/api/cache/purge", handler.PurgeCache)
	return r
}

type propsPayload struct {
	Events []models.EventProps `json:"events"`
	Errors []string            `json:"errors"`
}

func TestGetPlayerPropsMultiLeaguePartialFailure(t *testing.T) {
	edgeCache := newFakeCache()
	router := newTestRouter(t, []models.Event{upstreamEvent()}, edgeCache, "")

	req := httptest.NewRequest("GET", "/api/NFL,XFL/player-props?date=2026-09-06", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite a failing league", rec.Code)
	}

	var payload propsPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if len(payload.Events) != 1 || payload.Events[0].EventID != "evt-buf-kc" {
		t.Errorf("events = %+v, want the healthy league's event served", payload.Events)
	}
	if len(payload.Errors) != 1 || !strings.Contains(payload.Errors[0], "XFL") {
		t.Errorf("errors = %v, want one entry naming the failed league", payload.Errors)
	}
	if edgeCache.sets != 0 {
		t.Errorf("degraded response was cached (%d writes), want none", edgeCache.sets)
	}
}

func TestGetPlayerPropsCachesCleanResponses(t *testing.T) {
	edgeCache := newFakeCache()
	router := newTestRouter(t, []models.Event{upstreamEvent()}, edgeCache, "")

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest("GET", "/api/NFL/player-props?date=2026-09-06", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", first.Code)
	}
	if got := first.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("first request X-Cache = %s, want MISS", got)
	}
	if edgeCache.sets != 1 {
		t.Fatalf("cache writes = %d, want 1", edgeCache.sets)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest("GET", "/api/NFL/player-props?date=2026-09-06", nil))
	if got := second.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("second request X-Cache = %s, want HIT", got)
	}
	if second.Body.String() != first.Body.String() {
		t.Error("cache hit served a different payload than the original response")
	}
}

func TestPurgeCacheRequiresToken(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"Missing token", "", http.StatusUnauthorized},
		{"Wrong token", "Bearer wrong", http.StatusUnauthorized},
		{"Right token", "Bearer s3cret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edgeCache := newFakeCache()
			router := newTestRouter(t, nil, edgeCache, "s3cret")

			req := httptest.NewRequest("POST", "/api/cache/purge?league=NFL&date=2026-09-06", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusUnauthorized {
				if len(edgeCache.purged) != 0 {
					t.Errorf("unauthorized request reached the cache: %v", edgeCache.purged)
				}
				return
			}
			if len(edgeCache.purged) != 1 || edgeCache.purged[0] != "props:NFL:2026-09-06" {
				t.Errorf("purged keys = %v, want the canonical league/date key", edgeCache.purged)
			}
		})
	}
}
