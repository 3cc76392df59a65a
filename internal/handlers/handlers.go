package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/plugbts/propflow/internal/cache"
	"github.com/plugbts/propflow/internal/metrics"
	"github.com/plugbts/propflow/internal/pipeline"
	"github.com/plugbts/propflow/internal/ratelimit"
	"github.com/plugbts/propflow/pkg/contracts"
	"github.com/plugbts/propflow/pkg/models"
)

// Pinger checks a dependency's connectivity for the health endpoint
type Pinger interface {
	Ping(ctx context.Context) error
}

// PropsCache is the edge-cache surface the read path needs, satisfied by
// cache.EdgeCache
type PropsCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte)
	Purge(ctx context.Context, key string) (bool, error)
}

// Handler contains dependencies for the HTTP surface
type Handler struct {
	pipeline    *pipeline.Pipeline
	cache       PropsCache
	limiter     *ratelimit.Limiter
	metrics     *metrics.Collector
	missing     contracts.MissingPlayerStore
	purgeSecret string

	dbPing    Pinger
	redisPing Pinger
}

// NewHandler creates the handler set
func NewHandler(
	p *pipeline.Pipeline,
	edgeCache PropsCache,
	limiter *ratelimit.Limiter,
	collector *metrics.Collector,
	missing contracts.MissingPlayerStore,
	purgeSecret string,
	dbPing, redisPing Pinger,
) *Handler {
	return &Handler{
		pipeline:    p,
		cache:       edgeCache,
		limiter:     limiter,
		metrics:     collector,
		missing:     missing,
		purgeSecret: purgeSecret,
		dbPing:      dbPing,
		redisPing:   redisPing,
	}
}

// HealthCheck returns service and dependency health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	deps := map[string]string{}

	if h.dbPing != nil {
		if err := h.dbPing.Ping(ctx); err != nil {
			status = "degraded"
			deps["postgres"] = err.Error()
		} else {
			deps["postgres"] = "ok"
		}
	}
	if h.redisPing != nil {
		if err := h.redisPing.Ping(ctx); err != nil {
			status = "degraded"
			deps["redis"] = err.Error()
		} else {
			deps["redis"] = "ok"
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":       status,
		"timestamp":    time.Now().UTC(),
		"service":      "propflow",
		"dependencies": deps,
	})
}

// propsResponse is the read API payload. Per-league failures land in Errors
// so one bad league never fails the whole request.
type propsResponse struct {
	Events []models.EventProps    `json:"events"`
	Errors []string               `json:"errors,omitempty"`
	Debug  map[string]interface{} `json:"debug,omitempty"`
}

// GetPlayerProps serves normalized props for one or more leagues
// GET /api/{league}/player-props?date&view&debug&oddIDs&bookmakers
func (h *Handler) GetPlayerProps(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		if h.metrics != nil {
			h.metrics.ObserveResponse(time.Since(start))
		}
	}()

	identity, authenticated := callerIdentity(r)
	allowed, retryAfter := h.limiter.Allow(r.Context(), identity, "player-props", authenticated)
	if !allowed {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
		respondError(w, http.StatusTooManyRequests, "rate limit exceeded", nil)
		return
	}

	leagueParam := chi.URLParam(r, "league")
	date, err := parseDateParam(r, "date")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", err)
		return
	}

	opts := cache.KeyOptions{
		OddIDs:     splitParam(r, "oddIDs"),
		Bookmakers: splitParam(r, "bookmakers"),
		View:       r.URL.Query().Get("view"),
		Debug:      r.URL.Query().Get("debug") == "true",
	}
	cacheKey := cache.BuildKey(leagueParam, date.Format("2006-01-02"), opts)

	if payload, ok := h.cache.Get(r.Context(), cacheKey); ok {
		if h.metrics != nil {
			h.metrics.CacheHit()
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.Write(payload)
		return
	}
	if h.metrics != nil {
		h.metrics.CacheMiss()
	}

	response := propsResponse{Events: []models.EventProps{}}
	for _, league := range strings.Split(leagueParam, ",") {
		league = strings.TrimSpace(league)
		if league == "" {
			continue
		}
		events, err := h.pipeline.FetchAndNormalize(r.Context(), league, date)
		if err != nil {
			response.Errors = append(response.Errors, fmt.Sprintf("%s: %v", league, err))
			continue
		}
		response.Events = append(response.Events, events...)
	}

	filterBookmakers(response.Events, opts.Bookmakers)
	if opts.View == "compact" {
		compactView(response.Events)
	}
	if opts.Debug {
		response.Debug = map[string]interface{}{
			"cache_key":   cacheKey,
			"duration_ms": time.Since(start).Milliseconds(),
			"events":      len(response.Events),
		}
	}

	payload, err := json.Marshal(response)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to encode response", err)
		return
	}

	// A degraded payload is never cached: a league that recovers on the next
	// request should not stay missing until the TTL expires
	if len(response.Errors) == 0 {
		h.cache.Set(r.Context(), cacheKey, payload)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Write(payload)
}

// PurgeCache deletes a single canonical cache key
// POST /api/cache/purge?league&date
func (h *Handler) PurgeCache(w http.ResponseWriter, r *http.Request) {
	if h.purgeSecret != "" {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token != h.purgeSecret {
			respondError(w, http.StatusUnauthorized, "invalid purge token", nil)
			return
		}
	}

	league := r.URL.Query().Get("league")
	if league == "" {
		respondError(w, http.StatusBadRequest, "league is required", nil)
		return
	}
	date, err := parseDateParam(r, "date")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", err)
		return
	}

	dateStr := date.Format("2006-01-02")
	cacheKey := cache.BuildKey(league, dateStr, cache.KeyOptions{})

	deleted, err := h.cache.Purge(r.Context(), cacheKey)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to purge cache", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "cache purge processed",
		"league":   league,
		"date":     dateStr,
		"cacheKey": cacheKey,
		"deleted":  deleted,
	})
}

// GetMetrics returns ingestion/serving counters
// GET /metrics?reset=true
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	reset := r.URL.Query().Get("reset") == "true"
	respondJSON(w, http.StatusOK, h.metrics.Snapshot(reset))
}

// ingestRequest is the manual trigger payload
type ingestRequest struct {
	League string `json:"league"`
	Season string `json:"season"`
	Week   int    `json:"week,omitempty"`
}

// Ingest runs the pipeline once for a league
// POST /ingest
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.League == "" {
		respondError(w, http.StatusBadRequest, "league is required", nil)
		return
	}
	if req.Season == "" {
		req.Season = strconv.Itoa(time.Now().UTC().Year())
	}

	result, err := h.pipeline.Run(r.Context(), req.League, req.Season, req.Week)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ingestion failed", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"run_id":      result.RunID,
		"total_props": result.TotalProps,
		"inserted":    result.Batch.Inserted,
		"updated":     result.Batch.Updated,
		"errors":      result.Batch.Errors,
		"duration_ms": result.DurationMs,
	})
}

// GetMissingPlayers lists unresolved-name records for operator follow-up
// GET /api/missing-players?league
func (h *Handler) GetMissingPlayers(w http.ResponseWriter, r *http.Request) {
	league := r.URL.Query().Get("league")
	if league == "" {
		respondError(w, http.StatusBadRequest, "league is required", nil)
		return
	}

	records, err := h.missing.ListMissingPlayers(r.Context(), league)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list missing players", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"league":  league,
		"players": records,
		"count":   len(records),
	})
}

// Helper functions

// callerIdentity derives the rate-limit identity: API key when supplied,
// otherwise the client address
func callerIdentity(r *http.Request) (string, bool) {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key, true
	}
	return r.RemoteAddr, false
}

func parseDateParam(r *http.Request, param string) (time.Time, error) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", value)
}

func splitParam(r *http.Request, param string) []string {
	value := r.URL.Query().Get(param)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// filterBookmakers trims each prop's quote list to the requested bookmakers
func filterBookmakers(events []models.EventProps, bookmakers []string) {
	if len(bookmakers) == 0 {
		return
	}
	want := make(map[string]bool, len(bookmakers))
	for _, b := range bookmakers {
		want[strings.ToLower(b)] = true
	}

	trim := func(list []models.Prop) {
		for i := range list {
			kept := list[i].AllBookQuotes[:0]
			for _, q := range list[i].AllBookQuotes {
				if want[strings.ToLower(q.Bookmaker)] {
					kept = append(kept, q)
				}
			}
			list[i].AllBookQuotes = kept
		}
	}

	for i := range events {
		trim(events[i].PlayerProps)
		trim(events[i].TeamProps)
	}
}

// compactView drops the per-book quote lists, leaving best-over/best-under
// summaries only
func compactView(events []models.EventProps) {
	for i := range events {
		for j := range events[i].PlayerProps {
			events[i].PlayerProps[j].AllBookQuotes = nil
		}
		for j := range events[i].TeamProps {
			events[i].TeamProps[j].AllBookQuotes = nil
		}
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("error encoding response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		fmt.Printf("error: %s - %v\n", message, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	if encodeErr := json.NewEncoder(w).Encode(errResp); encodeErr != nil {
		fmt.Printf("error encoding error response: %v\n", encodeErr)
	}
}
