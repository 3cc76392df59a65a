package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/plugbts/propflow/internal/metrics"
	"github.com/plugbts/propflow/internal/odds"
	"github.com/plugbts/propflow/internal/props"
	"github.com/plugbts/propflow/internal/provider"
	"github.com/plugbts/propflow/internal/registry"
	"github.com/plugbts/propflow/internal/store"
	"github.com/plugbts/propflow/pkg/models"
)

// Pipeline runs one ingestion pass: fetch events, normalize odds into props,
// cap and dedup, then persist. Events are processed one at a time and chunks
// are written sequentially, which keeps conflict-key upserts deterministic.
type Pipeline struct {
	fetcher   *provider.EventFetcher
	assembler *props.Assembler
	writer    *store.BatchWriter
	registry  *registry.LeagueRegistry
	metrics   *metrics.Collector
}

// NewPipeline wires the ingestion pipeline
func NewPipeline(
	fetcher *provider.EventFetcher,
	assembler *props.Assembler,
	writer *store.BatchWriter,
	leagues *registry.LeagueRegistry,
	collector *metrics.Collector,
) *Pipeline {
	p := &Pipeline{
		fetcher:   fetcher,
		assembler: assembler,
		writer:    writer,
		registry:  leagues,
		metrics:   collector,
	}
	if collector != nil {
		fetcher.OnStatus(collector.UpstreamStatus)
	}
	return p
}

// RunResult summarizes one ingestion run
type RunResult struct {
	RunID      string             `json:"run_id"`
	League     string             `json:"league"`
	Season     string             `json:"season"`
	Week       int                `json:"week,omitempty"`
	Events     int                `json:"events"`
	TotalProps int                `json:"total_props"`
	Batch      models.BatchResult `json:"batch"`
	Duration   time.Duration      `json:"-"`
	DurationMs int64              `json:"duration_ms"`
}

// Run ingests one league/season/week. An empty upstream result is a valid
// terminal state, not an error; the only error here is an unknown league.
func (p *Pipeline) Run(ctx context.Context, league, season string, week int) (RunResult, error) {
	start := time.Now()
	result := RunResult{
		RunID:  uuid.NewString(),
		League: league,
		Season: season,
		Week:   week,
	}

	profile, ok := p.registry.Get(league)
	if !ok {
		return result, fmt.Errorf("unknown league: %s", league)
	}

	fmt.Printf("✓ Ingestion run %s started: league=%s season=%s week=%d\n", result.RunID, league, season, week)

	events := p.fetcher.FetchEvents(ctx, profile, season, week)
	result.Events = len(events)

	normalized := make([]models.EventProps, 0, len(events))
	rawCount := 0
	for _, event := range events {
		ep := p.NormalizeEvent(ctx, event)
		rawCount += len(ep.PlayerProps) + len(ep.TeamProps)
		normalized = append(normalized, ep)
	}

	normalized = props.CapAndSort(normalized, profile.GetMarketPriority(), profile.GetMaxProps())

	var flat []models.Prop
	for _, ep := range normalized {
		flat = append(flat, ep.PlayerProps...)
		flat = append(flat, ep.TeamProps...)
	}

	if p.metrics != nil {
		p.metrics.AddPropsKept(len(flat))
		p.metrics.AddPropsDropped(rawCount - len(flat))
	}

	result.TotalProps = len(flat)
	result.Batch = p.writer.Upsert(ctx, flat)
	result.Duration = time.Since(start)
	result.DurationMs = result.Duration.Milliseconds()

	fmt.Printf("✓ Ingestion run %s finished: props=%d inserted=%d updated=%d errors=%d in %s\n",
		result.RunID, result.TotalProps, result.Batch.Inserted, result.Batch.Updated, result.Batch.Errors, result.Duration)

	return result, nil
}

// NormalizeEvent is the synchronous normalize path shared by ingestion and
// the on-demand read API: group the event's raw odds and assemble props.
func (p *Pipeline) NormalizeEvent(ctx context.Context, event models.Event) models.EventProps {
	ep := models.EventProps{
		EventID:     event.EventID,
		LeagueID:    event.LeagueID,
		StartTime:   event.Status.StartsAt,
		HomeTeam:    event.Teams.Home.DisplayName(),
		AwayTeam:    event.Teams.Away.DisplayName(),
		PlayerProps: []models.Prop{},
		TeamProps:   []models.Prop{},
	}

	for _, group := range odds.GroupEntries(event.Odds) {
		prop := p.assembler.Assemble(ctx, group, event)
		if prop == nil {
			if p.metrics != nil {
				p.metrics.AddPropsDropped(1)
			}
			continue
		}
		if prop.PropType == models.PropTypePlayer {
			ep.PlayerProps = append(ep.PlayerProps, *prop)
		} else {
			ep.TeamProps = append(ep.TeamProps, *prop)
		}
	}

	return ep
}

// FetchAndNormalize serves the read path: fetch a league's events for a date
// and normalize them without persisting. Empty results are valid.
func (p *Pipeline) FetchAndNormalize(ctx context.Context, league string, date time.Time) ([]models.EventProps, error) {
	profile, ok := p.registry.Get(league)
	if !ok {
		return nil, fmt.Errorf("unknown league: %s", league)
	}

	season := fmt.Sprintf("%d", date.Year())
	events := p.fetcher.FetchEvents(ctx, profile, season, 0)

	day := date.UTC().Format("2006-01-02")
	out := make([]models.EventProps, 0, len(events))
	for _, event := range events {
		if !event.Status.StartsAt.IsZero() && event.Status.StartsAt.UTC().Format("2006-01-02") != day {
			continue
		}
		out = append(out, p.NormalizeEvent(ctx, event))
	}
	return out, nil
}
