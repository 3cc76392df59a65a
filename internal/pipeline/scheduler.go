package pipeline

import (
	"context"
	"fmt"
	"time"
)

// WindowCleaner removes stale rate-window rows
type WindowCleaner interface {
	Cleanup(ctx context.Context, olderThan time.Time) (int64, error)
}

// Scheduler triggers ingestion runs for a fixed league set on an interval
// and periodically sweeps expired rate windows.
type Scheduler struct {
	pipeline *Pipeline
	leagues  []string
	season   func() string
	interval time.Duration
	cleaner  WindowCleaner
}

// NewScheduler creates a scheduler over the given leagues
func NewScheduler(p *Pipeline, leagues []string, interval time.Duration, cleaner WindowCleaner) *Scheduler {
	return &Scheduler{
		pipeline: p,
		leagues:  leagues,
		season:   func() string { return fmt.Sprintf("%d", time.Now().UTC().Year()) },
		interval: interval,
		cleaner:  cleaner,
	}
}

// Start runs the scheduling loop until the context is cancelled. Leagues are
// ingested sequentially; one league's failure never blocks the next.
func (s *Scheduler) Start(ctx context.Context) {
	fmt.Printf("✓ Scheduler started: leagues=%v interval=%s\n", s.leagues, s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runAll(ctx)

	for {
		select {
		case <-ctx.Done():
			fmt.Println("✓ Scheduler stopped")
			return
		case <-ticker.C:
			s.runAll(ctx)
			s.sweepWindows(ctx)
		}
	}
}

func (s *Scheduler) runAll(ctx context.Context) {
	season := s.season()
	for _, league := range s.leagues {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.pipeline.Run(ctx, league, season, 0); err != nil {
			fmt.Printf("scheduled ingestion failed for %s: %v\n", league, err)
		}
	}
}

func (s *Scheduler) sweepWindows(ctx context.Context) {
	if s.cleaner == nil {
		return
	}
	deleted, err := s.cleaner.Cleanup(ctx, time.Now().UTC().Add(-time.Hour))
	if err != nil {
		fmt.Printf("rate window cleanup failed: %v\n", err)
		return
	}
	if deleted > 0 {
		fmt.Printf("✓ Cleaned up %d stale rate windows\n", deleted)
	}
}
