package contracts

// LeagueProfile defines the interface for league-specific ingestion behavior.
// This enables the pipeline to support multiple leagues with different market
// priorities and upstream quirks.
type LeagueProfile interface {
	// GetLeagueKey returns the unique upstream identifier (e.g., "NFL")
	GetLeagueKey() string

	// GetDisplayName returns the human-readable name (e.g., "National Football League")
	GetDisplayName() string

	// GetSportID returns the upstream sport identifier (e.g., "FOOTBALL")
	GetSportID() string

	// GetMarketPriority returns canonical market labels in serving priority
	// order; markets not listed sort after all listed ones
	GetMarketPriority() []string

	// GetMaxProps returns the per-league prop budget applied by the cap layer
	GetMaxProps() int

	// GetSeasonFallbacks returns prior seasons worth retrying when the
	// requested season yields zero events (known upstream labeling quirks)
	GetSeasonFallbacks(season string) []string
}
