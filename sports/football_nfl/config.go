package football_nfl

// Config holds NFL-specific ingestion configuration
type Config struct {
	LeagueKey       string
	DisplayName     string
	SportID         string
	MarketPriority  []string
	MaxProps        int
	SeasonFallbacks map[string][]string
}

// NewProfile creates the NFL league profile with defaults
func NewProfile() *Config {
	return &Config{
		LeagueKey:   "NFL",
		DisplayName: "National Football League",
		SportID:     "FOOTBALL",
		MarketPriority: []string{
			"Passing Yards",
			"Rushing Yards",
			"Receiving Yards",
			"Passing Touchdowns",
			"Passing Attempts",
			"Passing Completions",
			"Rushing Attempts",
			"Receptions",
			"Rushing + Receiving Yards",
			"Passing Interceptions",
			"Receiving Touchdowns",
			"Rushing Touchdowns",
			"Field Goals Made",
			"Kicking Points",
			"Tackles + Assists",
			"Sacks",
		},
		MaxProps: 500,
		// The 2025 preseason was labeled under the prior season upstream,
		// so a zero-event 2025 query is worth retrying as 2024.
		SeasonFallbacks: map[string][]string{
			"2025": {"2024"},
		},
	}
}

// GetLeagueKey implements contracts.LeagueProfile
func (c *Config) GetLeagueKey() string {
	return c.LeagueKey
}

// GetDisplayName implements contracts.LeagueProfile
func (c *Config) GetDisplayName() string {
	return c.DisplayName
}

// GetSportID implements contracts.LeagueProfile
func (c *Config) GetSportID() string {
	return c.SportID
}

// GetMarketPriority implements contracts.LeagueProfile
func (c *Config) GetMarketPriority() []string {
	return c.MarketPriority
}

// GetMaxProps implements contracts.LeagueProfile
func (c *Config) GetMaxProps() int {
	return c.MaxProps
}

// GetSeasonFallbacks implements contracts.LeagueProfile
func (c *Config) GetSeasonFallbacks(season string) []string {
	return c.SeasonFallbacks[season]
}
