package basketball_nba

// Config holds NBA-specific ingestion configuration
type Config struct {
	LeagueKey       string
	DisplayName     string
	SportID         string
	MarketPriority  []string
	MaxProps        int
	SeasonFallbacks map[string][]string
}

// NewProfile creates the NBA league profile with defaults
func NewProfile() *Config {
	return &Config{
		LeagueKey:   "NBA",
		DisplayName: "NBA Basketball",
		SportID:     "BASKETBALL",
		MarketPriority: []string{
			"Points",
			"Rebounds",
			"Assists",
			"Points + Rebounds + Assists",
			"Three Pointers Made",
			"Points + Rebounds",
			"Points + Assists",
			"Rebounds + Assists",
			"Steals",
			"Blocks",
			"Turnovers",
		},
		MaxProps:        400,
		SeasonFallbacks: map[string][]string{},
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
