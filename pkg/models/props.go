package models

import "time"

// PropType classifies a persisted prop
type PropType string

const (
	PropTypePlayer PropType = "player"
	PropTypeTeam   PropType = "team"
)

// Prop is the persisted unit produced by the assembler. ConflictKey is the
// sole idempotency key for upserts: two runs over the same upstream data must
// produce byte-identical keys.
type Prop struct {
	ConflictKey string   `json:"conflict_key"`
	PropType    PropType `json:"prop_type"`

	PlayerID   string `json:"player_id,omitempty"`
	PlayerName string `json:"player_name,omitempty"`
	TeamRef    string `json:"team_ref,omitempty"` // home/away marker for team props

	Team     string `json:"team"`
	Opponent string `json:"opponent,omitempty"`

	MarketLabel string   `json:"market_label"`
	Line        *float64 `json:"line"`

	BestOverPrice  string `json:"best_over_price,omitempty"`
	BestOverBook   string `json:"best_over_book,omitempty"`
	BestUnderPrice string `json:"best_under_price,omitempty"`
	BestUnderBook  string `json:"best_under_book,omitempty"`

	AllBookQuotes []BookQuote `json:"all_book_quotes,omitempty"`

	GameID   string    `json:"game_id"`
	GameTime time.Time `json:"game_time"`
	League   string    `json:"league"`
	Season   string    `json:"season,omitempty"`
	Week     int       `json:"week,omitempty"`

	LastUpdated time.Time `json:"last_updated"`
	IsAvailable bool      `json:"is_available"`
}

// BookQuote is one bookmaker's over/under pair collected for a prop
type BookQuote struct {
	Bookmaker  string   `json:"bookmaker"`
	OverPrice  string   `json:"over_price,omitempty"`
	UnderPrice string   `json:"under_price,omitempty"`
	OverLine   *float64 `json:"over_line,omitempty"`
	UnderLine  *float64 `json:"under_line,omitempty"`
	Deeplink   string   `json:"deeplink,omitempty"`
}

// BatchResult reports one persistence call; transient, never stored
type BatchResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Errors   int `json:"errors"`
}

// Add merges another result into this one
func (r *BatchResult) Add(other BatchResult) {
	r.Inserted += other.Inserted
	r.Updated += other.Updated
	r.Errors += other.Errors
}

// PlayerIdentity is one roster row, cached in-process by the resolver
type PlayerIdentity struct {
	CanonicalID string `json:"player_id"`
	FullName    string `json:"full_name"`
	Team        string `json:"team"`
	League      string `json:"league"`
	Position    string `json:"position,omitempty"`
}

// MissingPlayerRecord tracks a name that failed canonical resolution,
// upserted by normalized name for operator follow-up
type MissingPlayerRecord struct {
	NormalizedName string    `json:"normalized_name"`
	Team           string    `json:"team"`
	League         string    `json:"league"`
	GeneratedID    string    `json:"generated_id"`
	SampleOddID    string    `json:"sample_odd_id,omitempty"`
	FirstSeen      time.Time `json:"first_seen"`
	LastSeen       time.Time `json:"last_seen"`
	Count          int       `json:"count"`
}

// EventProps is one event's normalized props as served by the read API
type EventProps struct {
	EventID     string    `json:"eventID"`
	LeagueID    string    `json:"leagueID"`
	StartTime   time.Time `json:"start_time"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	PlayerProps []Prop    `json:"player_props"`
	TeamProps   []Prop    `json:"team_props"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}
