package models

import (
	"strconv"
	"strings"
	"time"
)

// Event represents one upstream game with its flat odds map
type Event struct {
	EventID  string                 `json:"eventID"`
	SportID  string                 `json:"sportID"`
	LeagueID string                 `json:"leagueID"`
	Season   string                 `json:"season,omitempty"`
	Week     int                    `json:"week,omitempty"`
	Status   EventStatus            `json:"status"`
	Teams    EventTeams             `json:"teams"`
	Odds     map[string]RawOddEntry `json:"odds,omitempty"`
}

// EventStatus holds scheduling/lifecycle flags for an event
type EventStatus struct {
	StartsAt     time.Time `json:"startsAt"`
	DisplayShort string    `json:"displayShort,omitempty"`
	Started      bool      `json:"started"`
	Ended        bool      `json:"ended"`
	Cancelled    bool      `json:"cancelled"`
}

// EventTeams holds both sides of an event
type EventTeams struct {
	Home TeamInfo `json:"home"`
	Away TeamInfo `json:"away"`
}

// TeamInfo identifies one side of an event
type TeamInfo struct {
	TeamID string    `json:"teamID"`
	Names  TeamNames `json:"names"`
}

// TeamNames carries the upstream naming variants for a team
type TeamNames struct {
	Long   string `json:"long,omitempty"`
	Medium string `json:"medium,omitempty"`
	Short  string `json:"short,omitempty"`
}

// DisplayName returns the best available name for a team
func (t TeamInfo) DisplayName() string {
	if t.Names.Long != "" {
		return t.Names.Long
	}
	if t.Names.Medium != "" {
		return t.Names.Medium
	}
	if t.Names.Short != "" {
		return t.Names.Short
	}
	return t.TeamID
}

// RawOddEntry is one upstream quote line, immutable as received
type RawOddEntry struct {
	OddID         string                   `json:"oddID"`
	StatID        string                   `json:"statID"`
	StatEntityID  string                   `json:"statEntityID"`
	PlayerID      string                   `json:"playerID,omitempty"`
	SideID        string                   `json:"sideID"`
	PeriodID      string                   `json:"periodID"`
	MarketID      string                   `json:"marketID,omitempty"`
	MarketName    string                   `json:"marketName,omitempty"`
	BookOverUnder string                   `json:"bookOverUnder,omitempty"`
	BookOdds      string                   `json:"bookOdds,omitempty"`
	FairOverUnder string                   `json:"fairOverUnder,omitempty"`
	FairOdds      string                   `json:"fairOdds,omitempty"`
	ByBookmaker   map[string]BookmakerOdds `json:"byBookmaker,omitempty"`
	Started       bool                     `json:"started"`
	Ended         bool                     `json:"ended"`
	Cancelled     bool                     `json:"cancelled"`
}

// BookmakerOdds is a single bookmaker's quote inside a RawOddEntry
type BookmakerOdds struct {
	Odds          string `json:"odds,omitempty"`
	OverUnder     string `json:"overUnder,omitempty"`
	Deeplink      string `json:"deeplink,omitempty"`
	LastUpdatedAt string `json:"lastUpdatedAt,omitempty"`
}

// EntityID returns the player reference when present, otherwise the stat entity
func (o RawOddEntry) EntityID() string {
	if o.PlayerID != "" {
		return o.PlayerID
	}
	return o.StatEntityID
}

// LineValue returns the first parseable of the book line and the fair line.
// Every fallback lookup for a line goes through here rather than being
// scattered across callers.
func (o RawOddEntry) LineValue() *float64 {
	if v, ok := ParseLine(o.BookOverUnder); ok {
		return &v
	}
	if v, ok := ParseLine(o.FairOverUnder); ok {
		return &v
	}
	return nil
}

// PriceString returns the book price when present, otherwise the fair price
func (o RawOddEntry) PriceString() string {
	if strings.TrimSpace(o.BookOdds) != "" {
		return o.BookOdds
	}
	return o.FairOdds
}

// ParseLine parses an upstream over/under value ("249.5", "+6.5") as a float
func ParseLine(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "+"))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseAmerican parses an American odds string ("+115", "-120") as an int
func ParseAmerican(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.TrimPrefix(s, "+")
	v, err := strconv.Atoi(s)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}
