package props

import (
	"context"
	"testing"
	"time"

	"github.com/plugbts/propflow/internal/odds"
	"github.com/plugbts/propflow/pkg/models"
)

// fakeResolver maps known names to fixed identities and synthesizes the rest
type fakeResolver struct {
	known map[string]models.PlayerIdentity
}

func (f *fakeResolver) Resolve(_ context.Context, rawName, team, league, sampleOddID string) (models.PlayerIdentity, bool) {
	if id, ok := f.known[rawName]; ok {
		return id, true
	}
	return models.PlayerIdentity{CanonicalID: "SYN_" + rawName, FullName: rawName, Team: team, League: league}, false
}

func testEvent() models.Event {
	return models.Event{
		EventID:  "evt-1",
		LeagueID: "NFL",
		Season:   "2025",
		Week:     3,
		Status: models.EventStatus{
			StartsAt: time.Date(2025, 9, 21, 17, 0, 0, 0, time.UTC),
		},
		Teams: models.EventTeams{
			Home: models.TeamInfo{TeamID: "BUF", Names: models.TeamNames{Long: "Buffalo Bills", Short: "BUF"}},
			Away: models.TeamInfo{TeamID: "KC", Names: models.TeamNames{Long: "Kansas City Chiefs", Short: "KC"}},
		},
	}
}

func playerGroup(statID, playerID, side string, overrides ...func(*models.RawOddEntry)) odds.Group {
	entry := models.RawOddEntry{
		OddID:         statID + "-" + playerID + "-game-" + side,
		StatID:        statID,
		StatEntityID:  playerID,
		PlayerID:      playerID,
		SideID:        side,
		PeriodID:      "game",
		BookOverUnder: "249.5",
		ByBookmaker: map[string]models.BookmakerOdds{
			"fanduel":    {Odds: "-110", OverUnder: "249.5"},
			"draftkings": {Odds: "+100", OverUnder: "249.5"},
		},
	}
	for _, o := range overrides {
		o(&entry)
	}
	return odds.GroupEntries(map[string]models.RawOddEntry{entry.OddID: entry})[0]
}

func newTestAssembler(t *testing.T, at time.Time) *Assembler {
	t.Helper()
	resolver := &fakeResolver{known: map[string]models.PlayerIdentity{
		"Josh Allen": {CanonicalID: "JOSH_ALLEN_1_NFL", FullName: "Josh Allen", Team: "Buffalo Bills", League: "NFL"},
	}}
	a := NewAssembler(resolver)
	a.now = func() time.Time { return at }
	return a
}

func TestAssemblePlayerProp(t *testing.T) {
	a := newTestAssembler(t, time.Date(2025, 9, 21, 12, 0, 0, 0, time.UTC))
	event := testEvent()

	g := playerGroup("passing_yards", "JOSH_ALLEN_1_NFL", "over")
	prop := a.Assemble(context.Background(), g, event)
	if prop == nil {
		t.Fatal("Assemble returned nil for a complete player group")
	}

	if prop.PropType != models.PropTypePlayer {
		t.Errorf("PropType = %s, want player", prop.PropType)
	}
	if prop.PlayerID != "JOSH_ALLEN_1_NFL" {
		t.Errorf("PlayerID = %s", prop.PlayerID)
	}
	if prop.MarketLabel != "Passing Yards" {
		t.Errorf("MarketLabel = %s, want Passing Yards", prop.MarketLabel)
	}
	if prop.Line == nil || *prop.Line != 249.5 {
		t.Errorf("Line = %v, want 249.5", prop.Line)
	}
	if prop.BestOverBook != "draftkings" || prop.BestOverPrice != "+100" {
		t.Errorf("best over = %s %s, want draftkings +100", prop.BestOverBook, prop.BestOverPrice)
	}
	if prop.Team != "Buffalo Bills" {
		t.Errorf("Team = %s, want Buffalo Bills", prop.Team)
	}
	if prop.Opponent != "Kansas City Chiefs" {
		t.Errorf("Opponent = %s, want Kansas City Chiefs", prop.Opponent)
	}
	if !prop.IsAvailable {
		t.Errorf("prop with live quotes should be available")
	}
}

func TestAssembleYesSideIsPlayerProp(t *testing.T) {
	// A yes/no market with a playerID present is a player prop resolved via
	// the alias table, never dropped as ambiguous
	a := newTestAssembler(t, time.Date(2025, 9, 21, 12, 0, 0, 0, time.UTC))

	g := playerGroup("anytime_touchdown", "JAMES_COOK_1_NFL", "yes", func(o *models.RawOddEntry) {
		o.BookOverUnder = "0.5"
	})
	prop := a.Assemble(context.Background(), g, testEvent())
	if prop == nil {
		t.Fatal("yes-side group with playerID must assemble")
	}
	if prop.PropType != models.PropTypePlayer {
		t.Errorf("PropType = %s, want player", prop.PropType)
	}
	if prop.MarketLabel != "Anytime Touchdown" {
		t.Errorf("MarketLabel = %s, want Anytime Touchdown", prop.MarketLabel)
	}
	if prop.PlayerName != "James Cook" {
		t.Errorf("PlayerName = %s, want James Cook", prop.PlayerName)
	}
}

func TestAssembleTeamProp(t *testing.T) {
	a := newTestAssembler(t, time.Date(2025, 9, 21, 12, 0, 0, 0, time.UTC))

	g := playerGroup("team_total", "home", "over", func(o *models.RawOddEntry) {
		o.PlayerID = ""
		o.StatEntityID = "home"
		o.BookOverUnder = "27.5"
	})
	prop := a.Assemble(context.Background(), g, testEvent())
	if prop == nil {
		t.Fatal("team group must assemble")
	}
	if prop.PropType != models.PropTypeTeam {
		t.Errorf("PropType = %s, want team", prop.PropType)
	}
	if prop.Team != "Buffalo Bills" {
		t.Errorf("Team = %s, want Buffalo Bills (home)", prop.Team)
	}
	if prop.Opponent != "Kansas City Chiefs" {
		t.Errorf("Opponent = %s", prop.Opponent)
	}
}

func TestAssembleMarketNameFallback(t *testing.T) {
	// Entries shipped without a stat identifier still label from the
	// upstream market display name
	a := newTestAssembler(t, time.Date(2025, 9, 21, 12, 0, 0, 0, time.UTC))

	g := playerGroup("", "JOSH_ALLEN_1_NFL", "over", func(o *models.RawOddEntry) {
		o.MarketName = "Passing Yards"
	})
	prop := a.Assemble(context.Background(), g, testEvent())
	if prop == nil {
		t.Fatal("group with a market name must assemble")
	}
	if prop.MarketLabel != "Passing Yards" {
		t.Errorf("MarketLabel = %s, want Passing Yards", prop.MarketLabel)
	}
}

func TestAssembleSkipsMissingMarket(t *testing.T) {
	a := newTestAssembler(t, time.Date(2025, 9, 21, 12, 0, 0, 0, time.UTC))

	g := playerGroup("", "JOSH_ALLEN_1_NFL", "over")
	if prop := a.Assemble(context.Background(), g, testEvent()); prop != nil {
		t.Errorf("group without stat ID or market name must be skipped, got %+v", prop)
	}
}

func TestAssembleSkipsMissingLine(t *testing.T) {
	a := newTestAssembler(t, time.Date(2025, 9, 21, 12, 0, 0, 0, time.UTC))

	g := playerGroup("passing_yards", "JOSH_ALLEN_1_NFL", "over", func(o *models.RawOddEntry) {
		o.BookOverUnder = ""
		o.FairOverUnder = ""
	})
	if prop := a.Assemble(context.Background(), g, testEvent()); prop != nil {
		t.Errorf("group without a line must be skipped, got %+v", prop)
	}
}

func TestConflictKeyIdempotent(t *testing.T) {
	at := time.Date(2025, 9, 21, 12, 0, 0, 0, time.UTC)
	event := testEvent()

	a1 := newTestAssembler(t, at)
	a2 := newTestAssembler(t, at)

	g := playerGroup("passing_yards", "JOSH_ALLEN_1_NFL", "over")
	p1 := a1.Assemble(context.Background(), g, event)
	p2 := a2.Assemble(context.Background(), g, event)

	if p1 == nil || p2 == nil {
		t.Fatal("props did not assemble")
	}
	if p1.ConflictKey != p2.ConflictKey {
		t.Errorf("conflict keys differ across identical runs: %q vs %q", p1.ConflictKey, p2.ConflictKey)
	}
}

func TestConflictKeyDistinctAcrossDays(t *testing.T) {
	event := testEvent()
	g := playerGroup("passing_yards", "JOSH_ALLEN_1_NFL", "over")

	day1 := newTestAssembler(t, time.Date(2025, 9, 21, 23, 0, 0, 0, time.UTC))
	day2 := newTestAssembler(t, time.Date(2025, 9, 22, 1, 0, 0, 0, time.UTC))

	p1 := day1.Assemble(context.Background(), g, event)
	p2 := day2.Assemble(context.Background(), g, event)

	if p1.ConflictKey == p2.ConflictKey {
		t.Errorf("runs on different days must produce distinct conflict keys, both %q", p1.ConflictKey)
	}
}

func TestDisplayNameFromID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"JOSH_ALLEN_1_NFL", "Josh Allen"},
		{"JAMES_COOK_1_NFL", "James Cook"},
		{"AMON_RA_ST_BROWN_1_NFL", "Amon Ra St Brown"},
		{"LEBRON_JAMES_1_NBA", "Lebron James"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := DisplayNameFromID(tt.id); got != tt.want {
				t.Errorf("DisplayNameFromID(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}
