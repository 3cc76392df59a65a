package props

import (
	"testing"

	"github.com/plugbts/propflow/pkg/models"
)

func prop(gameID, playerID, market string, line float64) models.Prop {
	return models.Prop{
		ConflictKey: gameID + "|" + playerID + "|" + market,
		PropType:    models.PropTypePlayer,
		PlayerID:    playerID,
		MarketLabel: market,
		Line:        &line,
		GameID:      gameID,
	}
}

func TestCapAndSortOrdersByPriority(t *testing.T) {
	priority := []string{"Passing Yards", "Rushing Yards", "Receptions"}

	events := []models.EventProps{{
		EventID: "evt-1",
		PlayerProps: []models.Prop{
			prop("evt-1", "p1", "Sacks", 1.5),
			prop("evt-1", "p2", "Receptions", 4.5),
			prop("evt-1", "p3", "Passing Yards", 250.5),
			prop("evt-1", "p4", "Rushing Yards", 60.5),
		},
	}}

	out := CapAndSort(events, priority, 0)

	got := make([]string, 0, 4)
	for _, p := range out[0].PlayerProps {
		got = append(got, p.MarketLabel)
	}
	want := []string{"Passing Yards", "Rushing Yards", "Receptions", "Sacks"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("priority order = %v, want %v", got, want)
		}
	}
}

func TestCapAndSortEnforcesCap(t *testing.T) {
	priority := []string{"Passing Yards"}

	events := []models.EventProps{
		{
			EventID: "evt-1",
			PlayerProps: []models.Prop{
				prop("evt-1", "p1", "Sacks", 1.5),
				prop("evt-1", "p2", "Passing Yards", 250.5),
				prop("evt-1", "p3", "Receptions", 4.5),
			},
		},
		{
			EventID: "evt-2",
			PlayerProps: []models.Prop{
				prop("evt-2", "p4", "Passing Yards", 230.5),
				prop("evt-2", "p5", "Rushing Yards", 70.5),
			},
		},
	}

	out := CapAndSort(events, priority, 3)

	total := 0
	for _, ep := range out {
		total += len(ep.PlayerProps) + len(ep.TeamProps)
	}
	if total != 3 {
		t.Fatalf("capped total = %d, want 3", total)
	}

	// Priority market must survive the cut line within each event
	if out[0].PlayerProps[0].MarketLabel != "Passing Yards" {
		t.Errorf("highest priority market should sort first, got %s", out[0].PlayerProps[0].MarketLabel)
	}
	// Second event is truncated, not an error
	if len(out[1].PlayerProps) != 0 {
		t.Errorf("second event should be fully truncated, got %d props", len(out[1].PlayerProps))
	}
}

func TestCapAndSortZeroCapMeansUnlimited(t *testing.T) {
	events := []models.EventProps{{
		EventID: "evt-1",
		PlayerProps: []models.Prop{
			prop("evt-1", "p1", "Sacks", 1.5),
			prop("evt-1", "p2", "Receptions", 4.5),
		},
	}}

	out := CapAndSort(events, nil, 0)
	if len(out[0].PlayerProps) != 2 {
		t.Errorf("zero cap should keep everything, got %d", len(out[0].PlayerProps))
	}
}

func TestCapAndSortDedup(t *testing.T) {
	events := []models.EventProps{{
		EventID: "evt-1",
		PlayerProps: []models.Prop{
			prop("evt-1", "p1", "Passing Yards", 250.5),
			prop("evt-1", "p1", "Passing Yards", 250.5),
			prop("evt-1", "p1", "Passing Yards", 251.5), // different line, distinct
		},
	}}

	out := CapAndSort(events, nil, 0)
	if len(out[0].PlayerProps) != 2 {
		t.Fatalf("dedup kept %d props, want 2", len(out[0].PlayerProps))
	}
}

func TestCapAndSortStableWithinRank(t *testing.T) {
	events := []models.EventProps{{
		EventID: "evt-1",
		PlayerProps: []models.Prop{
			prop("evt-1", "p1", "Sacks", 1.5),
			prop("evt-1", "p2", "Tackles + Assists", 5.5),
			prop("evt-1", "p3", "Sacks", 0.5),
		},
	}}

	out := CapAndSort(events, []string{"Passing Yards"}, 0)

	// All unranked: arrival order preserved
	wantPlayers := []string{"p1", "p2", "p3"}
	for i, p := range out[0].PlayerProps {
		if p.PlayerID != wantPlayers[i] {
			t.Fatalf("unranked markets reshuffled: got %s at %d", p.PlayerID, i)
		}
	}
}
