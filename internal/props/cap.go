package props

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/plugbts/propflow/internal/markets"
	"github.com/plugbts/propflow/pkg/models"
)

// CapAndSort orders each event's props by league market priority, removes
// duplicate logical entries, and enforces the per-league prop budget across
// all events. The cap is a soft degrade valve: once the cumulative count
// reaches maxProps, remaining prop lists are truncated rather than erroring.
func CapAndSort(events []models.EventProps, priority []string, maxProps int) []models.EventProps {
	for i := range events {
		events[i].PlayerProps = sortByPriority(dedup(events[i].PlayerProps), priority)
		events[i].TeamProps = sortByPriority(dedup(events[i].TeamProps), priority)
	}

	if maxProps <= 0 {
		return events
	}

	remaining := maxProps
	for i := range events {
		events[i].PlayerProps, remaining = truncate(events[i].PlayerProps, remaining)
		events[i].TeamProps, remaining = truncate(events[i].TeamProps, remaining)
	}

	return events
}

// sortByPriority sorts props so markets ranked earlier in the league priority
// list come first. Unranked markets keep their arrival order after all ranked
// ones; the sort is stable so ties never reshuffle.
func sortByPriority(list []models.Prop, priority []string) []models.Prop {
	sort.SliceStable(list, func(i, j int) bool {
		return markets.PriorityRank(priority, list[i].MarketLabel) <
			markets.PriorityRank(priority, list[j].MarketLabel)
	})
	return list
}

// dedup removes duplicate logical entries, keeping the first occurrence
func dedup(list []models.Prop) []models.Prop {
	seen := make(map[string]bool, len(list))
	out := list[:0]
	for _, p := range list {
		key := logicalKey(p)
		if seen[key] {
			fmt.Printf("dropping duplicate prop %s\n", key)
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// logicalKey identifies a prop independent of its book/price fields
func logicalKey(p models.Prop) string {
	line := ""
	if p.Line != nil {
		line = strconv.FormatFloat(*p.Line, 'f', -1, 64)
	}
	subject := p.PlayerID
	if p.PropType == models.PropTypeTeam {
		subject = p.TeamRef
	}
	return strings.Join([]string{p.GameID, string(p.PropType), subject, p.MarketLabel, line}, "|")
}

// truncate caps a list against the remaining budget
func truncate(list []models.Prop, remaining int) ([]models.Prop, int) {
	if remaining <= 0 {
		return nil, 0
	}
	if len(list) > remaining {
		list = list[:remaining]
	}
	return list, remaining - len(list)
}
