package odds

import (
	"fmt"
	"sort"
	"strings"

	"github.com/plugbts/propflow/pkg/models"
)

// team-scoped entity markers used by the upstream feed
var teamEntities = map[string]bool{
	"home":  true,
	"away":  true,
	"all":   true,
	"side1": true,
	"side2": true,
}

// Group is the set of raw odds entries that together describe one over/under
// market for one player or team. At most one over and one under
// representative; resolves to exactly zero or one prop downstream.
type Group struct {
	Key      string
	EntityID string
	StatID   string
	PeriodID string
	MarketID string

	Over  *models.RawOddEntry
	Under *models.RawOddEntry
}

// GroupEntries partitions a flat odds map into logical groups keyed by
// entity+stat+period+market, so an over and its paired under land together
// while alternate-line markets for the same stat stay separate. Entries are
// visited in sorted oddID order so grouping output is stable across runs
// regardless of map iteration order.
func GroupEntries(oddsMap map[string]models.RawOddEntry) []Group {
	oddIDs := make([]string, 0, len(oddsMap))
	for id := range oddsMap {
		oddIDs = append(oddIDs, id)
	}
	sort.Strings(oddIDs)

	groups := make(map[string]*Group)
	var order []string

	for _, id := range oddIDs {
		entry := oddsMap[id]
		if entry.Cancelled {
			continue
		}

		key := fmt.Sprintf("%s|%s|%s|%s", entry.EntityID(), entry.StatID, entry.PeriodID, entry.MarketID)
		g, exists := groups[key]
		if !exists {
			g = &Group{
				Key:      key,
				EntityID: entry.EntityID(),
				StatID:   entry.StatID,
				PeriodID: entry.PeriodID,
				MarketID: entry.MarketID,
			}
			groups[key] = g
			order = append(order, key)
		}

		e := entry
		switch sideFamily(entry.SideID) {
		case "over":
			if g.Over == nil {
				g.Over = &e
			}
		case "under":
			if g.Under == nil {
				g.Under = &e
			}
		}
	}

	out := make([]Group, 0, len(order))
	for _, key := range order {
		g := groups[key]
		if g.Over == nil && g.Under == nil {
			continue
		}
		out = append(out, *g)
	}
	return out
}

// sideFamily folds yes/no sides into the over/under pair structure.
// Unrecognized sides are dropped.
func sideFamily(sideID string) string {
	switch strings.ToLower(strings.TrimSpace(sideID)) {
	case "over", "yes":
		return "over"
	case "under", "no":
		return "under"
	default:
		return ""
	}
}

// Base returns the representative entry for the group, preferring the over
// side when both are present.
func (g Group) Base() *models.RawOddEntry {
	if g.Over != nil {
		return g.Over
	}
	return g.Under
}

// PlayerScoped reports whether the group refers to a player rather than a
// team-level aggregate.
func (g Group) PlayerScoped() bool {
	base := g.Base()
	if base == nil {
		return false
	}
	if base.PlayerID != "" {
		return true
	}
	return !teamEntities[strings.ToLower(base.StatEntityID)]
}

// TeamRef returns the side marker for team-scoped groups
func (g Group) TeamRef() string {
	base := g.Base()
	if base == nil {
		return ""
	}
	return strings.ToLower(base.StatEntityID)
}

// Line derives the group's single line value from the base entry, book value
// first then fair value. A nil line is still emitted so downstream reporting
// sees the group.
func (g Group) Line() *float64 {
	base := g.Base()
	if base == nil {
		return nil
	}
	return base.LineValue()
}

// OverQuotes collects every bookmaker's over-side price in sorted bookmaker
// order. Falls back to the entry-level book price under a "consensus" key
// when no per-bookmaker quotes were reported.
func (g Group) OverQuotes() []PriceQuote {
	return sideQuotes(g.Over)
}

// UnderQuotes collects every bookmaker's under-side price
func (g Group) UnderQuotes() []PriceQuote {
	return sideQuotes(g.Under)
}

func sideQuotes(entry *models.RawOddEntry) []PriceQuote {
	if entry == nil {
		return nil
	}

	if len(entry.ByBookmaker) == 0 {
		if price := entry.PriceString(); price != "" {
			return []PriceQuote{{Bookmaker: "consensus", Price: price}}
		}
		return nil
	}

	books := make([]string, 0, len(entry.ByBookmaker))
	for book := range entry.ByBookmaker {
		books = append(books, book)
	}
	sort.Strings(books)

	quotes := make([]PriceQuote, 0, len(books))
	for _, book := range books {
		quotes = append(quotes, PriceQuote{Bookmaker: book, Price: entry.ByBookmaker[book].Odds})
	}
	return quotes
}

// BookQuotes merges over and under per-bookmaker quotes into the persisted
// quote list, sorted by bookmaker for stable output.
func (g Group) BookQuotes() []models.BookQuote {
	merged := make(map[string]*models.BookQuote)
	var books []string

	collect := func(entry *models.RawOddEntry, over bool) {
		if entry == nil {
			return
		}
		for book, bo := range entry.ByBookmaker {
			q, exists := merged[book]
			if !exists {
				q = &models.BookQuote{Bookmaker: book}
				merged[book] = q
				books = append(books, book)
			}
			line, hasLine := models.ParseLine(bo.OverUnder)
			if over {
				q.OverPrice = bo.Odds
				if hasLine {
					q.OverLine = &line
				}
			} else {
				q.UnderPrice = bo.Odds
				if hasLine {
					q.UnderLine = &line
				}
			}
			if q.Deeplink == "" {
				q.Deeplink = bo.Deeplink
			}
		}
	}

	collect(g.Over, true)
	collect(g.Under, false)

	sort.Strings(books)
	quotes := make([]models.BookQuote, 0, len(books))
	for _, book := range books {
		quotes = append(quotes, *merged[book])
	}
	return quotes
}
