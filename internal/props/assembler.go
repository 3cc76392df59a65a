package props

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/plugbts/propflow/internal/markets"
	"github.com/plugbts/propflow/internal/odds"
	"github.com/plugbts/propflow/pkg/models"
)

// PlayerResolver resolves a display name to a canonical identity
type PlayerResolver interface {
	Resolve(ctx context.Context, rawName, team, league, sampleOddID string) (models.PlayerIdentity, bool)
}

// Assembler combines normalized odds groups with identity resolution and
// event metadata into persistable props.
type Assembler struct {
	resolver PlayerResolver

	// now is the clock used for the conflict-key date component, injectable
	// for tests
	now func() time.Time
}

// NewAssembler creates an assembler
func NewAssembler(resolver PlayerResolver) *Assembler {
	return &Assembler{
		resolver: resolver,
		now:      time.Now,
	}
}

// Assemble turns one odds group into exactly zero or one prop. Groups missing
// a player name, market, or line are skipped with a log line, never treated
// as hard failures.
func (a *Assembler) Assemble(ctx context.Context, g odds.Group, event models.Event) *models.Prop {
	base := g.Base()
	if base == nil {
		return nil
	}

	// Label from the stat identifier, falling back to the upstream market
	// display name for entries shipped without one
	marketSource := g.StatID
	if marketSource == "" {
		marketSource = base.MarketName
	}
	if marketSource == "" {
		fmt.Printf("skipping group %s: no market\n", g.Key)
		return nil
	}

	line := g.Line()
	if line == nil {
		fmt.Printf("skipping group %s: no line\n", g.Key)
		return nil
	}

	marketLabel := markets.NormalizeMarketType(marketSource)

	bestOver := odds.PickBest(g.OverQuotes())
	bestUnder := odds.PickBest(g.UnderQuotes())

	prop := models.Prop{
		MarketLabel:   marketLabel,
		Line:          line,
		AllBookQuotes: g.BookQuotes(),
		GameID:        event.EventID,
		GameTime:      event.Status.StartsAt,
		League:        event.LeagueID,
		Season:        event.Season,
		Week:          event.Week,
		LastUpdated:   a.now().UTC(),
		IsAvailable:   !base.Ended && !base.Cancelled && (bestOver != nil || bestUnder != nil),
	}

	if bestOver != nil {
		prop.BestOverPrice = bestOver.Price
		prop.BestOverBook = bestOver.Bookmaker
	}
	if bestUnder != nil {
		prop.BestUnderPrice = bestUnder.Price
		prop.BestUnderBook = bestUnder.Bookmaker
	}

	var identityKey string
	if g.PlayerScoped() {
		playerName := DisplayNameFromID(base.EntityID())
		if playerName == "" {
			fmt.Printf("skipping group %s: no player name\n", g.Key)
			return nil
		}

		resolved, _ := a.resolver.Resolve(ctx, playerName, "", event.LeagueID, base.OddID)
		prop.PropType = models.PropTypePlayer
		prop.PlayerID = resolved.CanonicalID
		prop.PlayerName = playerName
		prop.Team = resolved.Team
		identityKey = resolved.CanonicalID
	} else {
		teamRef := g.TeamRef()
		if teamRef == "" {
			fmt.Printf("skipping group %s: ambiguous scope\n", g.Key)
			return nil
		}
		prop.PropType = models.PropTypeTeam
		prop.TeamRef = teamRef
		prop.Team = teamForRef(event, teamRef)
		identityKey = event.EventID + ":" + teamRef
	}

	prop.Opponent = opponentOf(event, prop.Team)
	prop.ConflictKey = buildConflictKey(identityKey, marketLabel, *line, bestBook(bestOver, bestUnder), a.now())

	return &prop
}

// buildConflictKey produces the idempotency key for upsert. It must be
// byte-identical across repeated runs over unchanged input on the same UTC
// date; the date component gives each day its own row.
func buildConflictKey(identity, marketLabel string, line float64, book string, now time.Time) string {
	return strings.Join([]string{
		identity,
		strings.ReplaceAll(marketLabel, " ", "_"),
		strconv.FormatFloat(line, 'f', -1, 64),
		book,
		now.UTC().Format("2006-01-02"),
	}, "|")
}

// bestBook picks the sportsbook component of the conflict key
func bestBook(over, under *odds.PriceQuote) string {
	if over != nil {
		return over.Bookmaker
	}
	if under != nil {
		return under.Bookmaker
	}
	return "consensus"
}

// teamForRef maps a home/away marker to the event's team name
func teamForRef(event models.Event, ref string) string {
	switch ref {
	case "home", "side1":
		return event.Teams.Home.DisplayName()
	case "away", "side2":
		return event.Teams.Away.DisplayName()
	default:
		return ""
	}
}

// opponentOf returns the other team in the event besides the prop's team
func opponentOf(event models.Event, team string) string {
	home := event.Teams.Home.DisplayName()
	away := event.Teams.Away.DisplayName()
	switch team {
	case home:
		return away
	case away:
		return home
	default:
		return ""
	}
}

// DisplayNameFromID renders an upstream player identifier like
// "JOSH_ALLEN_1_NFL" as "Josh Allen". Trailing numeric and league tokens are
// dropped; the rest is title-cased.
func DisplayNameFromID(id string) string {
	tokens := strings.Split(id, "_")

	// Trim trailing disambiguator and league tokens
	for len(tokens) > 0 {
		last := tokens[len(tokens)-1]
		if isNumeric(last) || isLeagueToken(last) {
			tokens = tokens[:len(tokens)-1]
			continue
		}
		break
	}

	if len(tokens) == 0 {
		return ""
	}

	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		runes := []rune(strings.ToLower(tok))
		runes[0] = unicode.ToUpper(runes[0])
		words = append(words, string(runes))
	}
	return strings.Join(words, " ")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

var leagueTokens = map[string]bool{
	"NFL": true, "NBA": true, "MLB": true, "NHL": true,
	"NCAAF": true, "NCAAB": true, "WNBA": true,
}

func isLeagueToken(s string) bool {
	return leagueTokens[strings.ToUpper(s)]
}
