package odds

import "github.com/plugbts/propflow/pkg/models"

// PriceQuote is one bookmaker's price for a single side of a market
type PriceQuote struct {
	Bookmaker string
	Price     string
}

// PickBest returns the most favorable quote from the bettor's point of view,
// or nil when no quote has a parseable American price. Callers must treat nil
// as "no market", not as zero.
func PickBest(quotes []PriceQuote) *PriceQuote {
	var best *PriceQuote
	bestPrice := 0

	for i := range quotes {
		price, ok := models.ParseAmerican(quotes[i].Price)
		if !ok {
			continue
		}
		if best == nil || betterAmerican(price, bestPrice) {
			best = &quotes[i]
			bestPrice = price
		}
	}

	return best
}

// betterAmerican reports whether American price a is more favorable than b.
// Two positive prices: larger pays more. Two negative prices: closer to zero
// risks less. A positive price always beats a negative one.
func betterAmerican(a, b int) bool {
	if a > 0 && b > 0 {
		return a > b
	}
	if a < 0 && b < 0 {
		return a > b // -105 beats -120
	}
	return a > 0
}
