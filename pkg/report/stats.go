package report

import (
	"math"

	"github.com/zen-systems/ratewatch/pkg/quote"
)

// ComputeGaps measures every non-official sell rate against the official one.
// Returns nil when the set has no official quote to anchor on.
func ComputeGaps(quotes []quote.Quote) []Gap {
	official, ok := quote.Official(quotes)
	if !ok || official.Sell == 0 {
		return nil
	}

	var gaps []Gap
	for _, q := range quotes {
		if q.House == quote.OfficialHouse {
			continue
		}
		amount := q.Sell - official.Sell
		gaps = append(gaps, Gap{
			House:      q.House,
			Name:       q.Name,
			Sell:       q.Sell,
			GapAmount:  round2(amount),
			GapPercent: round2(amount / official.Sell * 100),
		})
	}
	return gaps
}

// ComputeSpreads measures the buy/sell margin for every house.
func ComputeSpreads(quotes []quote.Quote) []Spread {
	var spreads []Spread
	for _, q := range quotes {
		s := Spread{
			House:  q.House,
			Name:   q.Name,
			Buy:    q.Buy,
			Sell:   q.Sell,
			Spread: round2(q.Spread()),
		}
		if q.Buy > 0 {
			s.SpreadPercent = round2(q.Spread() / q.Buy * 100)
		}
		spreads = append(spreads, s)
	}
	return spreads
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
