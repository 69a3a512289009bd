// Package report derives an analytical report from a quote set: deterministic
// gap and spread statistics plus model-written narrative sections.
package report

import (
	"time"

	"github.com/zen-systems/ratewatch/pkg/quote"
)

// Gap measures one house's sell rate against the official rate.
type Gap struct {
	House      string  `json:"house"`
	Name       string  `json:"name"`
	Sell       float64 `json:"sell"`
	GapAmount  float64 `json:"gap_amount"`
	GapPercent float64 `json:"gap_percent"`
}

// Spread measures one house's buy/sell margin.
type Spread struct {
	House         string  `json:"house"`
	Name          string  `json:"name"`
	Buy           float64 `json:"buy"`
	Sell          float64 `json:"sell"`
	Spread        float64 `json:"spread"`
	SpreadPercent float64 `json:"spread_percent"`
}

// Narrative holds the model-written commentary sections.
type Narrative struct {
	Cotizations string `json:"cotizations"`
	Gaps        string `json:"gaps"`
	Trends      string `json:"trends"`
	Summary     string `json:"summary"`
}

// Report is the structured analysis of one quote set.
type Report struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Source      string        `json:"data_source"`
	Quotes      []quote.Quote `json:"quotes"`
	Official    *quote.Quote  `json:"official,omitempty"`
	Gaps        []Gap         `json:"gaps"`
	Spreads     []Spread      `json:"spreads"`
	Narrative   Narrative     `json:"narrative"`
}
