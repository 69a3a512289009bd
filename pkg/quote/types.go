// Package quote fetches and persists USD exchange-rate quotes from DolarAPI.
package quote

import "time"

// Quote is one exchange-house rate as returned by DolarAPI.
type Quote struct {
	Currency  string    `json:"moneda"`
	House     string    `json:"casa"`
	Name      string    `json:"nombre"`
	Buy       float64   `json:"compra"`
	Sell      float64   `json:"venta"`
	UpdatedAt time.Time `json:"fechaActualizacion"`
}

// Spread returns the sell-minus-buy margin for the quote.
func (q Quote) Spread() float64 {
	return q.Sell - q.Buy
}

// OfficialHouse is the house identifier for the official rate.
const OfficialHouse = "oficial"

// Official returns the official-rate quote from the set, if present.
func Official(quotes []Quote) (Quote, bool) {
	for _, q := range quotes {
		if q.House == OfficialHouse {
			return q, true
		}
	}
	return Quote{}, false
}
