package renderer

import (
	"github.com/etnz/networth"
	"github.com/shopspring/decimal"
)

// Prices is the view of the latest market check.
type Prices struct {
	FXTicker string
	FXRate   string // empty when unavailable.
	Rows     []PriceRow
}

type PriceRow struct {
	SecurityID string
	Ticker     string
	Price      string // empty when unavailable.
}

// NewPrices builds the market check view from the latest prices, keyed by ticker.
func NewPrices(securities networth.Securities, fxTicker string, latest map[string]decimal.Decimal) *Prices {
	p := &Prices{FXTicker: fxTicker}
	if rate, ok := latest[fxTicker]; ok {
		p.FXRate = rate.String()
	}
	for _, id := range securities.IDs() {
		ticker, _ := securities.Ticker(id)
		row := PriceRow{SecurityID: id, Ticker: ticker}
		if price, ok := latest[ticker]; ok {
			row.Price = price.String()
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

// RenderPrices renders the Prices struct to a markdown string.
func RenderPrices(p *Prices) string {
	return renderTemplate("prices", "prices.md", nil, p)
}
