package networth

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Holding is the valuation of all the purchases of one security, in reporting currency.
//
// TotalGain is always PriceGain + FXGain. FXGain is the residual of the total gain once the
// price effect is removed: it carries the FX movement and the fees.
type Holding struct {
	SecurityID  string
	Ticker      string // provider ticker, empty when the security is not tracked.
	Quantity    Quantity
	MarketValue Money
	CostBasis   Money
	PriceGain   Money
	FXGain      Money
	TotalGain   Money
	Fees        Money
}

// Invested returns the cost basis including fees.
func (h Holding) Invested() Money { return h.CostBasis.Add(h.Fees) }

// Performance returns the market value relative to the amount invested including fees.
func (h Holding) Performance() Percent { return h.MarketValue.Ratio(h.Invested()) }

func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("security", h.SecurityID)
	w.Optional("ticker", h.Ticker)
	w.Append("quantity", h.Quantity)
	w.Amount("marketValue", h.MarketValue)
	w.Amount("costBasis", h.CostBasis)
	w.Amount("priceGain", h.PriceGain)
	w.Amount("fxGain", h.FXGain)
	w.Amount("totalGain", h.TotalGain)
	w.Amount("fees", h.Fees)
	return w.MarshalJSON()
}

// Totals aggregates all holdings and the cash balance.
type Totals struct {
	StockValue Money // Σ market value.
	Invested   Money // Σ cost basis, fees excluded.
	Fees       Money
	Cash       Money
}

// NetWorth returns the equity plus the cash.
func (t Totals) NetWorth() Money { return t.StockValue.Add(t.Cash) }

// InvestedAllIn returns the cost basis including fees.
func (t Totals) InvestedAllIn() Money { return t.Invested.Add(t.Fees) }

// Gain returns the equity gain over everything paid, fees included.
func (t Totals) Gain() Money { return t.StockValue.Sub(t.InvestedAllIn()) }

// Performance returns the equity relative to everything paid, or 0 if nothing was.
func (t Totals) Performance() Percent { return t.StockValue.Ratio(t.InvestedAllIn()) }

func (t Totals) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Amount("stockValue", t.StockValue)
	w.Amount("invested", t.Invested)
	w.Amount("fees", t.Fees)
	w.Amount("cash", t.Cash)
	w.Amount("netWorth", t.NetWorth())
	return w.MarshalJSON()
}

// Valuation is a snapshot of the portfolio.
type Valuation struct {
	Currency      string
	FXRate        decimal.Decimal
	FXUnavailable bool     // the FX rate is a fallback, not a quote.
	Missing       []string // securities without a current price, valued at zero.
	Holdings      []Holding
	Totals        Totals
}

// Degraded reports whether some input was missing and replaced by a default.
func (v *Valuation) Degraded() bool { return v.FXUnavailable || len(v.Missing) > 0 }

// Holding returns the holding of a security.
func (v *Valuation) Holding(id string) (Holding, bool) {
	id = NormalizeID(id)
	for _, h := range v.Holdings {
		if h.SecurityID == id {
			return h, true
		}
	}
	return Holding{}, false
}

func (v *Valuation) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", v.Currency)
	w.Append("fxRate", v.FXRate)
	w.Optional("fxUnavailable", v.FXUnavailable)
	w.Optional("missing", v.Missing)
	w.Append("holdings", v.Holdings)
	w.Append("totals", v.Totals)
	return w.MarshalJSON()
}

// line is the valuation of a single transaction.
type line struct {
	value, cost, priceGain, fxGain, totalGain decimal.Decimal
}

// valuateTransaction applies the gain decomposition to one purchase.
func valuateTransaction(tx Transaction, price, fxRate decimal.Decimal) line {
	multiplier := one
	if tx.Foreign() {
		multiplier = fxRate
	}
	var l line
	l.cost = tx.CostBasis()
	l.value = tx.Quantity.Mul(price).Mul(multiplier)
	l.totalGain = l.value.Sub(l.cost).Sub(tx.Fees)
	l.priceGain = price.Sub(tx.Price).Mul(tx.Quantity).Mul(tx.CurrencyRate)
	l.fxGain = l.totalGain.Sub(l.priceGain)
	return l
}

// Valuate computes the current holdings and totals of a ledger.
//
// prices maps security identifiers to their current native unit price; a missing price
// values the security at zero and lists it in Valuation.Missing. fxRate applies only to
// transactions whose currency rate is not 1.
//
// Valuate is a pure function: it fails as a whole on the first malformed transaction.
func Valuate(ledger *Ledger, prices map[string]decimal.Decimal, fxRate decimal.Decimal) (*Valuation, error) {
	if ledger == nil {
		return nil, fmt.Errorf("%w: no ledger", ErrDataUnavailable)
	}
	if err := ledger.Validate(); err != nil {
		return nil, err
	}
	cur := ledger.Currency
	v := &Valuation{
		Currency: cur,
		FXRate:   fxRate,
		Holdings: []Holding{},
		Totals: Totals{
			StockValue: M(0, cur),
			Invested:   M(0, cur),
			Fees:       M(0, cur),
			Cash:       M(ledger.Cash, cur),
		},
	}

	index := make(map[string]int) // security -> position in v.Holdings
	for _, tx := range ledger.Transactions {
		price, ok := prices[tx.SecurityID]
		if !ok {
			price = decimal.Zero
		}
		l := valuateTransaction(tx, price, fxRate)

		i, seen := index[tx.SecurityID]
		if !seen {
			if !ok {
				v.Missing = append(v.Missing, tx.SecurityID)
			}
			i = len(v.Holdings)
			index[tx.SecurityID] = i
			v.Holdings = append(v.Holdings, Holding{
				SecurityID:  tx.SecurityID,
				MarketValue: M(0, cur),
				CostBasis:   M(0, cur),
				PriceGain:   M(0, cur),
				FXGain:      M(0, cur),
				TotalGain:   M(0, cur),
				Fees:        M(0, cur),
			})
		}
		h := &v.Holdings[i]
		h.Quantity = h.Quantity.Add(Q(tx.Quantity))
		h.MarketValue = h.MarketValue.Add(M(l.value, cur))
		h.CostBasis = h.CostBasis.Add(M(l.cost, cur))
		h.PriceGain = h.PriceGain.Add(M(l.priceGain, cur))
		h.FXGain = h.FXGain.Add(M(l.fxGain, cur))
		h.TotalGain = h.TotalGain.Add(M(l.totalGain, cur))
		h.Fees = h.Fees.Add(M(tx.Fees, cur))

		v.Totals.StockValue = v.Totals.StockValue.Add(M(l.value, cur))
		v.Totals.Invested = v.Totals.Invested.Add(M(l.cost, cur))
		v.Totals.Fees = v.Totals.Fees.Add(M(tx.Fees, cur))
	}
	return v, nil
}
