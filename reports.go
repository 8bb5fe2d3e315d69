package networth

import (
	"fmt"
	"time"
)

// Overview is the headline figures of the portfolio.
type Overview struct {
	Currency    string
	NetWorth    Money
	Equity      Money // market value of the securities.
	Liquidity   Money // cash.
	Invested    Money // cost basis including fees.
	Gain        Money
	Performance Percent

	// Change of market value between the last two history points, zero if there are less than two.
	Since       time.Time
	Change      Money
	ChangeRatio Percent
	HasChange   bool
	Degraded    bool
}

// NewOverview computes the headline figures from a valuation and its history.
func NewOverview(v *Valuation, history []HistoryPoint) Overview {
	t := v.Totals
	o := Overview{
		Currency:    v.Currency,
		NetWorth:    t.NetWorth(),
		Equity:      t.StockValue,
		Liquidity:   t.Cash,
		Invested:    t.InvestedAllIn(),
		Gain:        t.Gain(),
		Performance: t.Performance(),
		Change:      M(0, v.Currency),
		Degraded:    v.Degraded(),
	}
	if n := len(history); n >= 2 {
		last, prev := history[n-1], history[n-2]
		o.Since = prev.Time
		o.Change = last.MarketValue.Sub(prev.MarketValue)
		o.ChangeRatio = last.MarketValue.Ratio(prev.MarketValue)
		o.HasChange = true
	}
	return o
}

func (o Overview) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("currency", o.Currency)
	w.Amount("netWorth", o.NetWorth)
	w.Amount("equity", o.Equity)
	w.Amount("liquidity", o.Liquidity)
	w.Amount("invested", o.Invested)
	w.Amount("gain", o.Gain)
	w.Append("performance", float64(o.Performance))
	if o.HasChange {
		w.Append("since", o.Since)
		w.Amount("change", o.Change)
		w.Append("changeRatio", float64(o.ChangeRatio))
	}
	w.Optional("degraded", o.Degraded)
	return w.MarshalJSON()
}

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)) }

// MonthlyReturn is the performance of the portfolio over a calendar month.
type MonthlyReturn struct {
	Month
	Value  Money // market value at the last point of the month.
	Return Percent
}

// YearReturns groups the monthly returns of a calendar year.
type YearReturns struct {
	Year   int
	Months []MonthlyReturn
	YTD    Percent // sum of the monthly returns.
}

// Return returns the performance of a month of the year, if any.
func (y YearReturns) Return(m time.Month) (Percent, bool) {
	for _, r := range y.Months {
		if r.Month.Month == m {
			return r.Return, true
		}
	}
	return 0, false
}

// MonthlyReturns computes the month over month performance of a history.
//
// Each month is represented by its last point. The first month is measured against the
// capital invested at that point, the following ones against the previous month value.
func MonthlyReturns(history []HistoryPoint) []YearReturns {
	var months []MonthlyReturn
	var invested []Money
	for _, p := range history {
		t := p.Time
		m := Month{Year: t.Year(), Month: t.Month()}
		if n := len(months); n > 0 && months[n-1].Month == m {
			months[n-1].Value = p.MarketValue
			invested[n-1] = p.Invested
			continue
		}
		months = append(months, MonthlyReturn{Month: m, Value: p.MarketValue})
		invested = append(invested, p.Invested)
	}

	var years []YearReturns
	for i := range months {
		if i == 0 {
			months[i].Return = months[i].Value.Ratio(invested[i])
		} else {
			months[i].Return = months[i].Value.Ratio(months[i-1].Value)
		}
		r := months[i]
		if n := len(years); n == 0 || years[n-1].Year != r.Year {
			years = append(years, YearReturns{Year: r.Year})
		}
		y := &years[len(years)-1]
		y.Months = append(y.Months, r)
		y.YTD += r.Return
	}
	return years
}

// AllocationBasis selects the amount used to weight holdings.
type AllocationBasis string

const (
	ByInvested    AllocationBasis = "invested"
	ByMarketValue AllocationBasis = "market"
)

// CashLabel is the label of the cash slice.
const CashLabel = "CASH"

// Slice is the weight of one holding, or the cash, in the portfolio.
type Slice struct {
	Label  string
	Amount Money
	Share  Percent
}

// ParseAllocationBasis parses "invested" or "market".
func ParseAllocationBasis(s string) (AllocationBasis, error) {
	switch b := AllocationBasis(s); b {
	case ByInvested, ByMarketValue:
		return b, nil
	}
	return "", fmt.Errorf("%w: unknown allocation basis %q", ErrConfiguration, s)
}

// Allocation returns the diversification of the portfolio, holdings in valuation order
// followed by the cash. Empty slices are omitted.
func Allocation(v *Valuation, basis AllocationBasis) []Slice {
	var res []Slice
	total := M(0, v.Currency)
	add := func(label string, amount Money) {
		if !amount.IsPositive() {
			return
		}
		res = append(res, Slice{Label: label, Amount: amount})
		total = total.Add(amount)
	}
	for _, h := range v.Holdings {
		label := h.Ticker
		if label == "" {
			label = h.SecurityID
		}
		amount := h.CostBasis
		if basis == ByMarketValue {
			amount = h.MarketValue
		}
		add(label, amount)
	}
	add(CashLabel, v.Totals.Cash)

	for i := range res {
		res[i].Share = Percent(res[i].Amount.Decimal().Div(total.Decimal()).InexactFloat64() * 100)
	}
	return res
}
