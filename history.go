package networth

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/etnz/networth/series"
	"github.com/shopspring/decimal"
)

// Interval is a quote resampling granularity, in the Quote Provider's notation.
type Interval string

const (
	FifteenMinutes Interval = "15m"
	Hourly         Interval = "1h"
	Daily          Interval = "1d"
)

// Duration returns the length of an interval bucket, or 0 if unknown.
func (i Interval) Duration() time.Duration {
	d, err := time.ParseDuration(string(i))
	if err == nil {
		return d
	}
	if i == Daily {
		return 24 * time.Hour
	}
	return 0
}

// HistoryPolicy selects the resampling interval of the historical quotes.
//
// Quote providers commonly refuse fine intervals over long ranges: the fine interval is
// only requested when the history is shorter than FineThreshold.
type HistoryPolicy struct {
	Fine          Interval
	Coarse        Interval
	FineThreshold time.Duration
}

// DefaultHistoryPolicy returns 15 minutes quotes under 60 days of history, hourly quotes otherwise.
func DefaultHistoryPolicy() HistoryPolicy {
	return HistoryPolicy{
		Fine:          FifteenMinutes,
		Coarse:        Hourly,
		FineThreshold: 60 * 24 * time.Hour,
	}
}

// Select returns the interval to use for a history starting at first.
func (p HistoryPolicy) Select(first, now time.Time) Interval {
	if now.Sub(first) < p.FineThreshold {
		return p.Fine
	}
	return p.Coarse
}

// Validate checks the policy.
func (p HistoryPolicy) Validate() error {
	if p.Fine.Duration() <= 0 || p.Coarse.Duration() <= 0 {
		return fmt.Errorf("%w: invalid history intervals %q/%q", ErrConfiguration, p.Fine, p.Coarse)
	}
	if p.FineThreshold <= 0 {
		return fmt.Errorf("%w: fine interval threshold must be positive, got %v", ErrConfiguration, p.FineThreshold)
	}
	return nil
}

// HistoryPoint is the reconstructed portfolio at one quote instant.
type HistoryPoint struct {
	Time        time.Time
	MarketValue Money // of the transactions executed at or before Time.
	Invested    Money // cost basis of the same transactions.
}

// Gain returns the market value above the invested capital.
func (p HistoryPoint) Gain() Money { return p.MarketValue.Sub(p.Invested) }

// Performance returns the market value relative to the invested capital.
func (p HistoryPoint) Performance() Percent { return p.MarketValue.Ratio(p.Invested) }

func (p HistoryPoint) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("time", p.Time)
	w.Amount("marketValue", p.MarketValue)
	w.Amount("invested", p.Invested)
	return w.MarshalJSON()
}

// exposure identifies the transactions valued the same way.
type exposure struct {
	security string
	foreign  bool
}

// position is the running quantity held of an exposure.
type position struct {
	exposure
	quantity decimal.Decimal
}

// Reconstruct computes the value of the portfolio over time.
//
// quotes maps security identifiers to their price series, fx is the series of the FX rate.
// Every series is forward-filled over the union of all the series instants. A point is
// produced for each instant at or after the first transaction, valuing the transactions
// executed so far; transactions whose price (or FX rate) is still unknown at that instant
// do not contribute to the value. Points with no positive value are dropped.
//
// Transactions are merged in chronological order with running totals, so the invested
// capital is non-decreasing along the result.
func Reconstruct(ledger *Ledger, quotes map[string]*series.Series, fx *series.Series) ([]HistoryPoint, error) {
	points := []HistoryPoint{}
	if ledger == nil || len(ledger.Transactions) == 0 {
		return points, nil
	}
	if err := ledger.Validate(); err != nil {
		return nil, err
	}
	cur := ledger.Currency
	txs := ledger.chronological()
	first := txs[0].Time

	all := make([]*series.Series, 0, len(quotes)+1)
	for _, id := range slices.Sorted(maps.Keys(quotes)) {
		all = append(all, quotes[id])
	}
	all = append(all, fx)

	var (
		next      int // next transaction to merge
		invested  = decimal.Zero
		positions []position
		index     = make(map[exposure]int)
	)
	for on := range series.Iterate(all...) {
		if on.Before(first) {
			continue
		}
		for ; next < len(txs) && !txs[next].Time.After(on); next++ {
			tx := txs[next]
			invested = invested.Add(tx.CostBasis())
			key := exposure{security: tx.SecurityID, foreign: tx.Foreign()}
			i, ok := index[key]
			if !ok {
				i = len(positions)
				index[key] = i
				positions = append(positions, position{exposure: key})
			}
			positions[i].quantity = positions[i].quantity.Add(tx.Quantity)
		}

		value := decimal.Zero
		for _, p := range positions {
			price, ok := quotes[p.security].ValueAsOf(on)
			if !ok {
				continue
			}
			multiplier := one
			if p.foreign {
				if multiplier, ok = fx.ValueAsOf(on); !ok {
					continue
				}
			}
			value = value.Add(p.quantity.Mul(price).Mul(multiplier))
		}
		if !value.IsPositive() {
			continue
		}
		points = append(points, HistoryPoint{
			Time:        on,
			MarketValue: M(value, cur),
			Invested:    M(invested, cur),
		})
	}
	return points, nil
}
