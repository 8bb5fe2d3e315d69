package networth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/etnz/networth/series"
	"github.com/shopspring/decimal"
)

const (
	SWDA = "IE00B4L5Y983"
	SEMA = "IE00B4L5YC18"
)

// CHF is a helper for test to create swiss francs from const
func CHF(v float64) Money { return M(v, "CHF") }

// d is a helper for test to create decimals from const
func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// day returns midnight UTC of a 2024 day.
func day(month time.Month, dd int) time.Time { return time.Date(2024, month, dd, 0, 0, 0, 0, time.UTC) }

// buy is a helper for test to create a transaction.
func buy(id string, qty, price, rate, fees float64, at time.Time) Transaction {
	return Transaction{
		SecurityID:   id,
		Quantity:     d(qty),
		Price:        d(price),
		CurrencyRate: d(rate),
		Fees:         d(fees),
		Time:         at,
	}
}

func newLedger(cash float64, txs ...Transaction) *Ledger {
	return &Ledger{Currency: "CHF", Cash: d(cash), Transactions: txs}
}

// memStore is a Store over a fixed ledger.
type memStore struct {
	ledger *Ledger
	err    error
	loads  int
}

func (s *memStore) Load(context.Context) (*Ledger, error) {
	s.loads++
	return s.ledger, s.err
}

var errOffline = errors.New("offline")

// fakeQuotes is a QuoteProvider that records its calls.
type fakeQuotes struct {
	mu     sync.Mutex
	latest map[string]decimal.Decimal
	series map[string]*series.Series
	err    error
	// intervals that fail.
	refuse map[Interval]bool

	latestCalls int
	seriesCalls []Interval
	tickers     [][]string
}

func (f *fakeQuotes) Latest(_ context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latestCalls++
	f.tickers = append(f.tickers, tickers)
	if f.err != nil {
		return nil, f.err
	}
	res := make(map[string]decimal.Decimal)
	for _, t := range tickers {
		if v, ok := f.latest[t]; ok {
			res[t] = v
		}
	}
	return res, nil
}

func (f *fakeQuotes) Series(_ context.Context, tickers []string, _ time.Time, interval Interval) (map[string]*series.Series, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seriesCalls = append(f.seriesCalls, interval)
	f.tickers = append(f.tickers, tickers)
	if f.err != nil {
		return nil, f.err
	}
	if f.refuse[interval] {
		return nil, errors.New("interval not available")
	}
	res := make(map[string]*series.Series)
	for _, t := range tickers {
		if s, ok := f.series[t]; ok {
			res[t] = s
		}
	}
	return res, nil
}
