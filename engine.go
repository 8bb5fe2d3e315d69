package networth

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/networth/series"
	"github.com/shopspring/decimal"
)

// QuoteProvider resolves tickers to prices. It is an unreliable collaborator: it may fail,
// return partial results or nothing at all.
type QuoteProvider interface {
	// Latest returns the most recent close of each ticker it could resolve.
	Latest(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error)
	// Series returns the closes of each ticker it could resolve, from start to now, at the
	// given interval.
	Series(ctx context.Context, tickers []string, start time.Time, interval Interval) (map[string]*series.Series, error)
}

// DefaultFXTicker is the provider ticker of the foreign currency pair.
const DefaultFXTicker = "USDCHF=X"

// Settings is the static configuration of an Engine.
type Settings struct {
	Securities Securities
	FXTicker   string
	History    HistoryPolicy
	Now        func() time.Time // clock, time.Now if nil.
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Securities: DefaultSecurities(),
		FXTicker:   DefaultFXTicker,
		History:    DefaultHistoryPolicy(),
	}
}

// Validate checks the settings.
func (s Settings) Validate() error {
	if len(s.Securities) == 0 {
		return fmt.Errorf("%w: no tracked securities", ErrConfiguration)
	}
	if err := s.Securities.Validate(); err != nil {
		return err
	}
	if s.FXTicker == "" {
		return fmt.Errorf("%w: missing FX ticker", ErrConfiguration)
	}
	return s.History.Validate()
}

func (s Settings) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// tickers returns the batch of all tracked tickers plus the FX ticker.
func (s Settings) tickers() []string {
	return append(s.Securities.Tickers(), s.FXTicker)
}

// Engine computes valuations and histories from a Store and a QuoteProvider.
//
// Each call reads the store once and the quote provider once (in batch), and recomputes
// everything: the Engine holds no state between calls and can be used concurrently if
// the Store and QuoteProvider can.
type Engine struct {
	store    Store
	quotes   QuoteProvider
	settings Settings
}

// NewEngine returns an Engine.
func NewEngine(store Store, quotes QuoteProvider, settings Settings) *Engine {
	return &Engine{store: store, quotes: quotes, settings: settings}
}

// Settings returns the engine settings.
func (e *Engine) Settings() Settings { return e.settings }

// Snapshot values the ledger at current prices.
//
// A store failure is fatal and matches ErrDataUnavailable. Quote failures are not: missing
// prices are zero and a missing FX rate falls back to 1, both reported in the Valuation.
func (e *Engine) Snapshot(ctx context.Context) (*Valuation, error) {
	ledger, err := e.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot load transactions: %w", ErrDataUnavailable, err)
	}

	latest, err := e.quotes.Latest(ctx, e.settings.tickers())
	if err != nil {
		// degraded, the valuation still goes on with what we have.
		latest = nil
	}
	fxRate, ok := latest[e.settings.FXTicker]
	if !ok {
		fxRate = one
	}

	v, err := Valuate(ledger, byTicker(e.settings.Securities, latest), fxRate)
	if err != nil {
		return nil, err
	}
	v.FXUnavailable = !ok
	for i := range v.Holdings {
		v.Holdings[i].Ticker, _ = e.settings.Securities.Ticker(v.Holdings[i].SecurityID)
	}
	return v, nil
}

// History reconstructs the portfolio value over time.
//
// Failing to read the store or the quotes is not fatal and yields an empty history;
// only malformed transactions are reported as an error.
func (e *Engine) History(ctx context.Context) ([]HistoryPoint, error) {
	ledger, err := e.store.Load(ctx)
	if err != nil {
		return []HistoryPoint{}, nil
	}
	first, ok := ledger.FirstTransaction()
	if !ok {
		return []HistoryPoint{}, nil
	}
	if err := ledger.Validate(); err != nil {
		return nil, err
	}

	quotes, err := e.series(ctx, first)
	if err != nil {
		return []HistoryPoint{}, nil
	}
	fx := quotes[e.settings.FXTicker]
	return Reconstruct(ledger, byTicker(e.settings.Securities, quotes), fx)
}

// series fetches all the quotes since the day of first, with the policy interval
// and a single retry at the coarse interval.
func (e *Engine) series(ctx context.Context, first time.Time) (map[string]*series.Series, error) {
	policy := e.settings.History
	start := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, first.Location())
	interval := policy.Select(first, e.settings.now())

	quotes, err := e.quotes.Series(ctx, e.settings.tickers(), start, interval)
	if err != nil && interval != policy.Coarse {
		quotes, err = e.quotes.Series(ctx, e.settings.tickers(), start, policy.Coarse)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: no quotes since %v: %w", ErrDataUnavailable, start, err)
	}
	return quotes, nil
}
