package networth

import (
	"testing"
	"time"

	"github.com/etnz/networth/series"
)

func TestHistoryPolicy_Select(t *testing.T) {
	p := DefaultHistoryPolicy()
	now := day(6, 1)
	tests := []struct {
		first time.Time
		want  Interval
	}{
		{now.AddDate(0, 0, -1), FifteenMinutes},
		{now.AddDate(0, 0, -59), FifteenMinutes},
		{now.AddDate(0, 0, -60), Hourly},
		{now.AddDate(-1, 0, 0), Hourly},
	}
	for _, test := range tests {
		if got := p.Select(test.first, now); got != test.want {
			t.Errorf("Select(%v, %v) = %q, want %q", test.first, now, got, test.want)
		}
	}
}

func TestHistoryPolicy_Validate(t *testing.T) {
	if err := DefaultHistoryPolicy().Validate(); err != nil {
		t.Errorf("DefaultHistoryPolicy().Validate() unexpected error: %v", err)
	}
	p := DefaultHistoryPolicy()
	p.Fine = "fortnight"
	if err := p.Validate(); err == nil {
		t.Errorf("Validate() with interval %q: expected an error", p.Fine)
	}
	p = DefaultHistoryPolicy()
	p.FineThreshold = 0
	if err := p.Validate(); err == nil {
		t.Errorf("Validate() with zero threshold: expected an error")
	}
	if got, want := Daily.Duration(), 24*time.Hour; got != want {
		t.Errorf("Daily.Duration() = %v, want %v", got, want)
	}
}

// h returns an instant on 2024-01-10.
func h(hour, minute int) time.Time { return time.Date(2024, 1, 10, hour, minute, 0, 0, time.UTC) }

func TestReconstruct(t *testing.T) {
	ledger := newLedger(0,
		buy(SEMA, 10, 30, 0.9, 1, h(11, 0)),
		buy(SWDA, 10, 100, 1, 2, h(9, 0)),
	)
	quotes := map[string]*series.Series{
		SWDA: series.New(nil).
			Append(h(8, 0), d(99)).
			Append(h(9, 0), d(100)).
			Append(h(10, 0), d(102)).
			Append(h(12, 0), d(104)),
		SEMA: series.New(nil).
			Append(h(11, 0), d(30)).
			Append(h(12, 0), d(31)),
	}
	fx := series.New(nil).Append(h(11, 30), d(0.9))

	got, err := Reconstruct(ledger, quotes, fx)
	if err != nil {
		t.Fatalf("Reconstruct() unexpected error: %v", err)
	}
	want := []HistoryPoint{
		{h(9, 0), CHF(1000), CHF(1000)},
		{h(10, 0), CHF(1020), CHF(1000)},
		// SEMA is bought, but the FX rate is still unknown.
		{h(11, 0), CHF(1020), CHF(1270)},
		{h(11, 30), CHF(1290), CHF(1270)},
		{h(12, 0), CHF(1319), CHF(1270)},
	}
	if len(got) != len(want) {
		t.Fatalf("Reconstruct() returned %d points, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		g, w := got[i], want[i]
		if !g.Time.Equal(w.Time) || !g.MarketValue.Equal(w.MarketValue) || !g.Invested.Equal(w.Invested) {
			t.Errorf("Reconstruct()[%d] = {%v %v %v}, want {%v %v %v}", i, g.Time, g.MarketValue, g.Invested, w.Time, w.MarketValue, w.Invested)
		}
	}
}

func TestReconstruct_Invariants(t *testing.T) {
	first := h(9, 15)
	ledger := newLedger(0,
		buy(SWDA, 1, 100, 1, 0, first),
		buy(SWDA, 2, 101, 1, 0, h(10, 45)),
		buy(SEMA, 3, 30, 0.9, 0, h(13, 5)),
	)
	swda, sema, fx := series.New(nil), series.New(nil), series.New(nil)
	for at := h(7, 0); at.Before(h(16, 0)); at = at.Add(15 * time.Minute) {
		swda.Append(at, d(100))
		sema.Append(at, d(30))
		fx.Append(at, d(0.91))
	}

	points, err := Reconstruct(ledger, map[string]*series.Series{SWDA: swda, SEMA: sema}, fx)
	if err != nil {
		t.Fatalf("Reconstruct() unexpected error: %v", err)
	}
	if len(points) == 0 {
		t.Fatal("Reconstruct() returned no points")
	}
	if points[0].Time.Before(first) {
		t.Errorf("Reconstruct()[0].Time = %v, want not before the first transaction %v", points[0].Time, first)
	}
	for i := 1; i < len(points); i++ {
		if points[i].Invested.LessThan(points[i-1].Invested) {
			t.Errorf("Invested decreases at %v: %v < %v", points[i].Time, points[i].Invested, points[i-1].Invested)
		}
		if !points[i].Time.After(points[i-1].Time) {
			t.Errorf("points are not in chronological order at %d", i)
		}
	}
	for _, p := range points {
		if !p.MarketValue.IsPositive() {
			t.Errorf("point %v has a non positive value %v", p.Time, p.MarketValue)
		}
	}
	last := points[len(points)-1]
	if got, want := last.Invested, CHF(302+81); !got.Equal(want) {
		t.Errorf("last Invested = %v, want %v", got, want)
	}
}

func TestReconstruct_Empty(t *testing.T) {
	ledger := newLedger(0, buy(SWDA, 1, 100, 1, 0, h(9, 0)))
	tests := []struct {
		name   string
		ledger *Ledger
		quotes map[string]*series.Series
	}{
		{"no quotes", ledger, nil},
		{"no transactions", newLedger(100), map[string]*series.Series{SWDA: series.New(nil).Append(h(10, 0), d(100))}},
		{"nil ledger", nil, nil},
		{"quotes before the first transaction", ledger, map[string]*series.Series{SWDA: series.New(nil).Append(h(8, 0), d(100))}},
		{"untracked security", ledger, map[string]*series.Series{SEMA: series.New(nil).Append(h(10, 0), d(30))}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Reconstruct(test.ledger, test.quotes, nil)
			if err != nil {
				t.Fatalf("Reconstruct() unexpected error: %v", err)
			}
			if got == nil || len(got) != 0 {
				t.Errorf("Reconstruct() = %v, want an empty sequence", got)
			}
		})
	}
}

func TestHistoryPoint_Performance(t *testing.T) {
	p := HistoryPoint{Time: h(9, 0), MarketValue: CHF(1100), Invested: CHF(1000)}
	if got, want := p.Gain(), CHF(100); !got.Equal(want) {
		t.Errorf("Gain() = %v, want %v", got, want)
	}
	if got, want := p.Performance(), Percent(10); !got.Equal(want) {
		t.Errorf("Performance() = %v, want %v", got, want)
	}
}
