package networth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const portfolioJSON = `{
  "cash": 1500.25,
  "transactions": [
    {"isin": "ie00b4l5y983", "quantity": 10, "price": 100, "currency_rate": 1, "fees": 5, "datetime": "2024-03-01T10:15:00"},
    {"isin": "IE00B4L5YC18", "quantity": 20, "price": 30.5, "currency_rate": 0.9, "datetime": "2024-02-15T09:00:00+01:00"}
  ]
}`

func TestDecodeLedger(t *testing.T) {
	zurich, err := time.LoadLocation("Europe/Zurich")
	if err != nil {
		t.Skipf("no time zone database: %v", err)
	}
	ledger, err := DecodeLedger(strings.NewReader(portfolioJSON), zurich)
	if err != nil {
		t.Fatalf("DecodeLedger() unexpected error: %v", err)
	}
	if got, want := ledger.Cash, d(1500.25); !got.Equal(want) {
		t.Errorf("Cash = %v, want %v", got, want)
	}
	if got, want := len(ledger.Transactions), 2; got != want {
		t.Fatalf("len(Transactions) = %d, want %d", got, want)
	}
	tx := ledger.Transactions[0]
	if tx.SecurityID != SWDA {
		t.Errorf("SecurityID = %q, want %q", tx.SecurityID, SWDA)
	}
	if want := time.Date(2024, 3, 1, 10, 15, 0, 0, zurich); !tx.Time.Equal(want) {
		t.Errorf("Time = %v, want %v", tx.Time, want)
	}
	if got, want := ledger.Transactions[1].Fees, d(0); !got.Equal(want) {
		t.Errorf("absent fees = %v, want %v", got, want)
	}
	first, ok := ledger.FirstTransaction()
	if want := time.Date(2024, 2, 15, 8, 0, 0, 0, time.UTC); !ok || !first.Equal(want) {
		t.Errorf("FirstTransaction() = %v, %v, want %v", first, ok, want)
	}
}

func TestDecodeLedger_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"not json", `cash: 12`, ErrConfiguration},
		{"bad datetime", `{"cash":0,"transactions":[{"isin":"X","quantity":1,"price":1,"currency_rate":1,"datetime":"yesterday"}]}`, ErrMalformedInput},
		{"negative fees", `{"cash":0,"transactions":[{"isin":"X","quantity":1,"price":1,"currency_rate":1,"fees":-1,"datetime":"2024-01-01"}]}`, ErrMalformedInput},
		{"zero rate", `{"cash":0,"transactions":[{"isin":"X","quantity":1,"price":1,"currency_rate":0,"datetime":"2024-01-01"}]}`, ErrMalformedInput},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := DecodeLedger(strings.NewReader(test.input), nil)
			if !errors.Is(err, test.want) {
				t.Errorf("DecodeLedger() error = %v, want %v", err, test.want)
			}
		})
	}
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.json")
	if err := os.WriteFile(path, []byte(portfolioJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	ledger, err := FileStore{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if ledger.Currency != DefaultCurrency {
		t.Errorf("Currency = %q, want %q", ledger.Currency, DefaultCurrency)
	}
	if len(ledger.Transactions) != 2 {
		t.Errorf("len(Transactions) = %d, want 2", len(ledger.Transactions))
	}

	_, err = FileStore{Path: filepath.Join(dir, "missing.json")}.Load(context.Background())
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("Load() of a missing file error = %v, want %v", err, ErrConfiguration)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-01-10", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{"2024-01-10 14:30", time.Date(2024, 1, 10, 14, 30, 0, 0, time.UTC)},
		{"2024-01-10T14:30:05", time.Date(2024, 1, 10, 14, 30, 5, 0, time.UTC)},
		{"2024-01-10T14:30:05Z", time.Date(2024, 1, 10, 14, 30, 5, 0, time.UTC)},
		{" 2024-01-10T14:30:05-02:00 ", time.Date(2024, 1, 10, 16, 30, 5, 0, time.UTC)},
	}
	for _, test := range tests {
		got, err := ParseTimestamp(test.input, nil)
		if err != nil {
			t.Errorf("ParseTimestamp(%q) unexpected error: %v", test.input, err)
			continue
		}
		if !got.Equal(test.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", test.input, got, test.want)
		}
	}
	if _, err := ParseTimestamp("10/01/2024", nil); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("ParseTimestamp() error = %v, want %v", err, ErrMalformedInput)
	}
}

func TestTransaction(t *testing.T) {
	tx := buy(SEMA, 20, 30, 0.9, 3, day(1, 1))
	if !tx.Foreign() {
		t.Errorf("Foreign() = false, want true")
	}
	if got, want := tx.CostBasis(), d(540); !got.Equal(want) {
		t.Errorf("CostBasis() = %v, want %v", got, want)
	}
	if buy(SWDA, 1, 1, 1, 0, day(1, 1)).Foreign() {
		t.Errorf("Foreign() = true, want false")
	}
	if err := (Transaction{}).Validate(); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("Validate() error = %v, want %v", err, ErrMalformedInput)
	}
}
