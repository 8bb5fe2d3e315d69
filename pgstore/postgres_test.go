package pgstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/etnz/networth"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

func TestConfig_Setup(t *testing.T) {
	c := (&Config{Host: "db", Port: "not-a-port", Password: "secret"}).Setup()
	want := "host=db port=5432 user=postgres dbname=postgres password=secret sslmode=disable"
	if got := c.String(); got != want {
		t.Errorf("Setup().String() = %q, want %q", got, want)
	}
}

// sqliteSchema mirrors Schema in a dialect sqlite understands.
const sqliteSchema = `
CREATE TABLE transactions (
	id            INTEGER PRIMARY KEY,
	isin          TEXT NOT NULL,
	quantity      NUMERIC NOT NULL,
	price         NUMERIC NOT NULL,
	currency_rate NUMERIC NOT NULL DEFAULT 1,
	fees          NUMERIC,
	executed_at   TIMESTAMPTZ NOT NULL
);
CREATE TABLE cash (
	id       INTEGER PRIMARY KEY,
	amount   NUMERIC NOT NULL,
	currency TEXT
);
`

func newTestDB(t *testing.T, inserts ...string) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("cannot open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	db.MustExec(sqliteSchema)
	for _, q := range inserts {
		db.MustExec(q)
	}
	return db
}

func TestStore_Load(t *testing.T) {
	db := newTestDB(t,
		`INSERT INTO transactions (isin, quantity, price, currency_rate, fees, executed_at) VALUES
			('IE00B4L5YC18', 20, '30.5', '0.9', NULL, '2024-02-15T09:00:00+01:00'),
			('ie00b4l5y983', 10, 100, 1, 5, '2024-01-10 10:15:00')`,
		`INSERT INTO cash (amount, currency) VALUES (100, NULL), ('1500.25', 'CHF')`,
	)
	ledger, err := New(db, "", time.UTC).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if ledger.Currency != "CHF" {
		t.Errorf("Currency = %q, want %q", ledger.Currency, "CHF")
	}
	if want := decimal.RequireFromString("1500.25"); !ledger.Cash.Equal(want) {
		t.Errorf("Cash = %v, want %v", ledger.Cash, want)
	}
	if got, want := len(ledger.Transactions), 2; got != want {
		t.Fatalf("len(Transactions) = %d, want %d", got, want)
	}

	// ordered by execution time.
	first := ledger.Transactions[0]
	if first.SecurityID != "IE00B4L5Y983" {
		t.Errorf("Transactions[0].SecurityID = %q, want %q", first.SecurityID, "IE00B4L5Y983")
	}
	if want := time.Date(2024, 1, 10, 10, 15, 0, 0, time.UTC); !first.Time.Equal(want) {
		t.Errorf("Transactions[0].Time = %v, want %v", first.Time, want)
	}
	if !first.Fees.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Transactions[0].Fees = %v, want 5", first.Fees)
	}
	second := ledger.Transactions[1]
	if !second.Fees.IsZero() || !second.CurrencyRate.Equal(decimal.RequireFromString("0.9")) {
		t.Errorf("Transactions[1] = fees %v rate %v, want 0 and 0.9", second.Fees, second.CurrencyRate)
	}
}

func TestStore_Load_Empty(t *testing.T) {
	ledger, err := New(newTestDB(t), "EUR", nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if ledger.Currency != "EUR" || !ledger.Cash.IsZero() || len(ledger.Transactions) != 0 {
		t.Errorf("Load() = %+v, want an empty EUR ledger", ledger)
	}
}

func TestStore_Load_Errors(t *testing.T) {
	malformed := newTestDB(t, `INSERT INTO transactions (isin, quantity, price, currency_rate, executed_at) VALUES ('IE00B4L5Y983', -1, 100, 1, '2024-01-10')`)
	if _, err := New(malformed, "", nil).Load(context.Background()); !errors.Is(err, networth.ErrMalformedInput) {
		t.Errorf("Load() error = %v, want %v", err, networth.ErrMalformedInput)
	}

	noTables, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer noTables.Close()
	if _, err := New(noTables, "", nil).Load(context.Background()); !errors.Is(err, networth.ErrConfiguration) {
		t.Errorf("Load() error = %v, want %v", err, networth.ErrConfiguration)
	}
}
