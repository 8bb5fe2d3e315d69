package networth

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the reporting currency when none is configured.
const DefaultCurrency = "CHF"

// Ledger is the content of the Transaction Store: a cash balance and all purchases.
type Ledger struct {
	Currency     string          // reporting currency.
	Cash         decimal.Decimal // in reporting currency.
	Transactions []Transaction
}

// Validate checks every transaction. The first malformed record is reported.
func (l *Ledger) Validate() error {
	for i, tx := range l.Transactions {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("transaction #%d: %w", i+1, err)
		}
	}
	return nil
}

// FirstTransaction returns the earliest purchase instant, or false for an empty ledger.
func (l *Ledger) FirstTransaction() (time.Time, bool) {
	if len(l.Transactions) == 0 {
		return time.Time{}, false
	}
	first := l.Transactions[0].Time
	for _, tx := range l.Transactions[1:] {
		if tx.Time.Before(first) {
			first = tx.Time
		}
	}
	return first, true
}

// chronological returns a copy of the transactions sorted by time, stable on ties.
func (l *Ledger) chronological() []Transaction {
	txs := slices.Clone(l.Transactions)
	slices.SortStableFunc(txs, func(a, b Transaction) int { return a.Time.Compare(b.Time) })
	return txs
}

// ledgerRecord is the persisted form of a Ledger.
type ledgerRecord struct {
	Currency     string              `json:"currency,omitempty"`
	Cash         decimal.Decimal     `json:"cash"`
	Transactions []transactionRecord `json:"transactions"`
}

// DecodeLedger reads a ledger from its JSON form.
//
// Zone-less datetimes are read in loc. Any malformed transaction aborts the decoding.
func DecodeLedger(r io.Reader, loc *time.Location) (*Ledger, error) {
	var rec ledgerRecord
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: cannot decode ledger: %w", ErrConfiguration, err)
	}
	ledger := &Ledger{
		Currency:     rec.Currency,
		Cash:         rec.Cash,
		Transactions: make([]Transaction, 0, len(rec.Transactions)),
	}
	for i, txr := range rec.Transactions {
		tx, err := txr.transaction(loc)
		if err != nil {
			return nil, fmt.Errorf("transaction #%d: %w", i+1, err)
		}
		ledger.Transactions = append(ledger.Transactions, tx)
	}
	return ledger, nil
}

// Store is the read-only source of the ledger.
type Store interface {
	Load(ctx context.Context) (*Ledger, error)
}

// FileStore reads the ledger from a JSON file.
type FileStore struct {
	Path     string
	Currency string         // used when the file does not name one.
	Location *time.Location // for zone-less datetimes.
}

// Load implements Store. A missing or unreadable file is an ErrConfiguration.
func (s FileStore) Load(_ context.Context) (*Ledger, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: ledger file %q not found", ErrConfiguration, s.Path)
		}
		return nil, fmt.Errorf("%w: cannot open ledger file %q: %w", ErrConfiguration, s.Path, err)
	}
	defer f.Close()

	ledger, err := DecodeLedger(f, s.Location)
	if err != nil {
		return nil, fmt.Errorf("ledger file %q: %w", s.Path, err)
	}
	if ledger.Currency == "" {
		ledger.Currency = cmp.Or(s.Currency, DefaultCurrency)
	}
	return ledger, nil
}

