package networth

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the immutable record of one purchase.
type Transaction struct {
	SecurityID   string          // ISIN, normalized.
	Quantity     decimal.Decimal // number of shares bought, > 0.
	Price        decimal.Decimal // unit price in the security's native currency.
	CurrencyRate decimal.Decimal // 1 when the native currency is the reporting currency, else the purchase-time FX rate.
	Fees         decimal.Decimal // in reporting currency.
	Time         time.Time       // purchase instant.
}

var one = decimal.NewFromInt(1)

// Foreign reports whether the transaction was converted at purchase time,
// and therefore is exposed to the FX rate.
func (t Transaction) Foreign() bool { return !t.CurrencyRate.Equal(one) }

// CostBasis returns the reporting-currency amount paid, excluding fees.
func (t Transaction) CostBasis() decimal.Decimal {
	return t.Quantity.Mul(t.Price).Mul(t.CurrencyRate)
}

// Validate checks the basic validity of the record.
func (t Transaction) Validate() error {
	switch {
	case t.SecurityID == "":
		return fmt.Errorf("%w: missing security identifier", ErrMalformedInput)
	case !t.Quantity.IsPositive():
		return fmt.Errorf("%w: %s: quantity must be positive, got %v", ErrMalformedInput, t.SecurityID, t.Quantity)
	case t.Price.IsNegative():
		return fmt.Errorf("%w: %s: price must not be negative, got %v", ErrMalformedInput, t.SecurityID, t.Price)
	case !t.CurrencyRate.IsPositive():
		return fmt.Errorf("%w: %s: currency rate must be positive, got %v", ErrMalformedInput, t.SecurityID, t.CurrencyRate)
	case t.Fees.IsNegative():
		return fmt.Errorf("%w: %s: fees must not be negative, got %v", ErrMalformedInput, t.SecurityID, t.Fees)
	case t.Time.IsZero():
		return fmt.Errorf("%w: %s: missing timestamp", ErrMalformedInput, t.SecurityID)
	}
	return nil
}

// timestampLayouts are the accepted ISO-8601 forms, zoned first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp. Values without a zone are read in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid datetime %q want ISO-8601", ErrMalformedInput, s)
}

// transactionRecord is the persisted form of a Transaction.
type transactionRecord struct {
	ISIN         string           `json:"isin"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Price        decimal.Decimal  `json:"price"`
	CurrencyRate decimal.Decimal  `json:"currency_rate"`
	Fees         *decimal.Decimal `json:"fees,omitempty"`
	Datetime     string           `json:"datetime"`
}

// transaction converts and validates the record.
func (r transactionRecord) transaction(loc *time.Location) (Transaction, error) {
	on, err := ParseTimestamp(r.Datetime, loc)
	if err != nil {
		return Transaction{}, fmt.Errorf("%s: %w", r.ISIN, err)
	}
	tx := Transaction{
		SecurityID:   NormalizeID(r.ISIN),
		Quantity:     r.Quantity,
		Price:        r.Price,
		CurrencyRate: r.CurrencyRate,
		Time:         on,
	}
	if r.Fees != nil {
		tx.Fees = *r.Fees
	}
	return tx, tx.Validate()
}
