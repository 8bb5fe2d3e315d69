// Package pgstore reads the ledger from a Postgres database.
package pgstore

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/etnz/networth"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Config struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     string `yaml:"port" env:"PORT"`
	Username string `yaml:"username" env:"USERNAME"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"db_name" env:"DB_NAME"`
	SSLMode  string `yaml:"ssl_mode" env:"SSL_MODE"`
}

func (c *Config) Setup() *Config {
	const (
		defaultHost     = "localhost"
		defaultPort     = "5432"
		defaultUsername = "postgres"
		defaultPassword = "postgres"
		defaultDBName   = "postgres"
		defaultSSLMode  = "disable"
	)

	c.Host = cmp.Or(c.Host, defaultHost)
	c.Port = cmp.Or(c.Port, defaultPort)
	if _, err := strconv.Atoi(c.Port); err != nil {
		c.Port = defaultPort
	}
	c.Username = cmp.Or(c.Username, defaultUsername)
	c.Password = cmp.Or(c.Password, defaultPassword)
	c.DBName = cmp.Or(c.DBName, defaultDBName)
	c.SSLMode = cmp.Or(c.SSLMode, defaultSSLMode)

	return c
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Username, c.DBName, c.Password, c.SSLMode,
	)
}

// Connect opens and checks a connection to the database.
func Connect(ctx context.Context, cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.String())
	if err != nil {
		return nil, fmt.Errorf("%w: cannot connect to postgres %s:%s/%s: %w", networth.ErrConfiguration, cfg.Host, cfg.Port, cfg.DBName, err)
	}
	return db, nil
}

// Schema creates the tables read by Store.
const Schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id            SERIAL PRIMARY KEY,
	isin          TEXT NOT NULL,
	quantity      NUMERIC NOT NULL,
	price         NUMERIC NOT NULL,
	currency_rate NUMERIC NOT NULL DEFAULT 1,
	fees          NUMERIC,
	executed_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS cash (
	id       SERIAL PRIMARY KEY,
	amount   NUMERIC NOT NULL,
	currency TEXT
);
`

const (
	_queryTransactions = "SELECT isin, quantity, price, currency_rate, fees, executed_at FROM transactions ORDER BY executed_at, id"
	_queryCash         = "SELECT amount, currency FROM cash ORDER BY id DESC LIMIT 1"
)

type transactionRow struct {
	ISIN         string              `db:"isin"`
	Quantity     decimal.Decimal     `db:"quantity"`
	Price        decimal.Decimal     `db:"price"`
	CurrencyRate decimal.Decimal     `db:"currency_rate"`
	Fees         decimal.NullDecimal `db:"fees"`
	ExecutedAt   timestamp           `db:"executed_at"`
}

type cashRow struct {
	Amount   decimal.Decimal `db:"amount"`
	Currency sql.NullString  `db:"currency"`
}

// Store is a networth.Store over the transactions and cash tables.
//
// The latest cash row is the balance.
type Store struct {
	db       *sqlx.DB
	currency string
	location *time.Location
}

// New returns a Store. currency is the reporting currency when the cash row does not name
// one, location is used to read timestamps stored without a zone.
func New(db *sqlx.DB, currency string, location *time.Location) *Store {
	return &Store{db: db, currency: cmp.Or(currency, networth.DefaultCurrency), location: location}
}

// Load implements networth.Store.
func (s *Store) Load(ctx context.Context) (*networth.Ledger, error) {
	var rows []transactionRow
	if err := s.db.SelectContext(ctx, &rows, _queryTransactions); err != nil {
		return nil, fmt.Errorf("%w: select transactions: %w", networth.ErrConfiguration, err)
	}

	ledger := &networth.Ledger{
		Currency:     s.currency,
		Cash:         decimal.Zero,
		Transactions: make([]networth.Transaction, 0, len(rows)),
	}

	var cash cashRow
	switch err := s.db.GetContext(ctx, &cash, _queryCash); {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("%w: select cash: %w", networth.ErrConfiguration, err)
	default:
		ledger.Cash = cash.Amount
		if cash.Currency.Valid && cash.Currency.String != "" {
			ledger.Currency = cash.Currency.String
		}
	}

	for i, row := range rows {
		tx, err := row.transaction(s.location)
		if err != nil {
			return nil, fmt.Errorf("transaction #%d: %w", i+1, err)
		}
		ledger.Transactions = append(ledger.Transactions, tx)
	}
	return ledger, nil
}

func (r transactionRow) transaction(loc *time.Location) (networth.Transaction, error) {
	on, err := r.ExecutedAt.in(loc)
	if err != nil {
		return networth.Transaction{}, fmt.Errorf("%s: %w", r.ISIN, err)
	}
	tx := networth.Transaction{
		SecurityID:   networth.NormalizeID(r.ISIN),
		Quantity:     r.Quantity,
		Price:        r.Price,
		CurrencyRate: r.CurrencyRate,
		Time:         on,
	}
	if r.Fees.Valid {
		tx.Fees = r.Fees.Decimal
	}
	return tx, tx.Validate()
}

// timestamp scans native timestamps as well as their text form.
type timestamp struct {
	t    time.Time
	text string
}

func (ts *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		ts.t = v
	case string:
		ts.text = v
	case []byte:
		ts.text = string(v)
	case nil:
	default:
		return fmt.Errorf("cannot scan %T into a timestamp", src)
	}
	return nil
}

func (ts timestamp) in(loc *time.Location) (time.Time, error) {
	if ts.text != "" {
		return networth.ParseTimestamp(ts.text, loc)
	}
	return ts.t, nil
}
