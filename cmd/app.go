// Package cmd implements the nw subcommands.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/etnz/networth"
	"github.com/etnz/networth/config"
	"github.com/etnz/networth/logger"
	"github.com/etnz/networth/pgstore"
	"github.com/etnz/networth/yahoo"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&summaryCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
	c.Register(&pricesCmd{}, "reports")

	c.Register(&watchCmd{}, "live")
	c.Register(&assistCmd{}, "live")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile  = flag.String("config", "nw.yaml", "path to the YAML configuration, defaults apply if it does not exist")
	ledgerFile  = flag.String("ledger", "", "path to the JSON ledger, overrides the configuration")
	usePostgres = flag.Bool("postgres", false, "read the ledger from PostgreSQL (NW_POSTGRES_* variables) instead of a file")
	Verbose     = flag.Bool("v", false, "log quote requests and degradations")
)

var (
	// transport of the quote provider, nil for the default one.
	transport http.RoundTripper
	stdout    io.Writer = os.Stdout
)

// app is everything a subcommand needs, built from the configuration.
type app struct {
	cfg     *config.Config
	log     logger.Logger
	quotes  *networth.QuoteCache
	engine  *networth.Engine
	closers []func() error
}

func open(ctx context.Context) (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *ledgerFile != "" {
		cfg.Ledger = *ledgerFile
	}
	if *Verbose {
		cfg.Log.Level = "debug"
	}

	zl, sync, err := logger.New(cfg.Log)
	if err != nil {
		return nil, errors.Join(networth.ErrConfiguration, err)
	}
	a := &app{cfg: cfg, log: zl}
	a.closers = append(a.closers, func() error { sync(); return nil })

	store, err := a.store(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	client := yahoo.New(yahoo.Options{
		BaseURL:           cfg.Quotes.BaseURL,
		Timeout:           cfg.Quotes.Timeout,
		RequestsPerMinute: cfg.Quotes.RequestsPerMinute,
		CacheDir:          cfg.Quotes.CacheDir,
		CacheTTL:          cfg.Quotes.TTL,
		Transport:         transport,
		Logger:            zl.With("component", "yahoo"),
	})
	a.closers = append(a.closers, client.Close)

	a.quotes = networth.NewQuoteCache(client, cfg.Quotes.TTL)
	a.engine = networth.NewEngine(store, a.quotes, cfg.Settings())
	return a, nil
}

func (a *app) store(ctx context.Context) (networth.Store, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, err
	}
	if !*usePostgres {
		a.log.Debugf("reading ledger %s", a.cfg.Ledger)
		return networth.FileStore{Path: a.cfg.Ledger, Currency: a.cfg.Currency, Location: loc}, nil
	}

	a.log.Debugf("reading ledger from postgres %s:%s/%s", a.cfg.Postgres.Host, a.cfg.Postgres.Port, a.cfg.Postgres.DBName)
	db, err := pgstore.Connect(ctx, &a.cfg.Postgres)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)
	return pgstore.New(db, a.cfg.Currency, loc), nil
}

// Close releases the resources in the reverse order of their creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warnf("close: %v", err)
		}
	}
}

// tickers returns every ticker the engine requests.
func (a *app) tickers() []string {
	return append(a.cfg.Securities.Tickers(), a.cfg.FXTicker)
}

// warnDegraded logs the inputs a valuation had to replace.
func (a *app) warnDegraded(v *networth.Valuation) {
	if v.FXUnavailable {
		a.log.Warnf("no quote for %s, foreign purchases valued at a rate of 1", a.cfg.FXTicker)
	}
	for _, id := range v.Missing {
		a.log.Warnf("no price for %s, valued at zero", id)
	}
}

// exitStatus reports err on stderr.
func exitStatus(err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	if errors.Is(err, networth.ErrConfiguration) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}
