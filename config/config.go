// Package config loads the nw configuration.
//
// Values come from, in increasing priority: defaults, a YAML file, then NW_* environment
// variables (a .env file in the working directory is loaded first).
package config

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/etnz/networth"
	"github.com/etnz/networth/logger"
	"github.com/etnz/networth/pgstore"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "NW_"

type HistoryConfig struct {
	Fine          networth.Interval `yaml:"fine" env:"FINE"`
	Coarse        networth.Interval `yaml:"coarse" env:"COARSE"`
	FineThreshold time.Duration     `yaml:"fine_threshold" env:"FINE_THRESHOLD"`
}

type QuotesConfig struct {
	BaseURL           string        `yaml:"base_url" env:"BASE_URL"`
	TTL               time.Duration `yaml:"ttl" env:"TTL"`
	Timeout           time.Duration `yaml:"timeout" env:"TIMEOUT"`
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"REQUESTS_PER_MINUTE"`
	CacheDir          string        `yaml:"cache_dir" env:"CACHE_DIR"` // HTTP disk cache, disabled if empty.
}

type WatchConfig struct {
	Schedule string `yaml:"schedule" env:"SCHEDULE"`
}

type AssistConfig struct {
	Model string `yaml:"model" env:"MODEL"`
}

type Config struct {
	Currency   string              `yaml:"currency" env:"CURRENCY"`
	Ledger     string              `yaml:"ledger" env:"LEDGER"`
	Timezone   string              `yaml:"timezone" env:"TIMEZONE"` // for datetimes without zone.
	Securities networth.Securities `yaml:"securities" env:"SECURITIES"`
	FXTicker   string              `yaml:"fx_ticker" env:"FX_TICKER"`

	History  HistoryConfig  `yaml:"history" envPrefix:"HISTORY_"`
	Quotes   QuotesConfig   `yaml:"quotes" envPrefix:"QUOTES_"`
	Postgres pgstore.Config `yaml:"postgres" envPrefix:"POSTGRES_"`
	Log      logger.Config  `yaml:"log" envPrefix:"LOG_"`
	Watch    WatchConfig    `yaml:"watch" envPrefix:"WATCH_"`
	Assist   AssistConfig   `yaml:"assist" envPrefix:"ASSIST_"`
}

const (
	_ledgerDefault            = "portfolio.json"
	_quotesBaseURLDefault     = "https://query2.finance.yahoo.com"
	_quotesTimeoutDefault     = 15 * time.Second
	_requestsPerMinuteDefault = 60
	_watchScheduleDefault     = "@every 10m"
	_assistModelDefault       = "gemini-2.5-flash"
)

// Setup fills every unset value with its default.
func (c *Config) Setup() *Config {
	policy := networth.DefaultHistoryPolicy()

	c.Currency = cmp.Or(c.Currency, networth.DefaultCurrency)
	c.Ledger = cmp.Or(c.Ledger, _ledgerDefault)
	if len(c.Securities) == 0 {
		c.Securities = networth.DefaultSecurities()
	}
	c.FXTicker = cmp.Or(c.FXTicker, networth.DefaultFXTicker)

	c.History.Fine = cmp.Or(c.History.Fine, policy.Fine)
	c.History.Coarse = cmp.Or(c.History.Coarse, policy.Coarse)
	c.History.FineThreshold = cmp.Or(c.History.FineThreshold, policy.FineThreshold)

	c.Quotes.BaseURL = cmp.Or(c.Quotes.BaseURL, _quotesBaseURLDefault)
	c.Quotes.TTL = cmp.Or(c.Quotes.TTL, networth.DefaultTTL)
	c.Quotes.Timeout = cmp.Or(c.Quotes.Timeout, _quotesTimeoutDefault)
	c.Quotes.RequestsPerMinute = cmp.Or(c.Quotes.RequestsPerMinute, _requestsPerMinuteDefault)

	c.Postgres.Setup()
	c.Watch.Schedule = cmp.Or(c.Watch.Schedule, _watchScheduleDefault)
	c.Assist.Model = cmp.Or(c.Assist.Model, _assistModelDefault)
	return c
}

// Validate checks a Config after Setup.
func (c *Config) Validate() error {
	if len(c.Currency) != 3 {
		return fmt.Errorf("%w: invalid currency %q", networth.ErrConfiguration, c.Currency)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Quotes.TTL < 0 {
		return fmt.Errorf("%w: negative quotes ttl %v", networth.ErrConfiguration, c.Quotes.TTL)
	}
	if c.Quotes.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: negative request rate %d", networth.ErrConfiguration, c.Quotes.RequestsPerMinute)
	}
	return c.Settings().Validate()
}

// Location returns the time zone of zone-less datetimes.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid timezone %q: %w", networth.ErrConfiguration, c.Timezone, err)
	}
	return loc, nil
}

// Settings returns the engine settings.
func (c *Config) Settings() networth.Settings {
	return networth.Settings{
		Securities: c.Securities,
		FXTicker:   c.FXTicker,
		History: networth.HistoryPolicy{
			Fine:          c.History.Fine,
			Coarse:        c.History.Coarse,
			FineThreshold: c.History.FineThreshold,
		},
	}
}

// Load reads the configuration.
//
// A missing file is not an error: the defaults apply. path may be empty.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: can't load .env: %w", networth.ErrConfiguration, err)
	}

	cfg := new(Config)
	if path != "" {
		input, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("%w: can't read file: %w", networth.ErrConfiguration, err)
		default:
			if err := yaml.Unmarshal(input, cfg); err != nil {
				return nil, fmt.Errorf("%w: can't unmarshal config %q: %w", networth.ErrConfiguration, path, err)
			}
		}
	}
	return finish(cfg)
}

// finish applies the environment, the defaults and validates.
func finish(cfg *Config) (*Config, error) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("%w: can't parse environment: %w", networth.ErrConfiguration, err)
	}
	cfg.Setup()
	for id, ticker := range cfg.Securities {
		if norm := networth.NormalizeID(id); norm != id {
			delete(cfg.Securities, id)
			cfg.Securities[norm] = ticker
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("can't setup cfg: %w", err)
	}
	return cfg, nil
}
