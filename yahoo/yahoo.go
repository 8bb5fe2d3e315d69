// Package yahoo is a networth.QuoteProvider over the Yahoo Finance v8 chart API.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/etnz/networth"
	"github.com/etnz/networth/logger"
	"github.com/etnz/networth/series"
	"github.com/shopspring/decimal"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const (
	DefaultBaseURL = "https://query2.finance.yahoo.com"
	_chartURL      = "/v8/finance/chart/{symbol}"
	_userAgent     = "networth/1.0"
)

// Options configures a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int // unlimited if 0.

	// CacheDir enables a disk cache of the responses, each kept for CacheTTL.
	CacheDir string
	CacheTTL time.Duration

	Transport http.RoundTripper // http.DefaultTransport if nil.
	Logger    logger.Logger     // logger.Nop if nil.
}

// Client fetches quotes one ticker at a time. It is safe for concurrent use.
type Client struct {
	c       *resty.Client
	limiter ratelimit.Limiter
	logger  logger.Logger
	now     func() time.Time
}

var _ networth.QuoteProvider = (*Client)(nil)

func New(opts Options) *Client {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if opts.CacheDir != "" && opts.CacheTTL > 0 {
		transport = newDiskCache(transport, opts.CacheDir, opts.CacheTTL, log)
	}

	client := resty.New().
		SetLogger(log).
		SetBaseURL(baseURL).
		SetTransport(transport).
		SetHeader("User-Agent", _userAgent)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	limiter := ratelimit.NewUnlimited()
	if opts.RequestsPerMinute > 0 {
		limiter = ratelimit.New(opts.RequestsPerMinute, ratelimit.Per(time.Minute))
	}

	return &Client{
		c:       client,
		limiter: limiter,
		logger:  log,
		now:     time.Now,
	}
}

// Close releases the idle connections.
func (c *Client) Close() error { return c.c.Close() }

// chart queries the chart of a symbol and returns the raw payload.
func (c *Client) chart(ctx context.Context, symbol string, params map[string]string) ([]byte, error) {
	c.limiter.Take()
	resp, err := c.c.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(params).
		SetDoNotParseResponse(true).
		Get(_chartURL)
	if err != nil {
		return nil, fmt.Errorf("%w: can't send chart request for %s", err, symbol)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: can't read chart of %s", err, symbol)
	}
	c.logger.Debugf("got response %s status: %s, %s", symbol, resp.Status(), resp.Duration())

	if resp.IsError() {
		// the payload usually explains.
		if _, err := decodeChart(body); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", symbol, resp.Status(), err)
		}
		return nil, fmt.Errorf("%s: chart request error: %s", symbol, resp.Status())
	}
	return body, nil
}

// Latest implements networth.QuoteProvider.
//
// Tickers that cannot be resolved are absent from the result. It fails only if none could.
func (c *Client) Latest(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	res := make(map[string]decimal.Decimal, len(tickers))
	var errs []error
	for _, ticker := range tickers {
		body, err := c.chart(ctx, ticker, map[string]string{"interval": "1d", "range": "5d"})
		if err == nil {
			var price decimal.Decimal
			if price, err = latestPrice(body); err == nil {
				res[ticker] = price
				continue
			}
		}
		c.logger.Warnf("no latest price for %s: %v", ticker, err)
		errs = append(errs, err)
	}
	if len(res) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return res, nil
}

// Series implements networth.QuoteProvider.
//
// Tickers that cannot be resolved are absent from the result. It fails only if none could,
// which is typically the case when the interval is too fine for the range.
func (c *Client) Series(ctx context.Context, tickers []string, start time.Time, interval networth.Interval) (map[string]*series.Series, error) {
	params := map[string]string{
		"interval": string(interval),
		"period1":  strconv.FormatInt(start.Unix(), 10),
		"period2":  strconv.FormatInt(c.now().Unix(), 10),
	}
	res := make(map[string]*series.Series, len(tickers))
	var errs []error
	for _, ticker := range tickers {
		body, err := c.chart(ctx, ticker, params)
		if err == nil {
			var r *chartResult
			if r, err = decodeChart(body); err == nil {
				res[ticker] = r.closes()
				continue
			}
		}
		c.logger.Warnf("no %s quotes for %s since %s: %v", interval, ticker, start.Format(time.DateOnly), err)
		errs = append(errs, err)
	}
	if len(res) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return res, nil
}
