package yahoo

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/networth/series"
	"github.com/shopspring/decimal"
)

// This file decodes the v8 chart API payload.
//
//	{"chart": {
//	  "result": [{
//	    "meta": {"currency": "USD", "symbol": "SWDA.SW", "regularMarketPrice": 102.5, "regularMarketTime": 1704900000},
//	    "timestamp": [1704877200, 1704878100],
//	    "indicators": {"quote": [{"close": [101.9, null]}]}
//	  }],
//	  "error": null
//	}}

var ErrNoResult = errors.New("yahoo: no result")

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (e *chartError) Error() string { return fmt.Sprintf("yahoo: %s: %s", e.Code, e.Description) }

type chartResult struct {
	Meta struct {
		Currency           string  `json:"currency"`
		Symbol             string  `json:"symbol"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
		RegularMarketTime  int64   `json:"regularMarketTime"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// decodeChart returns the single result of a chart payload.
func decodeChart(body []byte) (*chartResult, error) {
	var content chartResponse
	if err := json.Unmarshal(body, &content); err != nil {
		return nil, fmt.Errorf("yahoo: invalid chart payload: %w", err)
	}
	if content.Chart.Error != nil {
		return nil, content.Chart.Error
	}
	if len(content.Chart.Result) == 0 {
		return nil, ErrNoResult
	}
	return &content.Chart.Result[0], nil
}

// closes returns the valid closes of a result, nulls and zeros are dropped.
func (r *chartResult) closes() *series.Series {
	s := series.New(nil)
	if len(r.Indicators.Quote) == 0 {
		return s
	}
	closes := r.Indicators.Quote[0].Close
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		s.Append(time.Unix(ts, 0).UTC(), decimal.NewFromFloat(*closes[i]))
	}
	return s
}

const marketPricePath = "$.chart.result[0].meta.regularMarketPrice"

// latestPrice extracts the current market price of a chart payload, or the last close
// when the market price is missing.
func latestPrice(body []byte) (decimal.Decimal, error) {
	var jobj any
	if err := json.Unmarshal(body, &jobj); err != nil {
		return decimal.Decimal{}, fmt.Errorf("yahoo: invalid chart payload: %w", err)
	}
	jval, err := jsonpath.Get(marketPricePath, jobj)
	if err == nil {
		// jsonpath may return a list of one answer.
		if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
			jval = jlist[0]
		}
		if price, ok := jval.(float64); ok && price > 0 {
			return decimal.NewFromFloat(price), nil
		}
	}

	r, err := decodeChart(body)
	if err != nil {
		return decimal.Decimal{}, err
	}
	closes := r.closes()
	if closes.Len() == 0 {
		return decimal.Decimal{}, ErrNoResult
	}
	_, price := closes.Latest()
	return price, nil
}
