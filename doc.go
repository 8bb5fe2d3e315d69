// Package networth values a small personal portfolio of exchange traded securities.
//
// The portfolio is a Ledger: a cash balance and a list of purchases, each recorded with
// the price paid and the currency rate at the time. The package provides:
//   - Valuation: current holdings, with the gain of each purchase split into the part
//     explained by the security price and the part explained by the currency rate
//     (fees included).
//   - History: the value of the portfolio against the invested capital over time,
//     reconstructed from forward-filled quote series.
//   - Engine: the boundary that reads a Store and a QuoteProvider once per call and
//     degrades gracefully when quotes are missing.
//   - Reports: headline figures, monthly returns and diversification.
//
// Valuate and Reconstruct are pure functions, all I/O happens behind the Store and
// QuoteProvider interfaces.
//
// This package serves as the foundational logic for the `nw` command-line tool.
package networth
