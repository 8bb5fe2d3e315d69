package renderer

import (
	"github.com/etnz/networth"
	"github.com/shopspring/decimal"
)

// SummaryOptions selects the optional columns and sections of a summary.
type SummaryOptions struct {
	ShowTicker      bool                     // the provider ticker next to the security.
	ShowDetails     bool                     // cost basis and the price/FX split of the gain.
	ShowFees        bool                     // fees paid.
	Diversification networth.AllocationBasis // weights of the diversification section, none if empty.
}

// Summary is the view of a valuation.
type Summary struct {
	SummaryOptions
	Overview      networth.Overview
	Holdings      []networth.Holding
	Allocation    []networth.Slice
	FXTicker      string
	FXRate        decimal.Decimal
	FXUnavailable bool
	Missing       []string
}

// NewSummary builds the summary view. The valuation is complete whatever the options:
// they only select what is displayed.
func NewSummary(v *networth.Valuation, history []networth.HistoryPoint, fxTicker string, opts SummaryOptions) *Summary {
	s := &Summary{
		SummaryOptions: opts,
		Overview:       networth.NewOverview(v, history),
		Holdings:       v.Holdings,
		FXTicker:       fxTicker,
		FXRate:         v.FXRate,
		FXUnavailable:  v.FXUnavailable,
		Missing:        v.Missing,
	}
	if opts.Diversification != "" {
		s.Allocation = networth.Allocation(v, opts.Diversification)
	}
	return s
}

// RenderSummary renders the Summary struct to a markdown string.
func RenderSummary(s *Summary) string {
	partials := map[string]string{
		"summary_metrics":  "summary_metrics.md",
		"summary_holdings": "summary_holdings.md",
		"summary_warnings": "summary_warnings.md",
	}
	if s.Diversification != "" {
		partials["summary_allocation"] = "summary_allocation.md"
	} else {
		partials["summary_allocation"] = ""
	}
	return renderTemplate("summary", "summary.md", partials, s)
}
