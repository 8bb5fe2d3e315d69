package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/networth"
	"github.com/etnz/networth/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	ticker  bool
	details bool
	fees    bool
	pie     string
	json    bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the current valuation of the portfolio" }
func (*summaryCmd) Usage() string {
	return `nw summary [-ticker] [-details=false] [-fees=false] [-pie invested|market] [-json]

  Values every holding at the latest price and FX rate, and splits the gain of each
  holding into its price and currency parts.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	c.setOptionFlags(f)
	f.BoolVar(&c.json, "json", false, "print the full valuation as JSON")
}

// setOptionFlags registers the flags of the displayed columns and sections.
func (c *summaryCmd) setOptionFlags(f *flag.FlagSet) {
	f.BoolVar(&c.ticker, "ticker", false, "show the provider ticker of each security")
	f.BoolVar(&c.details, "details", true, "show the cost basis and the price/FX split of the gain")
	f.BoolVar(&c.fees, "fees", true, "show the fees paid")
	f.StringVar(&c.pie, "pie", "", "show the diversification by invested or market value")
}

func (c *summaryCmd) options() (renderer.SummaryOptions, error) {
	opts := renderer.SummaryOptions{ShowTicker: c.ticker, ShowDetails: c.details, ShowFees: c.fees}
	if c.pie != "" {
		basis, err := networth.ParseAllocationBasis(c.pie)
		if err != nil {
			return opts, err
		}
		opts.Diversification = basis
	}
	return opts, nil
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opts, err := c.options()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	a, err := open(ctx)
	if err != nil {
		return exitStatus(err)
	}
	defer a.Close()

	if c.json {
		v, history, err := a.valuate(ctx)
		if err != nil {
			return exitStatus(err)
		}
		return exitStatus(printJSON(struct {
			Overview  networth.Overview   `json:"overview"`
			Valuation *networth.Valuation `json:"valuation"`
		}{networth.NewOverview(v, history), v}))
	}

	md, err := a.summary(ctx, opts)
	if err != nil {
		return exitStatus(err)
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}

// valuate returns the current valuation and the history it is compared to.
func (a *app) valuate(ctx context.Context) (*networth.Valuation, []networth.HistoryPoint, error) {
	v, err := a.engine.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	a.warnDegraded(v)
	history, err := a.engine.History(ctx)
	if err != nil {
		a.log.Warnf("no history: %v", err)
	}
	return v, history, nil
}

// summary renders the current summary.
func (a *app) summary(ctx context.Context, opts renderer.SummaryOptions) (string, error) {
	v, history, err := a.valuate(ctx)
	if err != nil {
		return "", err
	}
	return renderer.RenderSummary(renderer.NewSummary(v, history, a.cfg.FXTicker, opts)), nil
}
