package cmd

import (
	"context"
	"flag"

	"github.com/etnz/networth/renderer"
	"github.com/google/subcommands"
)

type pricesCmd struct{}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "display the latest quotes of the tracked securities" }
func (*pricesCmd) Usage() string {
	return `nw prices

  Fetches the latest native price of every tracked security and the FX rate.
`
}

func (*pricesCmd) SetFlags(*flag.FlagSet) {}

func (*pricesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := open(ctx)
	if err != nil {
		return exitStatus(err)
	}
	defer a.Close()

	latest, err := a.quotes.Latest(ctx, a.tickers())
	if err != nil {
		a.log.Warnf("no quotes: %v", err)
	}
	printMarkdown(renderer.RenderPrices(renderer.NewPrices(a.cfg.Securities, a.cfg.FXTicker, latest)))
	return subcommands.ExitSuccess
}
