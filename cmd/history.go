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

type historyCmd struct {
	n       int
	monthly bool
	json    bool
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the market value and invested capital over time" }
func (*historyCmd) Usage() string {
	return `nw history [-n <points>] [-monthly] [-json]

  Reconstructs the value of the portfolio since the first purchase, at 15 minutes
  resolution for recent portfolios and hourly otherwise.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.n, "n", 20, "number of most recent points to display, 0 for all")
	f.BoolVar(&c.monthly, "monthly", false, "display the monthly returns instead")
	f.BoolVar(&c.json, "json", false, "print as JSON")
}

func (c *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.n < 0 {
		fmt.Fprintln(os.Stderr, "-n must not be negative")
		return subcommands.ExitUsageError
	}

	a, err := open(ctx)
	if err != nil {
		return exitStatus(err)
	}
	defer a.Close()

	points, err := a.engine.History(ctx)
	if err != nil {
		return exitStatus(err)
	}
	if len(points) == 0 {
		a.log.Warnf("no history: empty ledger or no quotes available")
	}

	switch {
	case c.monthly && c.json:
		return exitStatus(printJSON(networth.MonthlyReturns(points)))
	case c.monthly:
		printMarkdown(renderer.RenderMonthly(renderer.NewMonthly(networth.MonthlyReturns(points))))
	case c.json:
		if c.n > 0 && len(points) > c.n {
			points = points[len(points)-c.n:]
		}
		return exitStatus(printJSON(points))
	default:
		printMarkdown(renderer.RenderHistory(renderer.NewHistory(points, c.n)))
	}
	return subcommands.ExitSuccess
}
