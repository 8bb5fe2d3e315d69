package cmd

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/networth"
	"github.com/etnz/networth/agent"
	"github.com/etnz/networth/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct {
	interactive bool
	model       string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "ask Gemini to comment on the portfolio" }
func (*assistCmd) Usage() string {
	return `nw assist [-i] [-model <name>] [question...]

  Sends the current summary to Gemini and prints its commentary. With -i, starts an
  interactive session where the assistant reads the reports it needs.
  The API key is read from GOOGLE_API_KEY.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.interactive, "i", false, "start an interactive session")
	f.StringVar(&c.model, "model", "", "Gemini model, defaults to the configuration")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := open(ctx)
	if err != nil {
		return exitStatus(err)
	}
	defer a.Close()

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}
	model := cmp.Or(c.model, a.cfg.Assist.Model)
	question := strings.Join(f.Args(), " ")

	if c.interactive {
		analyst := agent.NewAnalyst(model, a.reports(), agent.NewMarket(model))
		analyst.Logger = a.log
		var prompts []string
		if question != "" {
			prompts = append(prompts, question)
		}
		if err := agent.New(stdout, os.Stdin, analyst).Run(ctx, client, prompts...); err != nil {
			fmt.Fprintln(os.Stderr, "Assistant failed:", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	summary, err := a.summary(ctx, renderer.SummaryOptions{ShowTicker: true, ShowDetails: true, ShowFees: true})
	if err != nil {
		return exitStatus(err)
	}
	comment, err := agent.Comment(ctx, client, model, summary, question)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Assistant failed:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(comment)
	return subcommands.ExitSuccess
}

// reports returns the views of the portfolio the assistant can read.
func (a *app) reports() []agent.Report {
	return []agent.Report{
		{
			Name:        "Summary",
			Description: "The current valuation: net worth, cash, and for each holding its market value, cost basis, fees and the price and FX parts of its gain.",
			Render: func(ctx context.Context) (string, error) {
				return a.summary(ctx, renderer.SummaryOptions{ShowTicker: true, ShowDetails: true, ShowFees: true, Diversification: networth.ByMarketValue})
			},
		},
		{
			Name:        "History",
			Description: "The most recent points of the market value and invested capital history.",
			Render: func(ctx context.Context) (string, error) {
				points, err := a.engine.History(ctx)
				if err != nil {
					return "", err
				}
				return renderer.RenderHistory(renderer.NewHistory(points, 50)), nil
			},
		},
		{
			Name:        "MonthlyReturns",
			Description: "The return of the portfolio for each calendar month, and per year.",
			Render: func(ctx context.Context) (string, error) {
				points, err := a.engine.History(ctx)
				if err != nil {
					return "", err
				}
				return renderer.RenderMonthly(renderer.NewMonthly(networth.MonthlyReturns(points))), nil
			},
		},
		{
			Name:        "Prices",
			Description: "The latest native price of each tracked security and the FX rate.",
			Render: func(ctx context.Context) (string, error) {
				latest, err := a.quotes.Latest(ctx, a.tickers())
				if err != nil {
					a.log.Warnf("no quotes: %v", err)
				}
				return renderer.RenderPrices(renderer.NewPrices(a.cfg.Securities, a.cfg.FXTicker, latest)), nil
			},
		},
	}
}
