// Command nw values a portfolio of index funds bought in a foreign currency.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/networth/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion (COMP_INSTALL=1 nw).
var completion = &complete.Command{
	Flags: map[string]complete.Predictor{
		"config":   predict.Files("*.yaml"),
		"ledger":   predict.Files("*.json"),
		"postgres": predict.Nothing,
		"v":        predict.Nothing,
	},
	Sub: map[string]*complete.Command{
		"summary": {Flags: map[string]complete.Predictor{
			"ticker":  predict.Nothing,
			"details": predict.Nothing,
			"fees":    predict.Nothing,
			"pie":     predict.Set{"invested", "market"},
			"json":    predict.Nothing,
		}},
		"history": {Flags: map[string]complete.Predictor{
			"n":       predict.Something,
			"monthly": predict.Nothing,
			"json":    predict.Nothing,
		}},
		"prices": {},
		"watch": {Flags: map[string]complete.Predictor{
			"schedule": predict.Set{"@every 10m", "@hourly", "@daily"},
			"ticker":   predict.Nothing,
			"details":  predict.Nothing,
			"fees":     predict.Nothing,
			"pie":      predict.Set{"invested", "market"},
		}},
		"assist": {Flags: map[string]complete.Predictor{
			"i":     predict.Nothing,
			"model": predict.Something,
		}},
		"topic":    {Args: predict.Set{"ledger", "gains", "history", "config", "*"}},
		"help":     {},
		"commands": {},
		"flags":    {},
	},
}

func main() {
	completion.Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
