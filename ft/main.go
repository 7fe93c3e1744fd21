package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/tanwk/folio"
	"github.com/tanwk/folio/cmd"
)

// completion describes the CLI for shell completion; Complete returns
// immediately when not invoked by a shell completion hook.
func completion() {
	tradeFlags := map[string]complete.Predictor{
		"t":  predict.Something,
		"q":  predict.Something,
		"p":  predict.Something,
		"d":  predict.Something,
		"c":  predict.Set{"SGD", "USD", "HKD", "GBP", "AUD", "CAD", "JPY"},
		"b":  predict.Something,
		"fx": predict.Something,
		"m":  predict.Something,
	}
	spec := &complete.Command{
		Flags: map[string]complete.Predictor{
			"db":   predict.Files("*.db"),
			"base": predict.Set{"SGD", "USD", "EUR"},
		},
		Sub: map[string]*complete.Command{
			"buy":  {Flags: tradeFlags},
			"sell": {Flags: tradeFlags},
			"tx": {Flags: map[string]complete.Predictor{
				"t":      predict.Something,
				"b":      predict.Something,
				"import": predict.Files("*.jsonl"),
				"export": predict.Files("*.jsonl"),
			}},
			"positions": {Flags: map[string]complete.Predictor{
				"b": predict.Something,
			}},
			"dividends": {Flags: map[string]complete.Predictor{
				"t": predict.Something,
			}},
			"perf": {Flags: map[string]complete.Predictor{
				"benchmarks": predict.Set(folio.DefaultBenchmarks),
			}},
			"history": {Flags: map[string]complete.Predictor{
				"period":    predict.Set{"day", "week", "month"},
				"s":         predict.Something,
				"d":         predict.Something,
				"benchmark": predict.Set(folio.DefaultBenchmarks),
			}},
		},
	}
	spec.Complete("ft")
}

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
