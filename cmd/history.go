package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/tanwk/folio"
	"github.com/tanwk/folio/renderer"
)

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	period    string
	start     string
	end       string
	benchmark string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "portfolio value sampled through time" }
func (*historyCmd) Usage() string {
	return `ft history [-period <period>] [-s <date>] [-d <date>] [-benchmark <ticker>]

  Samples the portfolio's invested amount, cost basis and market value
  through the range, each point valued with that day's historical prices
  and rates. With -benchmark, also samples the simulated benchmark holding.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", folio.Weekly.String(), "Sampling cadence (day, week, month)")
	f.StringVar(&c.start, "s", "", "Start date (defaults to the first transaction)")
	f.StringVar(&c.end, "d", folio.Today().String(), "End date")
	f.StringVar(&c.benchmark, "benchmark", "", "Also plot this benchmark's simulated value")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := folio.ParsePeriod(c.period)
	if err != nil {
		return usagef("Error parsing period: %v", err)
	}
	end, err := folio.ParseDate(c.end)
	if err != nil {
		return usagef("Error parsing end date: %v", err)
	}

	s, err := OpenStore()
	if err != nil {
		return errorf("Error opening database: %v", err)
	}
	defer s.Close()

	var benchmarks []string
	if c.benchmark != "" {
		benchmarks = []string{c.benchmark}
	}
	engine, err := loadEngine(ctx, s, benchmarks)
	if err != nil {
		return errorf("Error: %v", err)
	}

	start := engine.Ledger().OldestTransactionDate()
	if c.start != "" {
		if start, err = folio.ParseDate(c.start); err != nil {
			return usagef("Error parsing start date: %v", err)
		}
	}
	if start.IsZero() {
		return errorf("The ledger is empty, nothing to plot.")
	}
	rng := folio.Range{From: start, To: end}

	series, err := engine.ValueSeries(rng, period)
	if err != nil {
		return errorf("Error computing history: %v", err)
	}
	printMarkdown(renderer.SeriesMarkdown("Portfolio History", series))

	if c.benchmark != "" {
		bench := engine.BenchmarkSeries(c.benchmark, rng, period)
		printMarkdown(renderer.SeriesMarkdown(c.benchmark+" (simulated)", bench))
	}
	return subcommands.ExitSuccess
}
