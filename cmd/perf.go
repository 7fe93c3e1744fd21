package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"

	"github.com/tanwk/folio"
	"github.com/tanwk/folio/renderer"
)

// perfCmd holds the flags for the 'perf' subcommand.
type perfCmd struct {
	benchmarks string
}

func (*perfCmd) Name() string     { return "perf" }
func (*perfCmd) Synopsis() string { return "money-weighted return versus benchmarks" }
func (*perfCmd) Usage() string {
	return `ft perf [-benchmarks <tickers>]

  Computes the portfolio's annualized money-weighted return (XIRR) from its
  dated cash flows, and replays the same flows into each benchmark as if
  every trade had bought it instead.
`
}

func (c *perfCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.benchmarks, "benchmarks", strings.Join(folio.DefaultBenchmarks, ","),
		"Comma separated benchmark tickers")
}

func (c *perfCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	benchmarks := splitList(c.benchmarks)

	s, err := OpenStore()
	if err != nil {
		return errorf("Error opening database: %v", err)
	}
	defer s.Close()

	engine, err := loadEngine(ctx, s, benchmarks)
	if err != nil {
		return errorf("Error: %v", err)
	}

	report, err := engine.Performance(benchmarks...)
	if err != nil {
		return errorf("Error computing performance: %v", err)
	}
	printMarkdown(renderer.PerformanceMarkdown(report))
	return subcommands.ExitSuccess
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
