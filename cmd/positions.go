package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/tanwk/folio"
	"github.com/tanwk/folio/renderer"
)

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct {
	broker string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "current portfolio positions and gains" }
func (*positionsCmd) Usage() string {
	return `ft positions [-b <broker>]

  Replays the ledger into current positions: shares held, cost basis,
  market value, unrealized and realized gains and net dividends, all in the
  base currency.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.broker, "b", "", "Only positions at this broker")
}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := OpenStore()
	if err != nil {
		return errorf("Error opening database: %v", err)
	}
	defer s.Close()

	engine, err := loadEngine(ctx, s, nil)
	if err != nil {
		return errorf("Error: %v", err)
	}

	var filters []func(folio.Transaction) bool
	if c.broker != "" {
		filters = append(filters, folio.ByBroker(c.broker))
	}
	printMarkdown(renderer.PositionsMarkdown(engine.Valuation(filters...)))
	return subcommands.ExitSuccess
}
