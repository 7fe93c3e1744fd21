package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/tanwk/folio"
	"github.com/tanwk/folio/renderer"
)

// dividendsCmd holds the flags for the 'dividends' subcommand.
type dividendsCmd struct {
	ticker string
}

func (*dividendsCmd) Name() string     { return "dividends" }
func (*dividendsCmd) Synopsis() string { return "dividends received, net of withholding tax" }
func (*dividendsCmd) Usage() string {
	return `ft dividends [-t <ticker>]

  Replays each security's dividend events against the shares held on the
  ex-dates, applies the issuing country's withholding tax, and converts the
  net amounts at the ex-date exchange rates.
`
}

func (c *dividendsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Only dividends for this ticker")
}

func (c *dividendsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := OpenStore()
	if err != nil {
		return errorf("Error opening database: %v", err)
	}
	defer s.Close()

	engine, err := loadEngine(ctx, s, nil)
	if err != nil {
		return errorf("Error: %v", err)
	}

	tickers := engine.Ledger().Tickers()
	if c.ticker != "" {
		tickers = []string{c.ticker}
	}

	var records []folio.DividendRecord
	for _, ticker := range tickers {
		p, err := engine.Position(ticker)
		if err != nil {
			return errorf("Error replaying %s: %v", ticker, err)
		}
		records = append(records, p.Dividends...)
	}
	printMarkdown(renderer.DividendsMarkdown(records, engine.Base()))
	return subcommands.ExitSuccess
}
