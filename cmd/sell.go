package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/tanwk/folio"
)

// sellCmd holds the flags for the 'sell' subcommand.
type sellCmd struct {
	date     string
	ticker   string
	quantity string
	price    string
	currency string
	broker   string
	fxRate   string
	memo     string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale of shares" }
func (*sellCmd) Usage() string {
	return `ft sell -t <ticker> -q <quantity> -p <price> [-d <date>] [-c <currency>] [-b <broker>] [-fx <rate>] [-m <memo>]

  Records a sale in the ledger. The sale is matched against the oldest open
  lots when reports are computed; selling more than is held on the date
  surfaces as an error at reporting time.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", folio.Today().String(), "Trade date")
	f.StringVar(&c.ticker, "t", "", "Ticker symbol")
	f.StringVar(&c.quantity, "q", "", "Number of shares")
	f.StringVar(&c.price, "p", "", "Price per share, in the trade currency")
	f.StringVar(&c.currency, "c", "", "Trade currency (defaults from the ticker suffix)")
	f.StringVar(&c.broker, "b", "", "Broker holding the position")
	f.StringVar(&c.fxRate, "fx", "", "Exchange rate to the base currency on the trade date")
	f.StringVar(&c.memo, "m", "", "Free form note")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return recordTrade(ctx, folio.Sell, c.date, c.ticker, c.quantity, c.price, c.currency, c.broker, c.fxRate, c.memo)
}
