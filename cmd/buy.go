package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/tanwk/folio"
)

// buyCmd holds the flags for the 'buy' subcommand.
type buyCmd struct {
	date     string
	ticker   string
	quantity string
	price    string
	currency string
	broker   string
	fxRate   string
	memo     string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase of shares" }
func (*buyCmd) Usage() string {
	return `ft buy -t <ticker> -q <quantity> -p <price> [-d <date>] [-c <currency>] [-b <broker>] [-fx <rate>] [-m <memo>]

  Records a purchase in the ledger. Recording the same purchase twice is a
  no-op. The currency defaults to the one implied by the ticker's exchange
  suffix.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", folio.Today().String(), "Trade date")
	f.StringVar(&c.ticker, "t", "", "Ticker symbol")
	f.StringVar(&c.quantity, "q", "", "Number of shares")
	f.StringVar(&c.price, "p", "", "Price per share, in the trade currency")
	f.StringVar(&c.currency, "c", "", "Trade currency (defaults from the ticker suffix)")
	f.StringVar(&c.broker, "b", "", "Broker holding the position")
	f.StringVar(&c.fxRate, "fx", "", "Exchange rate to the base currency on the trade date")
	f.StringVar(&c.memo, "m", "", "Free form note")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return recordTrade(ctx, folio.Buy, c.date, c.ticker, c.quantity, c.price, c.currency, c.broker, c.fxRate, c.memo)
}

// recordTrade parses the shared buy/sell flags into a transaction and saves it.
func recordTrade(ctx context.Context, side folio.Side, date, ticker, quantity, price, currency, broker, fxRate, memo string) subcommands.ExitStatus {
	day, err := folio.ParseDate(date)
	if err != nil {
		return usagef("Error parsing date: %v", err)
	}
	qty, err := decimal.NewFromString(quantity)
	if err != nil {
		return usagef("Error parsing quantity %q: %v", quantity, err)
	}
	prc, err := decimal.NewFromString(price)
	if err != nil {
		return usagef("Error parsing price %q: %v", price, err)
	}
	if currency == "" {
		currency = folio.GuessCurrency(ticker)
	}

	tx := folio.Transaction{
		Date:     day,
		Ticker:   ticker,
		Side:     side,
		Price:    folio.M(prc, currency),
		Quantity: folio.Q(qty),
		Broker:   broker,
		Memo:     memo,
	}
	if fxRate != "" {
		rate, err := decimal.NewFromString(fxRate)
		if err != nil {
			return usagef("Error parsing fx rate %q: %v", fxRate, err)
		}
		tx.FXRate = rate
	}
	if err := tx.Validate(); err != nil {
		return usagef("Invalid transaction: %v", err)
	}

	s, err := OpenStore()
	if err != nil {
		return errorf("Error opening database: %v", err)
	}
	defer s.Close()

	saved, err := s.SaveTransactions(ctx, tx)
	if err != nil {
		return errorf("Error saving transaction: %v", err)
	}
	if saved == 0 {
		fmt.Println("Already recorded.")
		return subcommands.ExitSuccess
	}
	fmt.Printf("Recorded %s %s x %s @ %s.\n", tx.Side, tx.Ticker, tx.Quantity, tx.Price)
	return subcommands.ExitSuccess
}
