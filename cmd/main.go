// Package cmd implements the ft subcommands.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/tanwk/folio"
	"github.com/tanwk/folio/store"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&txCmd{}, "transactions")

	c.Register(&positionsCmd{}, "reports")
	c.Register(&dividendsCmd{}, "reports")
	c.Register(&perfCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
}

var dbFile = flag.String("db", "folio.db", "Path to the portfolio database file")
var baseCurrency = flag.String("base", folio.DefaultBaseCurrency, "Reporting currency")

// OpenStore is the central function to open the portfolio database.
func OpenStore() (*store.Store, error) {
	return store.Open(*dbFile)
}

// loadEngine opens the database, loads the ledger, fetches a market
// snapshot covering the ledger's full span, and builds the engine over it.
func loadEngine(ctx context.Context, s *store.Store, benchmarks []string) (*folio.Engine, error) {
	ledger, err := s.Ledger(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	rng := folio.Range{From: ledger.OldestTransactionDate(), To: folio.Today()}
	if rng.From.IsZero() {
		rng.From = rng.To
	}
	market, err := folio.LoadMarketData(ctx, folio.NewYahooProvider(), ledger, *baseCurrency, benchmarks, rng)
	if err != nil {
		return nil, fmt.Errorf("loading market data: %w", err)
	}

	return folio.NewEngine(ledger, market, s, *baseCurrency)
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when rendering fails (no tty, unknown style).
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func errorf(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}

func usagef(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitUsageError
}
