package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/tanwk/folio"
	"github.com/tanwk/folio/renderer"
)

// txCmd holds the flags for the 'tx' subcommand.
type txCmd struct {
	ticker     string
	broker     string
	importFile string
	exportFile string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list, import or export ledger transactions" }
func (*txCmd) Usage() string {
	return `ft tx [-t <ticker>] [-b <broker>] [-import <file>] [-export <file>]

  Without flags, lists the ledger chronologically. -import merges a JSONL
  file into the ledger (duplicates are skipped); -export writes the ledger
  as JSONL.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Only transactions for this ticker")
	f.StringVar(&c.broker, "b", "", "Only transactions at this broker")
	f.StringVar(&c.importFile, "import", "", "JSONL file to merge into the ledger")
	f.StringVar(&c.exportFile, "export", "", "JSONL file to write the ledger to")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := OpenStore()
	if err != nil {
		return errorf("Error opening database: %v", err)
	}
	defer s.Close()

	if c.importFile != "" {
		file, err := os.Open(c.importFile)
		if err != nil {
			return errorf("Error opening %q: %v", c.importFile, err)
		}
		defer file.Close()
		imported, err := folio.DecodeLedger(file)
		if err != nil {
			return errorf("Error reading %q: %v", c.importFile, err)
		}
		var txs []folio.Transaction
		for _, tx := range imported.Transactions() {
			txs = append(txs, tx)
		}
		saved, err := s.SaveTransactions(ctx, txs...)
		if err != nil {
			return errorf("Error saving transactions: %v", err)
		}
		fmt.Printf("Imported %d transactions (%d duplicates skipped).\n", saved, imported.Len()-saved)
		return subcommands.ExitSuccess
	}

	ledger, err := s.Ledger(ctx)
	if err != nil {
		return errorf("Error loading ledger: %v", err)
	}

	if c.exportFile != "" {
		file, err := os.Create(c.exportFile)
		if err != nil {
			return errorf("Error creating %q: %v", c.exportFile, err)
		}
		defer file.Close()
		if err := folio.EncodeLedger(file, ledger); err != nil {
			return errorf("Error writing %q: %v", c.exportFile, err)
		}
		fmt.Printf("Exported %d transactions to %s.\n", ledger.Len(), c.exportFile)
		return subcommands.ExitSuccess
	}

	var filters []func(folio.Transaction) bool
	if c.ticker != "" {
		filters = append(filters, folio.ByTicker(c.ticker))
	}
	if c.broker != "" {
		filters = append(filters, folio.ByBroker(c.broker))
	}
	printMarkdown(renderer.TransactionsMarkdown(ledger, filters...))
	return subcommands.ExitSuccess
}
