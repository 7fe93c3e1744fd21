package renderer

import (
	"fmt"
	"strings"

	"github.com/tanwk/folio"
)

// TransactionsMarkdown renders ledger transactions chronologically.
func TransactionsMarkdown(ledger *folio.Ledger, filters ...func(folio.Transaction) bool) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Transactions\n\n")

	fmt.Fprintln(&b, "| Date | Ticker | Side | Quantity | Price | Cost | Broker | Memo |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|:---|:---|")
	n := 0
	for _, tx := range ledger.Transactions(filters...) {
		n++
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			tx.Date,
			tx.Ticker,
			tx.Side,
			tx.Quantity,
			tx.Price,
			tx.Cost(),
			tx.Broker,
			tx.Memo,
		)
	}
	if n == 0 {
		return "# Transactions\n\nThe ledger is empty.\n"
	}
	return b.String()
}
