// Package renderer builds markdown reports from engine results. Rendering
// is pure string building; callers decide where the markdown goes.
package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tanwk/folio"
)

// PositionsMarkdown renders the portfolio valuation as a positions table,
// sorted by market value, largest first. Degraded positions show a dash
// where their market figures would be, and batch failures get their own
// section.
func PositionsMarkdown(v *folio.Valuation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio Positions (%s)\n\n", v.Base)
	fmt.Fprintf(&b, "As of %s.\n\n", v.On)

	fmt.Fprintln(&b, "| Ticker | Shares | Avg Cost | Cost Basis | Market Value | Unrealized | Realized | Dividends | Total P&L | P&L % |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|---:|---:|")

	positions := make([]folio.Position, len(v.Positions))
	copy(positions, v.Positions)
	sort.SliceStable(positions, func(i, j int) bool {
		return positions[j].MarketValueBase().LessThan(positions[i].MarketValueBase())
	})

	for i := range positions {
		p := &positions[i]
		value, unrealized := p.MarketValueBase().String(), p.UnrealizedBase().SignedString()
		if p.QuoteErr != nil {
			value, unrealized = "-", "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			p.Ticker,
			p.Shares(),
			p.AvgCostNative(),
			p.CostBasisBase(),
			value,
			unrealized,
			p.RealizedBase().SignedString(),
			p.NetDividendsBase(),
			p.TotalPNLBase().SignedString(),
			p.PNLPercent().SignedString(),
		)
	}
	fmt.Fprintf(&b, "| **Total** | | | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** |\n",
		v.TotalCostBasis(),
		v.TotalMarketValue(),
		v.TotalUnrealized().SignedString(),
		v.TotalRealized().SignedString(),
		v.TotalDividends(),
		v.TotalPNL().SignedString(),
		v.PNLPercent().SignedString(),
	)

	if len(v.Failures) > 0 {
		fmt.Fprint(&b, "\n## Skipped\n\n")
		tickers := make([]string, 0, len(v.Failures))
		for t := range v.Failures {
			tickers = append(tickers, t)
		}
		sort.Strings(tickers)
		for _, t := range tickers {
			fmt.Fprintf(&b, "- %s: %v\n", t, v.Failures[t])
		}
	}
	return b.String()
}
