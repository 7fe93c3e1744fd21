package renderer

import (
	"fmt"
	"strings"

	"github.com/tanwk/folio"
)

// rate formats an annualized rate, or "n/a" when the figure could not be
// computed.
func rate(r float64, available bool) string {
	if !available {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", 100*r)
}

// PerformanceMarkdown renders the portfolio's money-weighted return next to
// its simulated benchmarks.
func PerformanceMarkdown(report *folio.PerformanceReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Performance (%s)\n\n", report.Base)

	fmt.Fprintln(&b, "| | Annualized Return (XIRR) |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| **Portfolio** | **%s** |\n", rate(report.Rate, report.Available))
	for _, bench := range report.Benchmarks {
		fmt.Fprintf(&b, "| %s | %s |\n", bench.Ticker, rate(bench.Rate, bench.Available))
	}

	if !report.Available {
		fmt.Fprint(&b, "\nNot enough dated flows to compute a portfolio return yet.\n")
	}
	return b.String()
}

// SeriesMarkdown renders a sampled value series as a table of invested
// amount, cost basis and market value per sampled day.
func SeriesMarkdown(title string, series []folio.SeriesPoint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	if len(series) == 0 {
		fmt.Fprintln(&b, "Nothing to plot over this range.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Date | Invested | Cost Basis | Value |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, pt := range series {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", pt.Date, pt.Invested, pt.CostBasis, pt.Value)
	}
	return b.String()
}
