package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tanwk/folio"
)

// DividendsMarkdown renders the dividend records chronologically, with the
// withholding tax shown per payment and the net base amounts totaled per
// year.
func DividendsMarkdown(records []folio.DividendRecord, base string) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Dividends\n\n")

	if len(records) == 0 {
		fmt.Fprintln(&b, "No dividend events.")
		return b.String()
	}

	sorted := make([]folio.DividendRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExDate.Before(sorted[j].ExDate)
	})

	fmt.Fprintln(&b, "| Ex-Date | Ticker | Shares | Per Share | Gross | WHT | Net | Net ("+base+") |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|")
	for _, r := range sorted {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s (%.0f%%) | %s | %s |\n",
			r.ExDate,
			r.Ticker,
			r.Shares,
			r.PerShare,
			r.Gross,
			r.WHT, 100*r.WHTRate,
			r.Net,
			r.NetBase,
		)
	}
	fmt.Fprintf(&b, "| **Total** | | | | | | | **%s** |\n", folio.TotalNetBase(sorted, base))

	byYear := folio.DividendsByYear(sorted, base)
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	fmt.Fprint(&b, "\n## By Year\n\n")
	fmt.Fprintln(&b, "| Year | Net ("+base+") |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, y := range years {
		fmt.Fprintf(&b, "| %d | %s |\n", y, byYear[y])
	}
	return b.String()
}
