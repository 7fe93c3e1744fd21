package folio

import (
	"math"
	"sort"
)

// CashFlow is one dated flow of the money-weighted return computation.
// Outflows (purchases) are negative, inflows (sales, dividends, the
// terminal value) positive. Amounts are in the base currency.
type CashFlow struct {
	Date   Date
	Amount float64
}

const (
	xirrTol     = 1e-6
	xirrMaxIter = 200
	xirrLow     = -0.9999
	xirrHigh    = 10.0
)

// npv discounts the flows at annual rate r, day counts actual/365 from the
// first flow.
func npv(flows []CashFlow, r float64) float64 {
	t0 := flows[0].Date
	var sum float64
	for _, f := range flows {
		years := float64(DaysBetween(t0, f.Date)) / 365.0
		sum += f.Amount / math.Pow(1+r, years)
	}
	return sum
}

// XIRR computes the annualized money-weighted return of irregular dated
// cash flows, as the rate at which their net present value is zero.
//
// The result is availability-marked rather than approximated: fewer than
// two flows, flows all of one sign, or a root outside the bracketed range
// return ok=false. A portfolio too young or too one-sided for the figure to
// mean anything reports no figure at all.
func XIRR(flows []CashFlow) (rate float64, ok bool) {
	if len(flows) < 2 {
		return 0, false
	}
	sorted := make([]CashFlow, len(flows))
	copy(sorted, flows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	hasPositive, hasNegative := false, false
	for _, f := range sorted {
		if f.Amount > 0 {
			hasPositive = true
		}
		if f.Amount < 0 {
			hasNegative = true
		}
	}
	if !hasPositive || !hasNegative {
		return 0, false
	}

	lo, hi := xirrLow, xirrHigh
	flo, fhi := npv(sorted, lo), npv(sorted, hi)
	if math.IsNaN(flo) || math.IsNaN(fhi) || flo*fhi > 0 {
		return 0, false
	}

	// Bisection over the bracket; robust where Newton is not.
	for i := 0; i < xirrMaxIter; i++ {
		mid := (lo + hi) / 2
		fmid := npv(sorted, mid)
		if math.Abs(fmid) < xirrTol || (hi-lo)/2 < xirrTol {
			return mid, true
		}
		if flo*fmid < 0 {
			hi = mid
		} else {
			lo, flo = mid, fmid
		}
	}
	return 0, false
}
