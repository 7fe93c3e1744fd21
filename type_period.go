package folio

import (
	"fmt"
	"iter"
)

// Period is a sampling cadence for historical series.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "day"
	case Weekly:
		return "week"
	case Monthly:
		return "month"
	default:
		return "unknown"
	}
}

// ParsePeriod parses a string into a Period.
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "day", "daily":
		return Daily, nil
	case "week", "weekly":
		return Weekly, nil
	case "month", "monthly":
		return Monthly, nil
	default:
		return 0, fmt.Errorf("unknown period: %q", s)
	}
}

// Next returns the date one period after d.
func (p Period) Next(d Date) Date {
	switch p {
	case Daily:
		return d.Add(1)
	case Weekly:
		return d.Add(7)
	case Monthly:
		return d.AddMonth(1)
	default:
		panic("unknown period")
	}
}

// Range is an inclusive range of dates.
type Range struct {
	From, To Date
}

// Contains reports whether the date is within the range (inclusive).
func (r Range) Contains(d Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// Sample returns an iterator over the range sampled at the period's cadence,
// starting at From. The To date is always yielded last so a series ends on
// the evaluation date even when the grid does not land on it.
func (r Range) Sample(p Period) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		d := r.From
		for !d.After(r.To) {
			if !yield(d) {
				return
			}
			if d == r.To {
				return
			}
			d = p.Next(d)
		}
		yield(r.To)
	}
}
