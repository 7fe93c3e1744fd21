package folio

import (
	"iter"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// History stores a chronological series of decimal values, each associated
// with a specific date. Dates are unique and the series is always sorted.
// It backs historical price and FX rate series in a market data snapshot.
type History struct {
	days   []Date
	values []decimal.Decimal
}

// Len returns the number of items in the history.
func (h *History) Len() int { return len(h.days) }

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero values.
func (h *History) Latest() (day Date, value decimal.Decimal) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, decimal.Decimal{}
	}
	return h.days[last], h.values[last]
}

// chronological is a private implementation to make this history chronologically sorted.
type chronological struct{ *History }

func (s chronological) Len() int           { return len(s.days) }
func (s chronological) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }
func (s chronological) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

func (h *History) sort() { sort.Sort(chronological{h}) }

// Append adds a point to the history.
//
// An existing value at that date is overwritten, giving priority to the
// last data.
func (h *History) Append(on Date, v decimal.Decimal) *History {
	if i := slices.Index(h.days, on); i >= 0 {
		h.values[i] = v
		return h
	}
	h.days, h.values = append(h.days, on), append(h.values, v)
	h.sort()
	return h
}

// AsOf returns the last value on or before the given date.
// It returns false when the history has no point on or before it.
func (h *History) AsOf(on Date) (decimal.Decimal, bool) {
	// days is sorted: find the last index with days[i] <= on.
	i := sort.Search(len(h.days), func(i int) bool { return h.days[i].After(on) })
	if i == 0 {
		return decimal.Decimal{}, false
	}
	return h.values[i-1], true
}

// Values returns an iterator over all date/value pairs in chronological order.
func (h *History) Values() iter.Seq2[Date, decimal.Decimal] {
	return func(yield func(Date, decimal.Decimal) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}
