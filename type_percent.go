package folio

import (
	"fmt"
	"math"
)

// Percent is a plain percentage value: 12.5 renders as "12.50%".
type Percent float64

// Equal compares with a small tolerance, since percentages come out of
// float arithmetic.
func (p Percent) Equal(q Percent) bool {
	return math.Abs(float64(p-q)) < 0.0001
}

func (p Percent) String() string { return fmt.Sprintf("%.2f%%", p) }

// SignedString renders with an explicit sign, and a dash for zero.
func (p Percent) SignedString() string {
	s := fmt.Sprintf("%+.2f%%", p)
	if s == "+0.00%" {
		return "-"
	}
	return s
}
