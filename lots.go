package folio

import (
	"fmt"
)

// Lot is a single purchase, or the remainder of one after partial sales.
type Lot struct {
	Date     Date
	Quantity Quantity
	Cost     Money // total native cost of the lot (quantity * price)
}

// UnitCost returns the per-share cost of the lot.
func (l Lot) UnitCost() Money { return l.Cost.Div(l.Quantity) }

// ClosedLot records the matching of a sale against one open lot. A sale that
// spans several lots produces one ClosedLot per lot consumed.
type ClosedLot struct {
	BuyDate  Date
	SellDate Date
	Quantity Quantity
	Cost     Money // native cost of the sold portion, FIFO
	Proceeds Money // native proceeds of the sold portion
}

// RealizedNative returns the realized gain of the closed lot in the
// security's native currency.
func (c ClosedLot) RealizedNative() Money { return c.Proceeds.Sub(c.Cost) }

// OversellError reports a sale of more shares than the replay holds open at
// that point of the ledger.
type OversellError struct {
	Ticker    string
	Date      Date
	Requested Quantity
	Available Quantity
}

func (e *OversellError) Error() string {
	return fmt.Sprintf("cannot sell %s shares of %s on %s: only %s held",
		e.Requested, e.Ticker, e.Date, e.Available)
}

// Replay walks the ticker's transactions in chronological order and matches
// every sale against the open lots using FIFO. It returns the lots still
// open and the closed lots of every sale.
//
// Selling more than is held is an error: the ledger is the source of truth,
// a short position means a missing or misdated purchase.
func Replay(txs []Transaction) (open []Lot, closed []ClosedLot, err error) {
	for _, tx := range txs {
		switch tx.Side {
		case Buy:
			open = append(open, Lot{Date: tx.Date, Quantity: tx.Quantity, Cost: tx.Cost()})
		case Sell:
			if avail := OpenQuantity(open); tx.Quantity.GreaterThan(avail) {
				return nil, nil, &OversellError{
					Ticker:    tx.Ticker,
					Date:      tx.Date,
					Requested: tx.Quantity,
					Available: avail,
				}
			}
			toSell := tx.Quantity
			unitProceeds := tx.Price
			for !toSell.IsZero() {
				front := open[0]
				if front.Quantity.GreaterThan(toSell) {
					// Partial sale from the front lot: cost moves out
					// proportionally, the remainder keeps its date.
					soldCost := front.Cost.Mul(toSell).Div(front.Quantity)
					closed = append(closed, ClosedLot{
						BuyDate:  front.Date,
						SellDate: tx.Date,
						Quantity: toSell,
						Cost:     soldCost,
						Proceeds: unitProceeds.Mul(toSell),
					})
					open[0] = Lot{
						Date:     front.Date,
						Quantity: front.Quantity.Sub(toSell),
						Cost:     front.Cost.Sub(soldCost),
					}
					break
				}
				// Front lot fully consumed.
				closed = append(closed, ClosedLot{
					BuyDate:  front.Date,
					SellDate: tx.Date,
					Quantity: front.Quantity,
					Cost:     front.Cost,
					Proceeds: unitProceeds.Mul(front.Quantity),
				})
				toSell = toSell.Sub(front.Quantity)
				open = open[1:]
			}
		}
	}
	return open, closed, nil
}

// OpenQuantity returns the total quantity held across the open lots.
func OpenQuantity(open []Lot) Quantity {
	var total Quantity
	for _, l := range open {
		total = total.Add(l.Quantity)
	}
	return total
}

// CostBasis returns the total native cost of the open lots.
func CostBasis(open []Lot) Money {
	var total Money
	for _, l := range open {
		total = total.Add(l.Cost)
	}
	return total
}

// RealizedNative returns the total realized gain of the closed lots in the
// security's native currency.
func RealizedNative(closed []ClosedLot) Money {
	var total Money
	for _, c := range closed {
		total = total.Add(c.RealizedNative())
	}
	return total
}

// HeldOn replays the transactions up to and including 'on' and returns the
// quantity held on that day. An oversell anywhere in the replayed span
// surfaces as the error.
func HeldOn(txs []Transaction, on Date) (Quantity, error) {
	var upTo []Transaction
	for _, tx := range txs {
		if tx.Date.After(on) {
			break
		}
		upTo = append(upTo, tx)
	}
	open, _, err := Replay(upTo)
	if err != nil {
		return Quantity{}, err
	}
	return OpenQuantity(open), nil
}
