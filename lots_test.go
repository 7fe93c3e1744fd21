package folio

import (
	"errors"
	"testing"
)

func TestReplay_FIFO(t *testing.T) {
	// Two purchases at different prices, then a sale spanning both lots.
	txs := []Transaction{
		buy("2025-01-10", "AAPL", 10, 10.0),
		buy("2025-02-10", "AAPL", 10, 12.0),
		sell("2025-03-01", "AAPL", 15, 15.0),
	}

	open, closed, err := Replay(txs)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	if got := len(closed); got != 2 {
		t.Fatalf("Replay() closed %d lots, want 2", got)
	}
	// The oldest lot goes first, fully.
	if !closed[0].Quantity.Equal(qty(10)) || !closed[0].Cost.Equal(USD(100)) {
		t.Errorf("first closed lot = %s @ %s, want 10 @ $100.00", closed[0].Quantity, closed[0].Cost)
	}
	if closed[0].BuyDate != day("2025-01-10") {
		t.Errorf("first closed lot buy date = %s, want 2025-01-10", closed[0].BuyDate)
	}
	// The second lot is consumed partially, cost moving out proportionally.
	if !closed[1].Quantity.Equal(qty(5)) || !closed[1].Cost.Equal(USD(60)) {
		t.Errorf("second closed lot = %s @ %s, want 5 @ $60.00", closed[1].Quantity, closed[1].Cost)
	}

	if got := len(open); got != 1 {
		t.Fatalf("Replay() left %d open lots, want 1", got)
	}
	if !open[0].Quantity.Equal(qty(5)) || !open[0].Cost.Equal(USD(60)) {
		t.Errorf("open lot = %s @ %s, want 5 @ $60.00", open[0].Quantity, open[0].Cost)
	}
	if open[0].Date != day("2025-02-10") {
		t.Errorf("open lot keeps buy date %s, want 2025-02-10", open[0].Date)
	}
}

func TestReplay_Conservation(t *testing.T) {
	txs := []Transaction{
		buy("2025-01-10", "AAPL", 10, 10.0),
		buy("2025-02-10", "AAPL", 7, 12.0),
		sell("2025-03-01", "AAPL", 5, 15.0),
		buy("2025-04-01", "AAPL", 3, 11.0),
		sell("2025-05-01", "AAPL", 9, 16.0),
	}

	open, closed, err := Replay(txs)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	// Quantity is conserved: open + closed equals total bought.
	total := OpenQuantity(open)
	for _, c := range closed {
		total = total.Add(c.Quantity)
	}
	if !total.Equal(qty(20)) {
		t.Errorf("open+closed quantity = %s, want 20", total)
	}

	// Cost is conserved: open basis + closed cost equals total spent.
	spent := CostBasis(open)
	for _, c := range closed {
		spent = spent.Add(c.Cost)
	}
	if !spent.Equal(USD(10*10.0 + 7*12.0 + 3*11.0)) {
		t.Errorf("open+closed cost = %s, want total purchase cost", spent)
	}
}

func TestReplay_Oversell(t *testing.T) {
	txs := []Transaction{
		buy("2025-01-10", "AAPL", 10, 10.0),
		sell("2025-02-01", "AAPL", 15, 12.0),
	}

	_, _, err := Replay(txs)
	var oversell *OversellError
	if !errors.As(err, &oversell) {
		t.Fatalf("Replay() error = %v, want *OversellError", err)
	}
	if oversell.Ticker != "AAPL" || oversell.Date != day("2025-02-01") {
		t.Errorf("OversellError = %+v, want AAPL on 2025-02-01", oversell)
	}
	if !oversell.Requested.Equal(qty(15)) || !oversell.Available.Equal(qty(10)) {
		t.Errorf("OversellError quantities = %s/%s, want 15/10", oversell.Requested, oversell.Available)
	}
}

func TestReplay_SellEverything(t *testing.T) {
	txs := []Transaction{
		buy("2025-01-10", "AAPL", 10, 10.0),
		sell("2025-02-01", "AAPL", 10, 12.0),
	}

	open, closed, err := Replay(txs)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if len(open) != 0 {
		t.Errorf("Replay() left %d open lots, want none", len(open))
	}
	if got := RealizedNative(closed); !got.Equal(USD(20)) {
		t.Errorf("RealizedNative() = %s, want $20.00", got)
	}
}

func TestReplay_Deterministic(t *testing.T) {
	txs := []Transaction{
		buy("2025-01-10", "AAPL", 10, 10.0),
		buy("2025-02-10", "AAPL", 10, 12.0),
		sell("2025-03-01", "AAPL", 15, 15.0),
	}

	open1, closed1, err1 := Replay(txs)
	open2, closed2, err2 := Replay(txs)
	if err1 != nil || err2 != nil {
		t.Fatalf("Replay() errors = %v, %v", err1, err2)
	}
	if len(open1) != len(open2) || len(closed1) != len(closed2) {
		t.Fatalf("two replays disagree on lot counts")
	}
	for i := range closed1 {
		if !closed1[i].Cost.Equal(closed2[i].Cost) || !closed1[i].Quantity.Equal(closed2[i].Quantity) {
			t.Errorf("two replays disagree on closed lot %d", i)
		}
	}
}

func TestHeldOn(t *testing.T) {
	txs := []Transaction{
		buy("2025-01-10", "AAPL", 100, 150.0),
		sell("2025-02-01", "AAPL", 25, 160.0),
		buy("2025-02-10", "AAPL", 10, 155.0),
	}

	testCases := []struct {
		name string
		on   string
		want float64
	}{
		{name: "before any transaction", on: "2025-01-09", want: 0},
		{name: "on the first buy", on: "2025-01-10", want: 100},
		{name: "on the sell", on: "2025-02-01", want: 75},
		{name: "after the second buy", on: "2025-03-01", want: 85},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := HeldOn(txs, day(tc.on))
			if err != nil {
				t.Fatalf("HeldOn() error = %v", err)
			}
			if !got.Equal(qty(tc.want)) {
				t.Errorf("HeldOn(%s) = %s, want %v", tc.on, got, tc.want)
			}
		})
	}
}
