package folio

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestLedger_AppendDeduplicates(t *testing.T) {
	ledger := NewLedger()

	tx := buy("2025-01-10", "AAPL", 100, 150.0)
	if added := ledger.Append(tx); added != 1 {
		t.Fatalf("Append() = %d, want 1", added)
	}
	// Same identity tuple again: a no-op.
	if added := ledger.Append(tx); added != 0 {
		t.Errorf("Append() of a duplicate = %d, want 0", added)
	}
	if ledger.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ledger.Len())
	}

	// Same trade at another broker is a distinct transaction.
	other := tx
	other.Broker = "other"
	if added := ledger.Append(other); added != 1 {
		t.Errorf("Append() at another broker = %d, want 1", added)
	}
}

func TestLedger_AppendKeepsChronologicalOrder(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		buy("2025-03-01", "AAPL", 10, 155.0),
		buy("2025-01-10", "AAPL", 100, 150.0),
		sell("2025-02-01", "AAPL", 25, 160.0),
	)

	var got []string
	for _, tx := range ledger.Transactions() {
		got = append(got, tx.Date.String())
	}
	want := []string{"2025-01-10", "2025-02-01", "2025-03-01"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("transaction order = %v, want %v", got, want)
	}

	if got := ledger.OldestTransactionDate(); got != day("2025-01-10") {
		t.Errorf("OldestTransactionDate() = %s, want 2025-01-10", got)
	}
	if got := ledger.NewestTransactionDate(); got != day("2025-03-01") {
		t.Errorf("NewestTransactionDate() = %s, want 2025-03-01", got)
	}
}

func TestLedger_Filters(t *testing.T) {
	ledger := NewLedger()
	a := buy("2025-01-10", "AAPL", 100, 150.0)
	g := buy("2025-01-15", "GOOG", 50, 2800.0)
	g.Broker = "ibkr"
	ledger.Append(a, g, sell("2025-02-01", "AAPL", 25, 160.0))

	count := func(filters ...func(Transaction) bool) int {
		n := 0
		for range ledger.Transactions(filters...) {
			n++
		}
		return n
	}

	if got := count(ByTicker("AAPL")); got != 2 {
		t.Errorf("ByTicker(AAPL) matched %d, want 2", got)
	}
	if got := count(ByBroker("ibkr")); got != 1 {
		t.Errorf("ByBroker(ibkr) matched %d, want 1", got)
	}
	if got := count(ByRange(Range{From: day("2025-01-12"), To: day("2025-01-31")})); got != 1 {
		t.Errorf("ByRange matched %d, want 1", got)
	}
	if got := count(ByTicker("AAPL"), NotAfter(day("2025-01-31"))); got != 1 {
		t.Errorf("combined filters matched %d, want 1", got)
	}

	if got := ledger.Tickers(); !reflect.DeepEqual(got, []string{"AAPL", "GOOG"}) {
		t.Errorf("Tickers() = %v, want [AAPL GOOG]", got)
	}
}

func TestLedger_TickerTransactions(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(
		buy("2025-01-10", "AAPL", 100, 150.0),
		buy("2025-01-15", "GOOG", 50, 2800.0),
		sell("2025-02-01", "AAPL", 25, 160.0),
		buy("2025-03-01", "AAPL", 10, 155.0),
	)

	got := ledger.TickerTransactions("AAPL", day("2025-02-15"))
	if len(got) != 2 {
		t.Fatalf("TickerTransactions() returned %d transactions, want 2", len(got))
	}
	if got[0].Side != Buy || got[1].Side != Sell {
		t.Errorf("TickerTransactions() order is wrong: %v then %v", got[0].Side, got[1].Side)
	}
}

func TestLedger_EncodeDecodeRoundTrip(t *testing.T) {
	ledger := NewLedger()
	tx := buy("2025-01-10", "AAPL", 100, 150.0)
	tx.Memo = "initial position"
	ledger.Append(tx, sell("2025-02-01", "AAPL", 25, 160.0))

	var buf bytes.Buffer
	if err := EncodeLedger(&buf, ledger); err != nil {
		t.Fatalf("EncodeLedger() error = %v", err)
	}

	decoded, err := DecodeLedger(&buf)
	if err != nil {
		t.Fatalf("DecodeLedger() error = %v", err)
	}
	if decoded.Len() != ledger.Len() {
		t.Fatalf("round trip lost transactions: %d != %d", decoded.Len(), ledger.Len())
	}
	for i, want := range ledger.Transactions() {
		var got Transaction
		for j, tx := range decoded.Transactions() {
			if j == i {
				got = tx
			}
		}
		if !got.Equal(want) {
			t.Errorf("round trip transaction %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestDecodeLedger_RejectsInvalid(t *testing.T) {
	in := `{"date":"2025-01-10","ticker":"AAPL","side":"BUY","price":150,"quantity":-5,"broker":"test","currency":"USD"}`
	if _, err := DecodeLedger(strings.NewReader(in)); err == nil {
		t.Fatal("DecodeLedger() accepted a negative quantity")
	}
}
