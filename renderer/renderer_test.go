package renderer

import (
	"strings"
	"testing"

	"github.com/tanwk/folio"
)

func TestPositionsMarkdown(t *testing.T) {
	ledger := folio.NewLedger()
	ledger.Append(folio.NewBuy(
		folio.MustParseDate("2025-01-10"), "AAPL",
		folio.Q(10.0), folio.M(100.0, "USD"), "test"))

	market := folio.NewMarketData()
	market.SetQuote("AAPL", folio.M(150.0, "USD"))

	engine, err := folio.NewEngine(ledger, market, nil, "USD")
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	md := PositionsMarkdown(engine.Valuation())
	for _, want := range []string{"AAPL", "| **Total**", "# Portfolio Positions (USD)"} {
		if !strings.Contains(md, want) {
			t.Errorf("PositionsMarkdown() missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "## Skipped") {
		t.Errorf("PositionsMarkdown() shows a Skipped section without failures:\n%s", md)
	}
}

func TestPositionsMarkdown_ReportsFailures(t *testing.T) {
	ledger := folio.NewLedger()
	ledger.Append(
		folio.NewBuy(folio.MustParseDate("2025-01-10"), "GOOG",
			folio.Q(5.0), folio.M(2800.0, "USD"), "test"),
		folio.NewSell(folio.MustParseDate("2025-02-01"), "GOOG",
			folio.Q(10.0), folio.M(2900.0, "USD"), "test"),
	)

	engine, err := folio.NewEngine(ledger, folio.NewMarketData(), nil, "USD")
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	md := PositionsMarkdown(engine.Valuation())
	if !strings.Contains(md, "## Skipped") || !strings.Contains(md, "GOOG") {
		t.Errorf("PositionsMarkdown() should list the oversold ticker under Skipped:\n%s", md)
	}
}

func TestDividendsMarkdown(t *testing.T) {
	records := []folio.DividendRecord{
		{
			Ticker:   "AAPL",
			ExDate:   folio.MustParseDate("2025-03-01"),
			Year:     2025,
			Shares:   folio.Q(100.0),
			PerShare: folio.M(0.5, "USD"),
			Gross:    folio.M(50.0, "USD"),
			WHTRate:  0.30,
			WHT:      folio.M(15.0, "USD"),
			Net:      folio.M(35.0, "USD"),
			NetBase:  folio.M(45.5, "SGD"),
		},
	}

	md := DividendsMarkdown(records, "SGD")
	for _, want := range []string{"AAPL", "2025-03-01", "(30%)", "## By Year", "| 2025 |"} {
		if !strings.Contains(md, want) {
			t.Errorf("DividendsMarkdown() missing %q:\n%s", want, md)
		}
	}
}

func TestPerformanceMarkdown_Unavailable(t *testing.T) {
	report := &folio.PerformanceReport{
		Base:       "SGD",
		Available:  false,
		Benchmarks: []folio.BenchmarkResult{{Ticker: "VOO", Rate: 0.12, Available: true}},
	}
	md := PerformanceMarkdown(report)
	if !strings.Contains(md, "n/a") {
		t.Errorf("PerformanceMarkdown() should print n/a for an unavailable rate:\n%s", md)
	}
	if !strings.Contains(md, "+12.00%") {
		t.Errorf("PerformanceMarkdown() should print the benchmark rate:\n%s", md)
	}
}
