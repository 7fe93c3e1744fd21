package folio

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMarketData_PriceAsOf(t *testing.T) {
	m := NewMarketData()
	m.SetQuote("AAPL", USD(180))
	m.AddPrice("AAPL", day("2025-01-10"), decimal.NewFromInt(150))
	m.AddPrice("AAPL", day("2025-01-17"), decimal.NewFromInt(155))

	testCases := []struct {
		name    string
		on      string
		want    float64
		missing bool
	}{
		{name: "before any price", on: "2025-01-09", missing: true},
		{name: "exact day", on: "2025-01-10", want: 150},
		{name: "between prices carries the last one", on: "2025-01-14", want: 150},
		{name: "after the last price", on: "2025-02-01", want: 155},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := m.PriceAsOf("AAPL", day(tc.on))
			if tc.missing {
				var missing *MissingMarketDataError
				if !errors.As(err, &missing) {
					t.Fatalf("PriceAsOf() error = %v, want *MissingMarketDataError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PriceAsOf() error = %v", err)
			}
			if !got.Equal(USD(tc.want)) {
				t.Errorf("PriceAsOf(%s) = %s, want %v", tc.on, got, tc.want)
			}
		})
	}
}

func TestMarketData_RateInversePair(t *testing.T) {
	m := NewMarketData()
	m.SetLiveRate("SGD", "USD", decimal.NewFromFloat(0.8))

	got, ok := m.LiveRate("USD", "SGD")
	if !ok {
		t.Fatal("LiveRate() should derive the inverse pair")
	}
	if !got.Equal(decimal.NewFromFloat(1.25)) {
		t.Errorf("LiveRate(USD, SGD) = %s, want 1.25", got)
	}

	m.AddRate("SGD", "USD", day("2025-01-10"), decimal.NewFromFloat(0.8))
	hist, ok := m.RateAsOf("USD", "SGD", day("2025-02-01"))
	if !ok {
		t.Fatal("RateAsOf() should derive the inverse pair")
	}
	if !hist.Equal(decimal.NewFromFloat(1.25)) {
		t.Errorf("RateAsOf(USD, SGD) = %s, want 1.25", hist)
	}
}

func TestMarketData_CurrencyAndCountryFallBackToSuffix(t *testing.T) {
	m := NewMarketData()
	m.SetQuote("D05.SI", M(35.0, "SGD"))

	testCases := []struct {
		ticker       string
		wantCurrency string
		wantCountry  string
	}{
		{ticker: "D05.SI", wantCurrency: "SGD", wantCountry: "SG"},
		{ticker: "0700.HK", wantCurrency: "HKD", wantCountry: "HK"},
		{ticker: "IWDA.L", wantCurrency: "GBP", wantCountry: "GB"},
		{ticker: "AAPL", wantCurrency: "USD", wantCountry: "US"},
	}
	for _, tc := range testCases {
		t.Run(tc.ticker, func(t *testing.T) {
			if got := m.Currency(tc.ticker); got != tc.wantCurrency {
				t.Errorf("Currency(%s) = %s, want %s", tc.ticker, got, tc.wantCurrency)
			}
			if got := m.Country(tc.ticker); got != tc.wantCountry {
				t.Errorf("Country(%s) = %s, want %s", tc.ticker, got, tc.wantCountry)
			}
		})
	}
}

func TestMarketData_SetDividendsSortsByExDate(t *testing.T) {
	m := NewMarketData()
	m.SetDividends("AAPL", []DividendEvent{
		{ExDate: day("2025-06-01"), PerShare: USD(0.25)},
		{ExDate: day("2025-03-01"), PerShare: USD(0.25)},
	})
	divs := m.Dividends("AAPL")
	if len(divs) != 2 || divs[0].ExDate != day("2025-03-01") {
		t.Errorf("Dividends() not sorted by ex-date: %v", divs)
	}
}

func TestWithholdingRate(t *testing.T) {
	testCases := []struct {
		country string
		want    float64
	}{
		{country: "US", want: 0.30},
		{country: "SG", want: 0.00},
		{country: "JP", want: 0.15},
		{country: "CA", want: 0.25},
		{country: "XX", want: 0.30}, // unknown: conservative default
	}
	for _, tc := range testCases {
		if got := WithholdingRate(tc.country); got != tc.want {
			t.Errorf("WithholdingRate(%s) = %v, want %v", tc.country, got, tc.want)
		}
	}
}
