package folio

import (
	"strings"
	"time"
)

// DefaultBaseCurrency is the reporting currency used when none is configured.
const DefaultBaseCurrency = "SGD"

// QuoteTTL is how long a fetched quote or rate stays fresh in caches.
const QuoteTTL = 5 * time.Minute

// DefaultBenchmarks are the tickers offered for performance comparison.
var DefaultBenchmarks = []string{"VOO", "QQQ", "ES3.SI", "IWDA.L"}

// withholdingTaxRates maps an issuing country to the dividend withholding
// tax rate applied at source for a Singapore-resident individual investor.
var withholdingTaxRates = map[string]float64{
	"US": 0.30,
	"SG": 0.00,
	"HK": 0.00,
	"GB": 0.00,
	"AU": 0.30,
	"CA": 0.25,
	"JP": 0.15,
}

// defaultWithholdingRate applies to countries absent from the table.
const defaultWithholdingRate = 0.30

// WithholdingRate returns the dividend withholding tax rate for an issuing
// country code, or the conservative default for an unknown country.
func WithholdingRate(country string) float64 {
	if rate, ok := withholdingTaxRates[strings.ToUpper(country)]; ok {
		return rate
	}
	return defaultWithholdingRate
}

// suffixCurrency maps a ticker's exchange suffix to its trading currency.
var suffixCurrency = map[string]string{
	".SI": "SGD",
	".HK": "HKD",
	".L":  "GBP",
	".AX": "AUD",
	".TO": "CAD",
	".T":  "JPY",
}

// suffixCountry maps a ticker's exchange suffix to its issuing country.
var suffixCountry = map[string]string{
	".SI": "SG",
	".HK": "HK",
	".L":  "GB",
	".AX": "AU",
	".TO": "CA",
	".T":  "JP",
}

func tickerSuffix(ticker string) string {
	if i := strings.LastIndex(ticker, "."); i >= 0 {
		return strings.ToUpper(ticker[i:])
	}
	return ""
}

// GuessCurrency infers a ticker's trading currency from its exchange
// suffix. An unsuffixed ticker is assumed to trade on a US exchange in USD.
func GuessCurrency(ticker string) string {
	if cur, ok := suffixCurrency[tickerSuffix(ticker)]; ok {
		return cur
	}
	return "USD"
}

// GuessCountry infers a ticker's issuing country from its exchange suffix.
// An unsuffixed ticker is assumed US.
func GuessCountry(ticker string) string {
	if c, ok := suffixCountry[tickerSuffix(ticker)]; ok {
		return c
	}
	return "US"
}
