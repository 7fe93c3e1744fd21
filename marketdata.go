package folio

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// DividendEvent is one dividend declared by a security: the per-share gross
// amount, in the security's native currency, going ex on ExDate.
type DividendEvent struct {
	ExDate   Date
	PerShare Money
}

// MissingMarketDataError reports a quote, price or rate the snapshot does
// not hold. Valuation treats it as a per-position degradation, not a batch
// failure.
type MissingMarketDataError struct {
	Ticker string
	What   string // "quote", "price", "rate"
	On     Date
}

func (e *MissingMarketDataError) Error() string {
	if e.On.IsZero() {
		return fmt.Sprintf("no %s for %s", e.What, e.Ticker)
	}
	return fmt.Sprintf("no %s for %s on %s", e.What, e.Ticker, e.On)
}

func pairKey(from, to string) string { return from + "/" + to }

// MarketData is an in-memory snapshot of quotes, price histories, exchange
// rates and dividend events, keyed by ticker and currency pair. The engine
// reads it; providers and stores fill it. A snapshot never reaches out to
// the network, so engine runs are reproducible.
type MarketData struct {
	quotes     map[string]Money
	prices     map[string]*History
	liveRates  map[string]decimal.Decimal
	rates      map[string]*History
	dividends  map[string][]DividendEvent
	countries  map[string]string
	currencies map[string]string
}

// NewMarketData creates an empty market data snapshot.
func NewMarketData() *MarketData {
	return &MarketData{
		quotes:     make(map[string]Money),
		prices:     make(map[string]*History),
		liveRates:  make(map[string]decimal.Decimal),
		rates:      make(map[string]*History),
		dividends:  make(map[string][]DividendEvent),
		countries:  make(map[string]string),
		currencies: make(map[string]string),
	}
}

// SetQuote records a security's latest traded price.
func (m *MarketData) SetQuote(ticker string, price Money) {
	m.quotes[ticker] = price
	m.currencies[ticker] = price.Currency()
}

// AddPrice records a security's closing price on a day.
func (m *MarketData) AddPrice(ticker string, on Date, price decimal.Decimal) {
	h, ok := m.prices[ticker]
	if !ok {
		h = &History{}
		m.prices[ticker] = h
	}
	h.Append(on, price)
}

// SetLiveRate records the latest from->to exchange rate.
func (m *MarketData) SetLiveRate(from, to string, rate decimal.Decimal) {
	m.liveRates[pairKey(from, to)] = rate
}

// AddRate records the from->to exchange rate on a day.
func (m *MarketData) AddRate(from, to string, on Date, rate decimal.Decimal) {
	key := pairKey(from, to)
	h, ok := m.rates[key]
	if !ok {
		h = &History{}
		m.rates[key] = h
	}
	h.Append(on, rate)
}

// SetDividends records a security's dividend events.
func (m *MarketData) SetDividends(ticker string, events []DividendEvent) {
	sortDividends(events)
	m.dividends[ticker] = events
}

// sortDividends sorts dividend events by ex-date, oldest first.
func sortDividends(events []DividendEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].ExDate.Before(events[j].ExDate)
	})
}

// SetCountry records a security's issuing country.
func (m *MarketData) SetCountry(ticker, country string) {
	m.countries[ticker] = country
}

// LivePrice returns the security's latest traded price.
func (m *MarketData) LivePrice(ticker string) (Money, error) {
	if q, ok := m.quotes[ticker]; ok {
		return q, nil
	}
	return Money{}, &MissingMarketDataError{Ticker: ticker, What: "quote"}
}

// PriceAsOf returns the security's last closing price on or before a day.
func (m *MarketData) PriceAsOf(ticker string, on Date) (Money, error) {
	if h, ok := m.prices[ticker]; ok {
		if v, ok := h.AsOf(on); ok {
			return M(v, m.Currency(ticker)), nil
		}
	}
	return Money{}, &MissingMarketDataError{Ticker: ticker, What: "price", On: on}
}

// LiveRate returns the latest from->to exchange rate, trying the inverse
// pair when the direct one is not held.
func (m *MarketData) LiveRate(from, to string) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	if r, ok := m.liveRates[pairKey(from, to)]; ok && r.IsPositive() {
		return r, true
	}
	if r, ok := m.liveRates[pairKey(to, from)]; ok && r.IsPositive() {
		return decimal.NewFromInt(1).Div(r), true
	}
	return decimal.Decimal{}, false
}

// RateAsOf returns the from->to rate on or before a day, trying the inverse
// pair when the direct one is not held.
func (m *MarketData) RateAsOf(from, to string, on Date) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	if h, ok := m.rates[pairKey(from, to)]; ok {
		if r, ok := h.AsOf(on); ok && r.IsPositive() {
			return r, true
		}
	}
	if h, ok := m.rates[pairKey(to, from)]; ok {
		if r, ok := h.AsOf(on); ok && r.IsPositive() {
			return decimal.NewFromInt(1).Div(r), true
		}
	}
	return decimal.Decimal{}, false
}

// Dividends returns the security's dividend events, oldest first.
func (m *MarketData) Dividends(ticker string) []DividendEvent {
	return m.dividends[ticker]
}

// Country returns the security's issuing country, inferring it from the
// ticker suffix when the snapshot has no better answer.
func (m *MarketData) Country(ticker string) string {
	if c, ok := m.countries[ticker]; ok {
		return c
	}
	return GuessCountry(ticker)
}

// Currency returns the security's trading currency, inferring it from the
// ticker suffix when the snapshot has no better answer.
func (m *MarketData) Currency(ticker string) string {
	if c, ok := m.currencies[ticker]; ok && c != "" {
		return c
	}
	return GuessCurrency(ticker)
}

// FetchRate implements [RateSource] over the snapshot: a zero date returns
// the live rate, any other date the historical one.
func (m *MarketData) FetchRate(from, to string, on Date) (decimal.Decimal, bool) {
	if on.IsZero() {
		return m.LiveRate(from, to)
	}
	return m.RateAsOf(from, to, on)
}
