package folio

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// YahooProvider quotes securities, exchange rates and dividend events from
// the Yahoo Finance chart API. Responses go through the TTL disk cache, and
// requests are rate limited so a full snapshot load stays polite.
type YahooProvider struct {
	client  *http.Client
	limiter *rate.Limiter
	host    string
}

// NewYahooProvider creates a provider with the caching client and a limit
// of five requests per second.
func NewYahooProvider() *YahooProvider {
	return &YahooProvider{
		client:  cachingClient(),
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
		host:    "https://query1.finance.yahoo.com",
	}
}

func (p *YahooProvider) chart(ctx context.Context, symbol string, params url.Values) (any, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?%s", p.host, url.PathEscape(symbol), params.Encode())
	var jobj any
	if err := jwget(p.client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("error retrieving %q: %w", symbol, err)
	}
	return jobj, nil
}

// jpath evaluates a jsonpath and unwraps the single-element list the
// library sometimes returns instead of a scalar.
func jpath(jobj any, path string) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, err
	}
	if jlist, ok := jval.([]any); ok && len(jlist) == 1 {
		jval = jlist[0]
	}
	return jval, nil
}

// Quote returns the symbol's latest traded price and its quote currency.
func (p *YahooProvider) Quote(ctx context.Context, symbol string) (float64, string, error) {
	jobj, err := p.chart(ctx, symbol, url.Values{"range": {"1d"}, "interval": {"1d"}})
	if err != nil {
		return 0, "", err
	}
	jprice, err := jpath(jobj, "$.chart.result[0].meta.regularMarketPrice")
	if err != nil {
		return 0, "", fmt.Errorf("error parsing quote for %q: %w", symbol, err)
	}
	price, ok := jprice.(float64)
	if !ok {
		return 0, "", fmt.Errorf("quote for %q is not a number: %v", symbol, jprice)
	}
	currency := ""
	if jcur, err := jpath(jobj, "$.chart.result[0].meta.currency"); err == nil {
		currency, _ = jcur.(string)
	}
	return price, currency, nil
}

// ClosingPrices returns the symbol's daily closing prices over the range.
func (p *YahooProvider) ClosingPrices(ctx context.Context, symbol string, rng Range) (days []Date, closes []float64, err error) {
	jobj, err := p.chart(ctx, symbol, url.Values{
		"period1":  {fmt.Sprintf("%d", rng.From.Unix())},
		"period2":  {fmt.Sprintf("%d", rng.To.Add(1).Unix())},
		"interval": {"1d"},
	})
	if err != nil {
		return nil, nil, err
	}
	jstamps, err := jsonpath.Get("$.chart.result[0].timestamp", jobj)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing timestamps for %q: %w", symbol, err)
	}
	jcloses, err := jsonpath.Get("$.chart.result[0].indicators.quote[0].close", jobj)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing closes for %q: %w", symbol, err)
	}
	stamps, ok1 := jstamps.([]any)
	values, ok2 := jcloses.([]any)
	if !ok1 || !ok2 || len(stamps) != len(values) {
		return nil, nil, fmt.Errorf("mismatched price series for %q", symbol)
	}
	for i, jstamp := range stamps {
		stamp, ok := jstamp.(float64)
		if !ok {
			continue
		}
		close, ok := values[i].(float64)
		if !ok {
			continue // market holiday, null close
		}
		t := time.Unix(int64(stamp), 0).UTC()
		days = append(days, NewDate(t.Year(), t.Month(), t.Day()))
		closes = append(closes, close)
	}
	return days, closes, nil
}

// DividendEvents returns the symbol's dividend events over the range, in
// the given native currency.
func (p *YahooProvider) DividendEvents(ctx context.Context, symbol, currency string, rng Range) ([]DividendEvent, error) {
	jobj, err := p.chart(ctx, symbol, url.Values{
		"period1":  {fmt.Sprintf("%d", rng.From.Unix())},
		"period2":  {fmt.Sprintf("%d", rng.To.Add(1).Unix())},
		"interval": {"1d"},
		"events":   {"div"},
	})
	if err != nil {
		return nil, err
	}
	jdivs, err := jsonpath.Get("$.chart.result[0].events.dividends", jobj)
	if err != nil {
		return nil, nil // no dividends over the range
	}
	divs, ok := jdivs.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected dividend payload for %q", symbol)
	}
	var events []DividendEvent
	for _, jdiv := range divs {
		div, ok := jdiv.(map[string]any)
		if !ok {
			continue
		}
		amount, ok1 := div["amount"].(float64)
		stamp, ok2 := div["date"].(float64)
		if !ok1 || !ok2 {
			continue
		}
		t := time.Unix(int64(stamp), 0).UTC()
		events = append(events, DividendEvent{
			ExDate:   NewDate(t.Year(), t.Month(), t.Day()),
			PerShare: M(decimal.NewFromFloat(amount), currency),
		})
	}
	sortDividends(events)
	return events, nil
}

// Rate returns the latest from->to exchange rate, quoted as the "SGDUSD=X"
// style pair symbol.
func (p *YahooProvider) Rate(ctx context.Context, from, to string) (float64, error) {
	price, _, err := p.Quote(ctx, fxSymbol(from, to))
	return price, err
}

// RateHistory returns the daily from->to rates over the range.
func (p *YahooProvider) RateHistory(ctx context.Context, from, to string, rng Range) ([]Date, []float64, error) {
	return p.ClosingPrices(ctx, fxSymbol(from, to), rng)
}

func fxSymbol(from, to string) string { return from + to + "=X" }

// LoadMarketData builds a full snapshot for the ledger's tickers plus the
// benchmarks: live quotes, closing prices and dividends over the range, and
// the rates from every traded currency to base and to USD. A symbol that
// fails leaves a gap in the snapshot rather than failing the load; the
// engine degrades the affected figures.
func LoadMarketData(ctx context.Context, p *YahooProvider, ledger *Ledger, base string, benchmarks []string, rng Range) (*MarketData, error) {
	m := NewMarketData()

	tickers := ledger.Tickers()
	for _, bench := range benchmarks {
		tickers = append(tickers, bench)
	}

	currencies := map[string]bool{base: true, "USD": true}
	for _, ticker := range tickers {
		currency := GuessCurrency(ticker)
		if price, cur, err := p.Quote(ctx, ticker); err == nil {
			if cur != "" {
				currency = cur
			}
			m.SetQuote(ticker, M(decimal.NewFromFloat(price), currency))
		} else {
			log.Printf("no quote for %s: %v", ticker, err)
		}
		currencies[currency] = true
		m.SetCountry(ticker, GuessCountry(ticker))

		if days, closes, err := p.ClosingPrices(ctx, ticker, rng); err == nil {
			for i, day := range days {
				m.AddPrice(ticker, day, decimal.NewFromFloat(closes[i]))
			}
		} else {
			log.Printf("no price history for %s: %v", ticker, err)
		}

		if events, err := p.DividendEvents(ctx, ticker, currency, rng); err == nil {
			m.SetDividends(ticker, events)
		} else {
			log.Printf("no dividends for %s: %v", ticker, err)
		}
	}

	for from := range currencies {
		for _, to := range []string{base, "USD"} {
			if from == to {
				continue
			}
			if r, err := p.Rate(ctx, from, to); err == nil {
				m.SetLiveRate(from, to, decimal.NewFromFloat(r))
			} else {
				log.Printf("no live rate %s/%s: %v", from, to, err)
			}
			if days, rates, err := p.RateHistory(ctx, from, to, rng); err == nil {
				for i, day := range days {
					m.AddRate(from, to, day, decimal.NewFromFloat(rates[i]))
				}
			} else {
				log.Printf("no rate history %s/%s: %v", from, to, err)
			}
		}
	}
	return m, nil
}
