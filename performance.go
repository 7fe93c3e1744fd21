package folio

import (
	"math"

	"github.com/shopspring/decimal"
)

// BenchmarkResult is the simulated money-weighted return of one benchmark
// over the portfolio's own flows.
type BenchmarkResult struct {
	Ticker    string
	Rate      float64
	Available bool
}

// PerformanceReport is the portfolio's money-weighted return next to the
// same flows replayed into each benchmark.
type PerformanceReport struct {
	Base       string
	Rate       float64
	Available  bool
	Flows      []CashFlow
	Benchmarks []BenchmarkResult
}

// Flows builds the portfolio's dated cash flows in base: purchases
// negative, sales and net dividends positive, each converted at its own
// date's rate, closed by the current market value as a terminal inflow.
func (e *Engine) Flows() ([]CashFlow, error) {
	var flows []CashFlow
	for _, tx := range e.ledger.Transactions() {
		res := e.fx.Effective(tx, e.base)
		amt := tx.Cost().Exchange(res.Rate, e.base).Float64()
		switch tx.Side {
		case Buy:
			flows = append(flows, CashFlow{Date: tx.Date, Amount: -amt})
		case Sell:
			flows = append(flows, CashFlow{Date: tx.Date, Amount: amt})
		}
	}

	for _, ticker := range e.ledger.Tickers() {
		txs := e.ledger.TickerTransactions(ticker, Date{})
		divs, err := ComputeDividends(ticker, txs, e.market.Dividends(ticker), e.market.Country(ticker), e.base, e.fx)
		if err != nil {
			return nil, err
		}
		for _, d := range divs {
			if d.NetBase.IsPositive() {
				flows = append(flows, CashFlow{Date: d.ExDate, Amount: d.NetBase.Float64()})
			}
		}
	}

	v := e.Valuation()
	if total := v.TotalMarketValue(); total.IsPositive() {
		flows = append(flows, CashFlow{Date: Today(), Amount: total.Float64()})
	}
	return flows, nil
}

// Performance computes the portfolio's annualized money-weighted return and
// simulates the same flows into each benchmark. A benchmark that cannot be
// simulated reports as unavailable rather than failing the report.
func (e *Engine) Performance(benchmarks ...string) (*PerformanceReport, error) {
	flows, err := e.Flows()
	if err != nil {
		return nil, err
	}
	rate, ok := XIRR(flows)
	report := &PerformanceReport{
		Base:      e.base,
		Rate:      rate,
		Available: ok,
		Flows:     flows,
	}
	for _, bench := range benchmarks {
		report.Benchmarks = append(report.Benchmarks, e.SimulateBenchmark(bench))
	}
	return report, nil
}

// SimulateBenchmark replays the portfolio's trades as if every base amount
// had bought the benchmark instead, on the same dates.
//
// Buys convert the trade's base amount into benchmark shares at that day's
// price. Sells liquidate the same fraction of the ticker's accumulated
// benchmark shares as the trade sold of the actual holding. Trades on days
// with no benchmark price are skipped, matching a benchmark not yet listed.
// The remaining shares close the simulation at the live quote.
func (e *Engine) SimulateBenchmark(bench string) BenchmarkResult {
	benchCur := e.market.Currency(bench)
	benchShares := make(map[string]float64) // per portfolio ticker
	held := make(map[string]float64)
	var flows []CashFlow

	for _, tx := range e.ledger.Transactions() {
		price, err := e.market.PriceAsOf(bench, tx.Date)
		if err != nil {
			continue
		}
		rate := e.fx.Resolve(benchCur, e.base, tx.Date, decimal.Decimal{}, decimal.Decimal{}).Rate
		priceBase := price.Float64() * rate.InexactFloat64()
		if priceBase <= 0 {
			continue
		}

		res := e.fx.Effective(tx, e.base)
		amtBase := tx.Cost().Exchange(res.Rate, e.base).Float64()

		switch tx.Side {
		case Buy:
			benchShares[tx.Ticker] += amtBase / priceBase
			held[tx.Ticker] += tx.Quantity.Float64()
			flows = append(flows, CashFlow{Date: tx.Date, Amount: -amtBase})
		case Sell:
			before := held[tx.Ticker]
			if before <= 0 {
				continue
			}
			fraction := math.Min(tx.Quantity.Float64()/before, 1)
			sold := benchShares[tx.Ticker] * fraction
			benchShares[tx.Ticker] -= sold
			held[tx.Ticker] -= tx.Quantity.Float64()
			flows = append(flows, CashFlow{Date: tx.Date, Amount: sold * priceBase})
		}
	}

	var remaining float64
	for _, s := range benchShares {
		remaining += s
	}
	if remaining > 0 {
		if quote, err := e.market.LivePrice(bench); err == nil {
			live := e.fx.Resolve(benchCur, e.base, Date{}, decimal.Decimal{}, decimal.Decimal{}).Rate
			flows = append(flows, CashFlow{Date: Today(), Amount: remaining * quote.Float64() * live.InexactFloat64()})
		}
	}

	rate, ok := XIRR(flows)
	return BenchmarkResult{Ticker: bench, Rate: rate, Available: ok}
}

// SeriesPoint is the portfolio state sampled on one day, in base: the net
// amount invested so far, the cost basis of the open lots, and the market
// value at that day's prices and rates.
type SeriesPoint struct {
	Date      Date
	Invested  Money
	CostBasis Money
	Value     Money
}

// ValueSeries samples the portfolio through the range at the given period.
// Each point is valued with that day's historical prices and rates; tickers
// with no price on a day contribute nothing to that point's value.
func (e *Engine) ValueSeries(rng Range, period Period) ([]SeriesPoint, error) {
	tickers := e.ledger.Tickers()
	var series []SeriesPoint
	for day := range rng.Sample(period) {
		pt := SeriesPoint{
			Date:      day,
			Invested:  M(decimal.Zero, e.base),
			CostBasis: M(decimal.Zero, e.base),
			Value:     M(decimal.Zero, e.base),
		}
		for _, ticker := range tickers {
			txs := e.ledger.TickerTransactions(ticker, day)
			if len(txs) == 0 {
				continue
			}
			open, _, err := Replay(txs)
			if err != nil {
				return nil, err
			}

			for _, tx := range txs {
				res := e.fx.Effective(tx, e.base)
				amt := tx.Cost().Exchange(res.Rate, e.base)
				switch tx.Side {
				case Buy:
					pt.Invested = pt.Invested.Add(amt)
				case Sell:
					pt.Invested = pt.Invested.Sub(amt)
				}
			}

			cur := e.market.Currency(ticker)
			dayRate := e.fx.Resolve(cur, e.base, day, decimal.Decimal{}, decimal.Decimal{}).Rate
			pt.CostBasis = pt.CostBasis.Add(CostBasis(open).Exchange(dayRate, e.base))

			shares := OpenQuantity(open)
			if shares.IsZero() {
				continue
			}
			price, err := e.market.PriceAsOf(ticker, day)
			if err != nil {
				continue
			}
			pt.Value = pt.Value.Add(price.Mul(shares).Exchange(dayRate, e.base))
		}
		series = append(series, pt)
	}
	return series, nil
}

// BenchmarkSeries samples the simulated benchmark holding through the range
// at the given period, valuing the accumulated shares with each day's
// historical price and rate.
func (e *Engine) BenchmarkSeries(bench string, rng Range, period Period) []SeriesPoint {
	benchCur := e.market.Currency(bench)
	benchShares := make(map[string]float64)
	held := make(map[string]float64)
	invested := 0.0

	txs := make([]Transaction, 0, e.ledger.Len())
	for _, tx := range e.ledger.Transactions() {
		txs = append(txs, tx)
	}

	var series []SeriesPoint
	next := 0
	for day := range rng.Sample(period) {
		for next < len(txs) && !txs[next].Date.After(day) {
			tx := txs[next]
			next++
			price, err := e.market.PriceAsOf(bench, tx.Date)
			if err != nil {
				continue
			}
			rate := e.fx.Resolve(benchCur, e.base, tx.Date, decimal.Decimal{}, decimal.Decimal{}).Rate
			priceBase := price.Float64() * rate.InexactFloat64()
			if priceBase <= 0 {
				continue
			}
			res := e.fx.Effective(tx, e.base)
			amtBase := tx.Cost().Exchange(res.Rate, e.base).Float64()
			switch tx.Side {
			case Buy:
				benchShares[tx.Ticker] += amtBase / priceBase
				held[tx.Ticker] += tx.Quantity.Float64()
				invested += amtBase
			case Sell:
				before := held[tx.Ticker]
				if before <= 0 {
					continue
				}
				fraction := math.Min(tx.Quantity.Float64()/before, 1)
				sold := benchShares[tx.Ticker] * fraction
				benchShares[tx.Ticker] -= sold
				held[tx.Ticker] -= tx.Quantity.Float64()
				invested -= sold * priceBase
			}
		}

		pt := SeriesPoint{
			Date:      day,
			Invested:  M(decimal.NewFromFloat(invested), e.base),
			CostBasis: M(decimal.NewFromFloat(invested), e.base),
			Value:     M(decimal.Zero, e.base),
		}
		var total float64
		for _, s := range benchShares {
			total += s
		}
		if total > 0 {
			if price, err := e.market.PriceAsOf(bench, day); err == nil {
				rate := e.fx.Resolve(benchCur, e.base, day, decimal.Decimal{}, decimal.Decimal{}).Rate
				pt.Value = M(decimal.NewFromFloat(total*price.Float64()*rate.InexactFloat64()), e.base)
			}
		}
		series = append(series, pt)
	}
	return series
}
