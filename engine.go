package folio

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Engine computes portfolio figures by replaying the ledger against a
// market data snapshot. It holds no derived state: every call recomputes
// from the ledger, so two engines over the same inputs agree.
type Engine struct {
	ledger *Ledger
	market *MarketData
	fx     *Resolver
	base   string
}

// NewEngine creates an engine over a ledger and a market snapshot,
// reporting in the base currency. The store may be nil; rates then resolve
// from the snapshot alone.
func NewEngine(ledger *Ledger, market *MarketData, store RateStore, base string) (*Engine, error) {
	if base == "" {
		base = DefaultBaseCurrency
	}
	if err := ValidateCurrency(base); err != nil {
		return nil, fmt.Errorf("invalid base currency: %w", err)
	}
	return &Engine{
		ledger: ledger,
		market: market,
		fx:     NewResolver(store, market, QuoteTTL),
		base:   base,
	}, nil
}

// Base returns the engine's reporting currency.
func (e *Engine) Base() string { return e.base }

// Ledger returns the engine's ledger.
func (e *Engine) Ledger() *Ledger { return e.ledger }

// Resolver returns the engine's rate resolver.
func (e *Engine) Resolver() *Resolver { return e.fx }

// Position replays one ticker's transactions into its full position:
// FIFO lots, dividend records, latest quote and live rate to base.
func (e *Engine) Position(ticker string, filters ...func(Transaction) bool) (*Position, error) {
	filters = append(filters, ByTicker(ticker))
	var txs []Transaction
	for _, tx := range e.ledger.Transactions(filters...) {
		txs = append(txs, tx)
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("no transactions for %s", ticker)
	}

	open, closed, err := Replay(txs)
	if err != nil {
		return nil, err
	}

	divs, err := ComputeDividends(ticker, txs, e.market.Dividends(ticker), e.market.Country(ticker), e.base, e.fx)
	if err != nil {
		return nil, err
	}

	p := &Position{
		Ticker:    ticker,
		Base:      e.base,
		Open:      open,
		Closed:    closed,
		Dividends: divs,
	}

	cur := e.market.Currency(ticker)
	p.FX = e.fx.Resolve(cur, e.base, Date{}, decimal.Decimal{}, decimal.Decimal{})
	p.Quote, p.QuoteErr = e.market.LivePrice(ticker)
	return p, nil
}

// Valuation replays every ticker matching the filters into the portfolio
// picture. A ticker that cannot be replayed is reported under Failures and
// the batch continues.
func (e *Engine) Valuation(filters ...func(Transaction) bool) *Valuation {
	v := &Valuation{
		Base:     e.base,
		On:       Today(),
		Failures: make(map[string]error),
	}
	for _, ticker := range e.tickers(filters...) {
		p, err := e.Position(ticker, filters...)
		if err != nil {
			v.Failures[ticker] = err
			continue
		}
		v.Positions = append(v.Positions, *p)
	}
	return v
}

func (e *Engine) tickers(filters ...func(Transaction) bool) []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, tx := range e.ledger.Transactions(filters...) {
		if !seen[tx.Ticker] {
			seen[tx.Ticker] = true
			tickers = append(tickers, tx.Ticker)
		}
	}
	return tickers
}
