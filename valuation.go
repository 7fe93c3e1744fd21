package folio

import (
	"github.com/shopspring/decimal"
)

// Position is the full replayed state of one security: open and closed lots,
// dividend records, the latest quote, and the live rate to base. All base
// figures of a position use the live rate; only dividends, already converted
// at their ex-dates, keep their historical conversion.
//
// A position with no quote available is degraded, not dropped: its replayed
// figures stand and its market-dependent ones read zero, with QuoteErr
// saying why.
type Position struct {
	Ticker    string
	Base      string
	Open      []Lot
	Closed    []ClosedLot
	Dividends []DividendRecord
	Quote     Money
	FX        Resolution
	QuoteErr  error
}

// Shares returns the quantity currently held.
func (p *Position) Shares() Quantity { return OpenQuantity(p.Open) }

// CostBasisNative returns the FIFO cost of the open lots in the security's
// native currency.
func (p *Position) CostBasisNative() Money { return CostBasis(p.Open) }

// AvgCostNative returns the average cost per held share in the security's
// native currency, or zero when nothing is held.
func (p *Position) AvgCostNative() Money {
	shares := p.Shares()
	if shares.IsZero() {
		return p.CostBasisNative()
	}
	return p.CostBasisNative().Div(shares)
}

// CostBasisBase returns the FIFO cost of the open lots in base, at the
// live rate.
func (p *Position) CostBasisBase() Money {
	return p.CostBasisNative().Exchange(p.FX.Rate, p.Base)
}

// InvestmentNative returns the total native cost of every purchase, sold
// or still held.
func (p *Position) InvestmentNative() Money {
	total := p.CostBasisNative()
	for _, c := range p.Closed {
		total = total.Add(c.Cost)
	}
	return total
}

// InvestmentBase returns the total purchase cost in base, at the live rate.
func (p *Position) InvestmentBase() Money {
	return p.InvestmentNative().Exchange(p.FX.Rate, p.Base)
}

// MarketValueNative returns shares times the latest quote, or zero when the
// quote is missing.
func (p *Position) MarketValueNative() Money {
	if p.QuoteErr != nil {
		return Money{}
	}
	return p.Quote.Mul(p.Shares())
}

// MarketValueBase returns the market value in base, at the live rate.
func (p *Position) MarketValueBase() Money {
	if p.QuoteErr != nil {
		return M(decimal.Zero, p.Base)
	}
	return p.MarketValueNative().Exchange(p.FX.Rate, p.Base)
}

// RealizedBase returns the realized gain of the closed lots in base, at the
// live rate.
func (p *Position) RealizedBase() Money {
	return RealizedNative(p.Closed).Exchange(p.FX.Rate, p.Base)
}

// NetDividendsBase returns the net dividends received, converted at each
// ex-date's historical rate.
func (p *Position) NetDividendsBase() Money {
	return TotalNetBase(p.Dividends, p.Base)
}

// UnrealizedBase returns market value minus cost basis in base, or zero
// when the quote is missing.
func (p *Position) UnrealizedBase() Money {
	if p.QuoteErr != nil {
		return M(decimal.Zero, p.Base)
	}
	return p.MarketValueBase().Sub(p.CostBasisBase())
}

// TotalPNLBase returns unrealized plus realized gains plus net dividends,
// in base.
func (p *Position) TotalPNLBase() Money {
	return p.UnrealizedBase().Add(p.RealizedBase()).Add(p.NetDividendsBase())
}

// PNLPercent returns the total gain as a percentage of the total amount
// ever invested. Zero investment yields zero.
func (p *Position) PNLPercent() Percent {
	invested := p.InvestmentBase()
	if invested.IsZero() {
		return 0
	}
	return Percent(100 * p.TotalPNLBase().Float64() / invested.Float64())
}

// Valuation is the portfolio-wide picture on a day: one position per ticker
// plus, per ticker that could not be replayed at all, the error that
// stopped it. A ticker failing never fails the batch.
type Valuation struct {
	Base      string
	On        Date
	Positions []Position
	Failures  map[string]error
}

func (v *Valuation) sum(each func(*Position) Money) Money {
	total := M(decimal.Zero, v.Base)
	for i := range v.Positions {
		total = total.Add(each(&v.Positions[i]))
	}
	return total
}

// TotalMarketValue returns the portfolio market value in base. Degraded
// positions contribute zero.
func (v *Valuation) TotalMarketValue() Money {
	return v.sum((*Position).MarketValueBase)
}

// TotalCostBasis returns the portfolio cost basis in base.
func (v *Valuation) TotalCostBasis() Money {
	return v.sum((*Position).CostBasisBase)
}

// TotalInvestment returns the total amount ever invested, in base.
func (v *Valuation) TotalInvestment() Money {
	return v.sum((*Position).InvestmentBase)
}

// TotalUnrealized returns the portfolio unrealized gain in base.
func (v *Valuation) TotalUnrealized() Money {
	return v.sum((*Position).UnrealizedBase)
}

// TotalRealized returns the portfolio realized gain in base.
func (v *Valuation) TotalRealized() Money {
	return v.sum((*Position).RealizedBase)
}

// TotalDividends returns the portfolio net dividends in base.
func (v *Valuation) TotalDividends() Money {
	return v.sum((*Position).NetDividendsBase)
}

// TotalPNL returns the portfolio total gain in base.
func (v *Valuation) TotalPNL() Money {
	return v.sum((*Position).TotalPNLBase)
}

// PNLPercent returns the portfolio gain as a percentage of the total
// invested.
func (v *Valuation) PNLPercent() Percent {
	invested := v.TotalInvestment()
	if invested.IsZero() {
		return 0
	}
	return Percent(100 * v.TotalPNL().Float64() / invested.Float64())
}
