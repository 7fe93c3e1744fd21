package folio

import (
	"github.com/shopspring/decimal"
)

// DividendRecord is the outcome of replaying one dividend event against the
// ledger: the shares held on the ex-date, the gross entitlement, the
// withholding tax taken at source, and the net amount in both the native
// and the base currency.
//
// Events on days with no shares held are kept, with zero amounts, so the
// report shows every declared dividend rather than silently skipping the
// ones that predate the first purchase.
type DividendRecord struct {
	Ticker   string
	ExDate   Date
	Year     int
	Shares   Quantity
	PerShare Money
	Gross    Money
	WHTRate  float64
	WHT      Money
	Net      Money
	NetBase  Money
	FX       Resolution
}

// ComputeDividends replays the security's dividend events against its
// transactions. Shares held are counted on each ex-date, withholding tax is
// applied by issuing country, and the net amount is converted to base at
// the ex-date's historical rate.
func ComputeDividends(ticker string, txs []Transaction, events []DividendEvent, country, base string, fx *Resolver) ([]DividendRecord, error) {
	whtRate := WithholdingRate(country)
	taxRate := decimal.NewFromFloat(whtRate)

	var records []DividendRecord
	for _, ev := range events {
		shares, err := HeldOn(txs, ev.ExDate)
		if err != nil {
			return nil, err
		}

		gross := ev.PerShare.Mul(shares)
		wht := gross.Scale(taxRate)
		net := gross.Sub(wht)

		res := fx.Resolve(ev.PerShare.Currency(), base, ev.ExDate, decimal.Decimal{}, decimal.Decimal{})
		records = append(records, DividendRecord{
			Ticker:   ticker,
			ExDate:   ev.ExDate,
			Year:     ev.ExDate.Year(),
			Shares:   shares,
			PerShare: ev.PerShare,
			Gross:    gross,
			WHTRate:  whtRate,
			WHT:      wht,
			Net:      net,
			NetBase:  net.Exchange(res.Rate, base),
			FX:       res,
		})
	}
	return records, nil
}

// TotalNetBase sums the records' net dividends in the base currency.
func TotalNetBase(records []DividendRecord, base string) Money {
	total := M(decimal.Zero, base)
	for _, r := range records {
		total = total.Add(r.NetBase)
	}
	return total
}

// DividendsByYear groups the records' net base amounts by ex-date year.
func DividendsByYear(records []DividendRecord, base string) map[int]Money {
	byYear := make(map[int]Money)
	for _, r := range records {
		total, ok := byYear[r.Year]
		if !ok {
			total = M(decimal.Zero, base)
		}
		byYear[r.Year] = total.Add(r.NetBase)
	}
	return byYear
}
