package folio

// SGD is a helper for test to create Singapore dollar money from const
func SGD(v float64) Money { return M(v, "SGD") }

// USD is a helper for test to create US dollar money from const
func USD(v float64) Money { return M(v, "USD") }

// day is a helper for test to parse a date from const
func day(s string) Date { return MustParseDate(s) }

// qty is a helper for test to create a quantity from const
func qty(v float64) Quantity { return Q(v) }

// buy and sell build single-ticker USD trades with the test defaults.
func buy(date string, ticker string, quantity, price float64) Transaction {
	return NewBuy(day(date), ticker, qty(quantity), USD(price), "test")
}

func sell(date string, ticker string, quantity, price float64) Transaction {
	return NewSell(day(date), ticker, qty(quantity), USD(price), "test")
}
