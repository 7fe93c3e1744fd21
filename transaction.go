package folio

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Side identifies the direction of a trade.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// ParseSide parses a string into a Side.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	default:
		return "", fmt.Errorf("unknown transaction side: %q", s)
	}
}

// Transaction is one immutable record of the trade ledger.
//
// Price is the per-share execution price in the security's native currency.
// FXRate is the rate to the base currency recorded with the trade (zero when
// unknown); FXOverride, when positive, takes precedence over every other
// source of rate, see [Resolver.Effective].
type Transaction struct {
	Date       Date
	Ticker     string
	Side       Side
	Price      Money
	Quantity   Quantity
	Broker     string
	FXRate     decimal.Decimal
	FXOverride decimal.Decimal
	Memo       string
}

// NewBuy creates a new BUY transaction.
func NewBuy(day Date, ticker string, quantity Quantity, price Money, broker string) Transaction {
	return Transaction{Date: day, Ticker: ticker, Side: Buy, Price: price, Quantity: quantity, Broker: broker}
}

// NewSell creates a new SELL transaction.
func NewSell(day Date, ticker string, quantity Quantity, price Money, broker string) Transaction {
	return Transaction{Date: day, Ticker: ticker, Side: Sell, Price: price, Quantity: quantity, Broker: broker}
}

// Currency returns the native currency of the trade.
func (t Transaction) Currency() string { return t.Price.Currency() }

// Cost returns price times quantity in the native currency.
func (t Transaction) Cost() Money { return t.Price.Mul(t.Quantity) }

// Key is the identity tuple of a transaction, used for deduplication.
// Re-ingesting a transaction with an identical key must not create a
// duplicate. Price and Quantity are held as canonical strings so the key
// is comparable.
type Key struct {
	Date     Date
	Ticker   string
	Side     Side
	Broker   string
	Price    string
	Quantity string
}

// Key returns the transaction's identity tuple.
func (t Transaction) Key() Key {
	return Key{
		Date:     t.Date,
		Ticker:   t.Ticker,
		Side:     t.Side,
		Broker:   t.Broker,
		Price:    t.Price.Amount().String(),
		Quantity: t.Quantity.String(),
	}
}

func (t Transaction) Equal(o Transaction) bool {
	return t.Key() == o.Key() &&
		t.Price.Equal(o.Price) &&
		t.FXRate.Equal(o.FXRate) &&
		t.FXOverride.Equal(o.FXOverride) &&
		t.Memo == o.Memo
}

// Validate checks the transaction's fields for correctness.
func (t Transaction) Validate() error {
	if t.Ticker == "" {
		return errors.New("transaction ticker is missing")
	}
	if t.Side != Buy && t.Side != Sell {
		return fmt.Errorf("invalid transaction side %q", t.Side)
	}
	if t.Date.IsZero() {
		return errors.New("transaction date is missing")
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("transaction quantity must be positive, got %s", t.Quantity)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("transaction price must be positive, got %s", t.Price.Amount())
	}
	if t.Currency() != "" {
		if err := ValidateCurrency(t.Currency()); err != nil {
			return fmt.Errorf("invalid transaction currency: %w", err)
		}
	}
	return nil
}

// transactionJSON is a specialized struct for the flat wire representation
// where the price amount and its currency are separate fields.
type transactionJSON struct {
	Date       Date            `json:"date"`
	Ticker     string          `json:"ticker"`
	Side       Side            `json:"side"`
	Price      decimal.Decimal `json:"price"`
	Quantity   Quantity        `json:"quantity"`
	Broker     string          `json:"broker"`
	Currency   string          `json:"currency,omitempty"`
	FXRate     decimal.Decimal `json:"fxRate,omitempty"`
	FXOverride decimal.Decimal `json:"fxOverride,omitempty"`
	Memo       string          `json:"memo,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		Date:       t.Date,
		Ticker:     t.Ticker,
		Side:       t.Side,
		Price:      t.Price.Amount(),
		Quantity:   t.Quantity,
		Broker:     t.Broker,
		Currency:   t.Currency(),
		FXRate:     t.FXRate,
		FXOverride: t.FXOverride,
		Memo:       t.Memo,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp transactionJSON
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	t.Date = temp.Date
	t.Ticker = temp.Ticker
	t.Side = temp.Side
	t.Price = M(temp.Price, temp.Currency)
	t.Quantity = temp.Quantity
	t.Broker = temp.Broker
	t.FXRate = temp.FXRate
	t.FXOverride = temp.FXOverride
	t.Memo = temp.Memo
	return nil
}
