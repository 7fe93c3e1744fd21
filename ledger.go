package folio

import (
	"iter"
	"sort"
)

// Ledger is the chronologically sorted list of all transactions.
//
// The ledger is the single source of truth: every portfolio figure is
// recomputed from it by replay, nothing derived is stored. Appending is
// idempotent on the transaction identity tuple, so re-ingesting the same
// trades leaves the ledger unchanged.
type Ledger struct {
	transactions []Transaction
	index        map[Key]int
}

// NewLedger creates a new empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{index: make(map[Key]int)}
}

// Len returns the number of transactions in the ledger.
func (l *Ledger) Len() int { return len(l.transactions) }

// Append adds transactions to the ledger, skipping any whose identity tuple
// is already present, and keeps the ledger sorted. It returns the number of
// transactions actually added.
func (l *Ledger) Append(txs ...Transaction) int {
	added := 0
	for _, tx := range txs {
		k := tx.Key()
		if _, exists := l.index[k]; exists {
			continue
		}
		l.index[k] = len(l.transactions)
		l.transactions = append(l.transactions, tx)
		added++
	}
	if added > 0 {
		l.stableSort()
	}
	return added
}

// stableSort sorts the ledger by transaction date. The sort is stable, meaning
// same-day transactions keep their insertion order, so replay is deterministic.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
	for i, tx := range l.transactions {
		l.index[tx.Key()] = i
	}
}

// Transactions returns an iterator over transactions matching all the given
// filters, in chronological order.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			match := true
			for _, f := range filters {
				if !f(tx) {
					match = false
					break
				}
			}
			if !match {
				continue
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// TickerTransactions returns the chronological transactions for a single
// ticker, up to and including 'max'. A zero max means no upper bound.
func (l *Ledger) TickerTransactions(ticker string, max Date) []Transaction {
	var txs []Transaction
	for _, tx := range l.transactions {
		if tx.Ticker != ticker {
			continue
		}
		if !max.IsZero() && tx.Date.After(max) {
			break
		}
		txs = append(txs, tx)
	}
	return txs
}

// ByTicker returns a filter matching transactions for the given ticker.
func ByTicker(ticker string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Ticker == ticker }
}

// ByBroker returns a filter matching transactions held at the given broker.
func ByBroker(broker string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Broker == broker }
}

// ByRange returns a filter matching transactions dated within r.
func ByRange(r Range) func(Transaction) bool {
	return func(tx Transaction) bool { return r.Contains(tx.Date) }
}

// NotAfter returns a filter matching transactions on or before 'max'.
func NotAfter(max Date) func(Transaction) bool {
	return func(tx Transaction) bool { return !tx.Date.After(max) }
}

// Tickers returns the distinct tickers in the ledger, sorted.
func (l *Ledger) Tickers() []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, tx := range l.transactions {
		if !seen[tx.Ticker] {
			seen[tx.Ticker] = true
			tickers = append(tickers, tx.Ticker)
		}
	}
	sort.Strings(tickers)
	return tickers
}

// Brokers returns the distinct brokers in the ledger, sorted.
func (l *Ledger) Brokers() []string {
	seen := make(map[string]bool)
	var brokers []string
	for _, tx := range l.transactions {
		if tx.Broker == "" || seen[tx.Broker] {
			continue
		}
		seen[tx.Broker] = true
		brokers = append(brokers, tx.Broker)
	}
	sort.Strings(brokers)
	return brokers
}

// Currencies returns the distinct native currencies in the ledger, sorted.
func (l *Ledger) Currencies() []string {
	seen := make(map[string]bool)
	var curs []string
	for _, tx := range l.transactions {
		c := tx.Currency()
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		curs = append(curs, c)
	}
	sort.Strings(curs)
	return curs
}

// OldestTransactionDate returns the date of the first transaction, or the
// zero date for an empty ledger.
func (l *Ledger) OldestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[0].Date
}

// NewestTransactionDate returns the date of the last transaction, or the
// zero date for an empty ledger.
func (l *Ledger) NewestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[len(l.transactions)-1].Date
}

// InceptionDate returns the date of the first transaction for a ticker.
func (l *Ledger) InceptionDate(ticker string) (Date, bool) {
	for _, tx := range l.transactions {
		if tx.Ticker == ticker {
			return tx.Date, true
		}
	}
	return Date{}, false
}
