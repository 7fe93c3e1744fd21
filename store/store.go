// Package store persists the ledger, resolved exchange rates and quote
// metadata in a single sqlite file, so repeated runs do not re-enter trades
// or re-fetch what they already know.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/tanwk/folio"
)

// Store is the sqlite persistence layer. It implements [folio.RateStore].
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite file at path and migrates the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		day TEXT NOT NULL,
		ticker TEXT NOT NULL,
		side TEXT NOT NULL,
		price TEXT NOT NULL,
		currency TEXT NOT NULL,
		quantity TEXT NOT NULL,
		broker TEXT NOT NULL DEFAULT '',
		fx_rate TEXT NOT NULL DEFAULT '0',
		fx_override TEXT NOT NULL DEFAULT '0',
		memo TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(day, ticker, side, broker, price, quantity)
	);

	CREATE TABLE IF NOT EXISTS fx_rates (
		from_currency TEXT NOT NULL,
		to_currency TEXT NOT NULL,
		day TEXT NOT NULL,
		rate TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY(from_currency, to_currency, day)
	);

	CREATE TABLE IF NOT EXISTS ticker_metadata (
		ticker TEXT PRIMARY KEY,
		currency TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS quote_cache (
		ticker TEXT PRIMARY KEY,
		price TEXT NOT NULL,
		currency TEXT NOT NULL,
		fetched_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS price_cache (
		ticker TEXT NOT NULL,
		day TEXT NOT NULL,
		price TEXT NOT NULL,
		PRIMARY KEY(ticker, day)
	);

	CREATE TABLE IF NOT EXISTS dividend_cache (
		ticker TEXT NOT NULL,
		ex_date TEXT NOT NULL,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL,
		PRIMARY KEY(ticker, ex_date)
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}
	return nil
}

// SaveTransactions inserts the transactions, skipping any whose identity
// tuple is already present, and returns the number actually inserted.
func (s *Store) SaveTransactions(ctx context.Context, txs ...folio.Transaction) (int, error) {
	saved := 0
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return saved, err
		}
		res, err := s.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO transactions(id, day, ticker, side, price, currency, quantity, broker, fx_rate, fx_override, memo)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(),
			tx.Date.String(),
			strings.ToUpper(tx.Ticker),
			string(tx.Side),
			tx.Price.Amount().String(),
			tx.Currency(),
			tx.Quantity.String(),
			tx.Broker,
			tx.FXRate.String(),
			tx.FXOverride.String(),
			tx.Memo,
		)
		if err != nil {
			return saved, fmt.Errorf("insert transaction: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return saved, fmt.Errorf("transaction rows affected: %w", err)
		}
		saved += int(n)
	}
	return saved, nil
}

// Ledger loads every stored transaction into a sorted ledger.
func (s *Store) Ledger(ctx context.Context) (*folio.Ledger, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, ticker, side, price, currency, quantity, broker, fx_rate, fx_override, memo
		FROM transactions ORDER BY day ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	ledger := folio.NewLedger()
	for rows.Next() {
		var day, ticker, side, price, currency, quantity, broker, fxRate, fxOverride, memo string
		if err := rows.Scan(&day, &ticker, &side, &price, &currency, &quantity, &broker, &fxRate, &fxOverride, &memo); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx, err := scanTransaction(day, ticker, side, price, currency, quantity, broker, fxRate, fxOverride, memo)
		if err != nil {
			return nil, err
		}
		ledger.Append(tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return ledger, nil
}

func scanTransaction(day, ticker, side, price, currency, quantity, broker, fxRate, fxOverride, memo string) (folio.Transaction, error) {
	d, err := folio.ParseDate(day)
	if err != nil {
		return folio.Transaction{}, fmt.Errorf("stored transaction has invalid day %q: %w", day, err)
	}
	sd, err := folio.ParseSide(side)
	if err != nil {
		return folio.Transaction{}, fmt.Errorf("stored transaction: %w", err)
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return folio.Transaction{}, fmt.Errorf("stored transaction has invalid price %q: %w", price, err)
	}
	q, err := decimal.NewFromString(quantity)
	if err != nil {
		return folio.Transaction{}, fmt.Errorf("stored transaction has invalid quantity %q: %w", quantity, err)
	}
	fr, err := decimal.NewFromString(fxRate)
	if err != nil {
		return folio.Transaction{}, fmt.Errorf("stored transaction has invalid fx rate %q: %w", fxRate, err)
	}
	fo, err := decimal.NewFromString(fxOverride)
	if err != nil {
		return folio.Transaction{}, fmt.Errorf("stored transaction has invalid fx override %q: %w", fxOverride, err)
	}
	return folio.Transaction{
		Date:       d,
		Ticker:     ticker,
		Side:       sd,
		Price:      folio.M(p, currency),
		Quantity:   folio.Q(q),
		Broker:     broker,
		FXRate:     fr,
		FXOverride: fo,
		Memo:       memo,
	}, nil
}

// Rate implements [folio.RateStore].
func (s *Store) Rate(from, to string, on folio.Date) (decimal.Decimal, bool) {
	row := s.db.QueryRow(`
		SELECT rate FROM fx_rates
		WHERE from_currency = ? AND to_currency = ? AND day = ?`,
		from, to, on.String())
	var rate string
	if err := row.Scan(&rate); err != nil {
		return decimal.Decimal{}, false
	}
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return r, true
}

// PutRate implements [folio.RateStore].
func (s *Store) PutRate(from, to string, on folio.Date, rate decimal.Decimal) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO fx_rates(from_currency, to_currency, day, rate)
		VALUES (?, ?, ?, ?)`,
		from, to, on.String(), rate.String())
	if err != nil {
		return fmt.Errorf("store rate: %w", err)
	}
	return nil
}

// PutMetadata records a ticker's currency and country.
func (s *Store) PutMetadata(ctx context.Context, ticker, currency, country string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO ticker_metadata(ticker, currency, country)
		VALUES (?, ?, ?)`,
		strings.ToUpper(ticker), currency, country)
	if err != nil {
		return fmt.Errorf("store metadata: %w", err)
	}
	return nil
}

// Metadata returns a ticker's stored currency and country, if any.
func (s *Store) Metadata(ctx context.Context, ticker string) (currency, country string, ok bool) {
	row := s.db.QueryRowContext(ctx, `
		SELECT currency, country FROM ticker_metadata WHERE ticker = ?`,
		strings.ToUpper(ticker))
	if err := row.Scan(&currency, &country); err != nil {
		return "", "", false
	}
	return currency, country, true
}

// Transactions returns stored transactions matching the filters, in
// chronological order. Empty ticker/broker and zero dates match everything.
func (s *Store) Transactions(ctx context.Context, ticker, broker string, from, to folio.Date) ([]folio.Transaction, error) {
	query := `
		SELECT day, ticker, side, price, currency, quantity, broker, fx_rate, fx_override, memo
		FROM transactions WHERE 1=1`
	var args []any
	if ticker != "" {
		query += " AND ticker = ?"
		args = append(args, strings.ToUpper(ticker))
	}
	if broker != "" {
		query += " AND broker = ?"
		args = append(args, broker)
	}
	if !from.IsZero() {
		query += " AND day >= ?"
		args = append(args, from.String())
	}
	if !to.IsZero() {
		query += " AND day <= ?"
		args = append(args, to.String())
	}
	query += " ORDER BY day ASC, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []folio.Transaction
	for rows.Next() {
		var day, tck, side, price, currency, quantity, brk, fxRate, fxOverride, memo string
		if err := rows.Scan(&day, &tck, &side, &price, &currency, &quantity, &brk, &fxRate, &fxOverride, &memo); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx, err := scanTransaction(day, tck, side, price, currency, quantity, brk, fxRate, fxOverride, memo)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// PutPrices records a ticker's daily closing prices.
func (s *Store) PutPrices(ctx context.Context, ticker string, days []folio.Date, prices []decimal.Decimal) error {
	for i, day := range days {
		_, err := s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO price_cache(ticker, day, price)
			VALUES (?, ?, ?)`,
			strings.ToUpper(ticker), day.String(), prices[i].String())
		if err != nil {
			return fmt.Errorf("cache price: %w", err)
		}
	}
	return nil
}

// Prices loads a ticker's cached daily closing prices into a snapshot.
func (s *Store) Prices(ctx context.Context, ticker string, m *folio.MarketData) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT day, price FROM price_cache WHERE ticker = ? ORDER BY day ASC`,
		strings.ToUpper(ticker))
	if err != nil {
		return fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var day, price string
		if err := rows.Scan(&day, &price); err != nil {
			return fmt.Errorf("scan price: %w", err)
		}
		d, err := folio.ParseDate(day)
		if err != nil {
			return fmt.Errorf("cached price has invalid day %q: %w", day, err)
		}
		p, err := decimal.NewFromString(price)
		if err != nil {
			return fmt.Errorf("cached price is invalid %q: %w", price, err)
		}
		m.AddPrice(strings.ToUpper(ticker), d, p)
	}
	return rows.Err()
}

// PutDividends records a ticker's dividend events.
func (s *Store) PutDividends(ctx context.Context, ticker string, events []folio.DividendEvent) error {
	for _, ev := range events {
		_, err := s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO dividend_cache(ticker, ex_date, amount, currency)
			VALUES (?, ?, ?, ?)`,
			strings.ToUpper(ticker), ev.ExDate.String(), ev.PerShare.Amount().String(), ev.PerShare.Currency())
		if err != nil {
			return fmt.Errorf("cache dividend: %w", err)
		}
	}
	return nil
}

// Dividends returns a ticker's cached dividend events, oldest first.
func (s *Store) Dividends(ctx context.Context, ticker string) ([]folio.DividendEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ex_date, amount, currency FROM dividend_cache WHERE ticker = ? ORDER BY ex_date ASC`,
		strings.ToUpper(ticker))
	if err != nil {
		return nil, fmt.Errorf("query dividends: %w", err)
	}
	defer rows.Close()

	var events []folio.DividendEvent
	for rows.Next() {
		var exDate, amount, currency string
		if err := rows.Scan(&exDate, &amount, &currency); err != nil {
			return nil, fmt.Errorf("scan dividend: %w", err)
		}
		d, err := folio.ParseDate(exDate)
		if err != nil {
			return nil, fmt.Errorf("cached dividend has invalid ex-date %q: %w", exDate, err)
		}
		a, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("cached dividend amount is invalid %q: %w", amount, err)
		}
		events = append(events, folio.DividendEvent{ExDate: d, PerShare: folio.M(a, currency)})
	}
	return events, rows.Err()
}

// CacheQuote records a fetched quote with its fetch time.
func (s *Store) CacheQuote(ctx context.Context, ticker string, price folio.Money) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO quote_cache(ticker, price, currency, fetched_at)
		VALUES (?, ?, ?, ?)`,
		strings.ToUpper(ticker), price.Amount().String(), price.Currency(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("cache quote: %w", err)
	}
	return nil
}

// CachedQuote returns a cached quote no older than folio.QuoteTTL.
func (s *Store) CachedQuote(ctx context.Context, ticker string) (folio.Money, bool) {
	row := s.db.QueryRowContext(ctx, `
		SELECT price, currency, fetched_at FROM quote_cache WHERE ticker = ?`,
		strings.ToUpper(ticker))
	var price, currency string
	var fetchedAt time.Time
	if err := row.Scan(&price, &currency, &fetchedAt); err != nil {
		return folio.Money{}, false
	}
	if time.Since(fetchedAt) > folio.QuoteTTL {
		return folio.Money{}, false
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return folio.Money{}, false
	}
	return folio.M(p, currency), true
}
