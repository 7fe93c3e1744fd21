// Package folio is a transaction-replay engine for a capital-markets
// portfolio. From an append-only ledger of buy/sell events it derives
// holdings, FIFO cost basis, realized and unrealized profit, dividend
// income net of withholding tax, and money-weighted performance (XIRR)
// against benchmarks.
//
// The core functionalities include:
//   - Ledger Management: an immutable, chronologically ordered record of
//     buy/sell transactions, deduplicated by their identity tuple
//     (date, ticker, side, broker, price, quantity).
//   - Lot Replay: a pure FIFO engine turning a ticker's transactions into
//     open lots and closed lots, rejecting oversells.
//   - Valuation: per-ticker and aggregate positions combining lots with a
//     point-in-time market data snapshot.
//   - Dividend Replay: reconstruction of shares held at each ex-dividend
//     date, with withholding tax by country of listing.
//   - Performance: XIRR over dated cash flows, like-for-like benchmark
//     simulation, and historical value series.
//
// The engine fetches nothing and persists nothing: every entry point is a
// pure function of a transaction snapshot and a market data snapshot.
// Acquisition and persistence live behind small interfaces implemented by
// the store and provider collaborators (see the store package and the
// Yahoo provider in this package).
//
// A convention worth knowing: positions are reported using the current FX
// rate for every money field (so figures compare in today's money), while
// dividends and historical value series use the FX rate of their own date.
// The asymmetry is intentional and load-bearing; tests pin it down.
//
// This package serves as the foundational logic for the `ft` command-line
// tool.
package folio
