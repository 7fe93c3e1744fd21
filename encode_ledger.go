package folio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeLedger decodes transactions from a stream of JSONL data, one
// transaction per line, and returns a sorted deduplicated Ledger.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var tx Transaction
		if err := json.Unmarshal(lineBytes, &tx); err != nil {
			return nil, fmt.Errorf("could not decode transaction on line %d: %w", line, err)
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("invalid transaction on line %d: %w", line, err)
		}
		ledger.Append(tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ledger: %w", err)
	}
	return ledger, nil
}

// EncodeLedger writes the ledger as JSONL, one transaction per line, in
// chronological order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	enc := json.NewEncoder(w)
	for _, tx := range ledger.Transactions() {
		if err := enc.Encode(tx); err != nil {
			return fmt.Errorf("could not encode transaction %v: %w", tx.Key(), err)
		}
	}
	return nil
}
