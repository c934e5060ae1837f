package cashbook

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

// DecodeLedger reads a JSONL stream, one account or record per line, and
// returns the validated Ledger. When currency is empty the ledger adopts the
// currency of its first record.
func DecodeLedger(r io.Reader, currency string) (*Ledger, error) {
	ledger := NewLedger(currency)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Kind Kind `json:"kind"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: could not identify record kind in %q: %w", line, lineBytes, err)
		}

		if identifier.Kind == KindAccount {
			var a Account
			if err := json.Unmarshal(lineBytes, &a); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if err := ledger.OpenAccount(a); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			continue
		}
		tx, err := decodeTransaction(identifier.Kind, lineBytes)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if _, err := ledger.Add(tx); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return ledger, nil
}

// DecodeTransaction reads a single JSON record. It does not validate it.
func DecodeTransaction(data []byte) (Transaction, error) {
	var identifier struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(data, &identifier); err != nil {
		return nil, fmt.Errorf("could not identify record kind in %q: %w", data, err)
	}
	return decodeTransaction(identifier.Kind, data)
}

func decodeTransaction(kind Kind, data []byte) (Transaction, error) {
	switch kind {
	case KindIncome:
		var v Income
		err := json.Unmarshal(data, &v)
		return v, err
	case KindExpense:
		var v Expense
		err := json.Unmarshal(data, &v)
		return v, err
	case KindInvestment:
		var v Investment
		err := json.Unmarshal(data, &v)
		return v, err
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
}

// EncodeTransaction writes a single record as one JSON line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal %s %s: %w", tx.What(), tx.Identifier(), err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write %s %s: %w", tx.What(), tx.Identifier(), err)
	}
	return nil
}

// EncodeLedger writes the accounts, then the records in chronological order, in JSONL format.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	for _, a := range ledger.AccountList() {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("failed to marshal account %s: %w", a.ID, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write account %s: %w", a.ID, err)
		}
	}
	for tx := range ledger.Transactions(AcceptAll) {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}
