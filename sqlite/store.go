// Package sqlite keeps a cashbook in a SQLite database.
//
// Unlike the JSONL file store, several processes can share one database:
// claims run in an immediate transaction that compares and swaps the
// investment's last claimed period.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/date"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Store is a cashbook.Book backed by SQLite.
type Store struct {
	db  *sql.DB
	log logrus.FieldLogger

	mu       sync.Mutex
	currency string // currency of the book, "" until the first record
}

var _ cashbook.Book = (*Store)(nil)

// dsn adds the connection pragmas to path. busy_timeout makes writers wait
// for each other instead of failing, _txlock=immediate takes the write lock
// when a transaction begins.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_txlock=immediate"
}

// Open opens, or creates, the database at path and applies the migrations.
//
// currency is the currency of the book. When the database already records
// another one Open fails, when both are empty the first record sets it.
func Open(ctx context.Context, path, currency string, log logrus.FieldLogger) (*Store, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", path, err)
	}
	// SQLite has a single writer, one connection per store keeps it simple.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, log: log.WithField("database", path)}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.loadCurrency(ctx, currency); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	for i, stmt := range Migrations() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", i, err)
		}
	}
	return nil
}

func (s *Store) loadCurrency(ctx context.Context, currency string) error {
	var stored string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = 'currency'`).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("failed to read currency: %w", err)
	}
	switch {
	case stored != "" && currency != "" && stored != currency:
		return fmt.Errorf("database is kept in %s, not %s", stored, currency)
	case stored != "":
		s.currency = stored
	default:
		s.currency = currency
	}
	return nil
}

// Currency returns the currency of the book, "" while it is empty.
func (s *Store) Currency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currency
}

// Append implements cashbook.Store.
func (s *Store) Append(ctx context.Context, tx cashbook.Transaction) (cashbook.Transaction, error) {
	tx, err := tx.Validate()
	if err != nil {
		return tx, err
	}
	err = s.inTx(ctx, func(t *sql.Tx) error { return s.insert(ctx, t, tx) })
	if err != nil {
		return tx, err
	}
	s.log.WithFields(logrus.Fields{"kind": tx.What(), "id": tx.Identifier()}).Debug("record appended")
	return tx, nil
}

// insert writes a validated record.
func (s *Store) insert(ctx context.Context, t *sql.Tx, tx cashbook.Transaction) error {
	if err := s.checkCurrency(ctx, t, tx.Value().Currency()); err != nil {
		return fmt.Errorf("%s %s: %w", tx.What(), tx.Identifier(), err)
	}
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal %s %s: %w", tx.What(), tx.Identifier(), err)
	}
	var account any
	if id := tx.Account(); id != "" {
		var n int
		if err := t.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE id = ?`, id).Scan(&n); err != nil {
			return fmt.Errorf("failed to look up account %q: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("%s %s references unknown account %q", tx.What(), tx.Identifier(), id)
		}
		account = id
	}
	var lastClaimed string
	if inv, ok := tx.(cashbook.Investment); ok {
		lastClaimed = inv.LastClaimed.String()
	}
	_, err = t.ExecContext(ctx,
		`INSERT INTO records (id, kind, date, account_id, last_claimed, data) VALUES (?, ?, ?, ?, ?, ?)`,
		tx.Identifier(), string(tx.What()), tx.When().String(), account, lastClaimed, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s %s: %w", tx.What(), tx.Identifier(), err)
	}
	return nil
}

// checkCurrency enforces a single currency, adopting the first one seen.
func (s *Store) checkCurrency(ctx context.Context, t *sql.Tx, cur string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currency != "" && s.currency != cur {
		return fmt.Errorf("amount is in %s, the book is kept in %s", cur, s.currency)
	}
	_, err := t.ExecContext(ctx, `INSERT INTO settings (key, value) VALUES ('currency', ?) ON CONFLICT(key) DO NOTHING`, cur)
	if err != nil {
		return fmt.Errorf("failed to record currency: %w", err)
	}
	s.currency = cur
	return nil
}

// Claim implements cashbook.Store. The investment update and the income
// insert share one transaction.
func (s *Store) Claim(ctx context.Context, income cashbook.Income, inv cashbook.Investment, prev date.Month) (cashbook.Income, error) {
	if !inv.LastClaimed.After(prev) {
		return cashbook.Income{}, cashbook.ErrAlreadyClaimed
	}
	validated, err := income.Validate()
	if err != nil {
		return cashbook.Income{}, err
	}
	income = validated.(cashbook.Income)
	data, err := json.Marshal(inv)
	if err != nil {
		return cashbook.Income{}, fmt.Errorf("failed to marshal investment %s: %w", inv.ID, err)
	}

	err = s.inTx(ctx, func(t *sql.Tx) error {
		res, err := t.ExecContext(ctx,
			`UPDATE records SET last_claimed = ?, data = ? WHERE id = ? AND kind = 'investment' AND last_claimed = ?`,
			inv.LastClaimed.String(), string(data), inv.ID, prev.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to update investment %s: %w", inv.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to update investment %s: %w", inv.ID, err)
		}
		if n == 0 {
			return s.missedClaim(ctx, t, inv.ID)
		}
		return s.insert(ctx, t, income)
	})
	if err != nil {
		return cashbook.Income{}, err
	}
	return income, nil
}

// missedClaim tells why a claim updated no row.
func (s *Store) missedClaim(ctx context.Context, t *sql.Tx, id string) error {
	var n int
	if err := t.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE id = ? AND kind = 'investment'`, id).Scan(&n); err != nil {
		return fmt.Errorf("failed to look up investment %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("investment %q: %w", id, cashbook.ErrNotFound)
	}
	return cashbook.ErrAlreadyClaimed
}

// inTx runs fn in a transaction, committed only when fn succeeds.
func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	t, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(t); err != nil {
		t.Rollback()
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Investments implements cashbook.InvestmentSource.
func (s *Store) Investments(ctx context.Context) ([]cashbook.Investment, error) {
	txs, err := s.query(ctx, `SELECT data FROM records WHERE kind = 'investment' ORDER BY date, seq`)
	if err != nil {
		return nil, err
	}
	investments := make([]cashbook.Investment, 0, len(txs))
	for _, tx := range txs {
		investments = append(investments, tx.(cashbook.Investment))
	}
	return investments, nil
}

// Investment implements cashbook.InvestmentSource.
func (s *Store) Investment(ctx context.Context, id string) (cashbook.Investment, error) {
	txs, err := s.query(ctx, `SELECT data FROM records WHERE kind = 'investment' AND id = ?`, id)
	if err != nil {
		return cashbook.Investment{}, err
	}
	if len(txs) == 0 {
		return cashbook.Investment{}, fmt.Errorf("investment %q: %w", id, cashbook.ErrNotFound)
	}
	return txs[0].(cashbook.Investment), nil
}

// All implements cashbook.Book.
func (s *Store) All(ctx context.Context) ([]cashbook.Transaction, error) {
	return s.query(ctx, `SELECT data FROM records ORDER BY date, seq`)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]cashbook.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var txs []cashbook.Transaction
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		tx, err := cashbook.DecodeTransaction([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode record: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// Accounts implements cashbook.Book.
func (s *Store) Accounts(ctx context.Context) ([]cashbook.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM accounts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []cashbook.Account
	for rows.Next() {
		var a cashbook.Account
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// AddAccount implements cashbook.Book.
func (s *Store) AddAccount(ctx context.Context, a cashbook.Account) error {
	if a.ID == "" || a.Name == "" {
		return errors.New("account needs an id and a name")
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO accounts (id, name) VALUES (?, ?)`, a.ID, a.Name)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("account %q already exists", a.Name)
		}
		return fmt.Errorf("failed to insert account %q: %w", a.Name, err)
	}
	return nil
}
