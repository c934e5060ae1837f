package cashbook

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sort"
	"sync"

	"github.com/etnz/cashbook/date"
)

// Ledger is an in-memory list of accounts and records.
//
// In a Ledger records are always in chronological order. A Ledger is safe for
// concurrent use and implements Book, it backs the file store and tests.
type Ledger struct {
	name     string
	currency string

	mu           sync.RWMutex
	accounts     []Account
	transactions []Transaction
}

// NewLedger creates an empty ledger keeping amounts in currency.
func NewLedger(currency string) *Ledger {
	return &Ledger{currency: currency, transactions: make([]Transaction, 0)}
}

// Name returns the ledger name, derived from its file name when loaded from disk.
func (l *Ledger) Name() string { return l.name }

// Currency returns the currency every amount of the ledger is expressed in.
func (l *Ledger) Currency() string { return l.currency }

// AcceptAll is a Transactions filter that accepts every record.
func AcceptAll(Transaction) bool { return true }

// OfKind returns a Transactions filter that accepts records of kind k.
func OfKind(k Kind) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.What() == k }
}

// Transactions returns the records accepted by any of filters, in chronological order.
// The iteration works on a snapshot, the ledger may be modified meanwhile.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq[Transaction] {
	l.mu.RLock()
	snapshot := slices.Clone(l.transactions)
	l.mu.RUnlock()
	return func(yield func(Transaction) bool) {
		for _, tx := range snapshot {
			if !slices.ContainsFunc(filters, func(f func(Transaction) bool) bool { return f(tx) }) {
				continue
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// InvestmentList returns all investments in chronological order.
func (l *Ledger) InvestmentList() []Investment {
	var investments []Investment
	for tx := range l.Transactions(OfKind(KindInvestment)) {
		investments = append(investments, tx.(Investment))
	}
	return investments
}

// AccountList returns the accounts in creation order.
func (l *Ledger) AccountList() []Account {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.accounts)
}

// FindAccount returns the account with the given ID.
func (l *Ledger) FindAccount(id string) (Account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := slices.IndexFunc(l.accounts, func(a Account) bool { return a.ID == id })
	if i < 0 {
		return Account{}, false
	}
	return l.accounts[i], true
}

// OpenAccount adds an account. Names are unique.
func (l *Ledger) OpenAccount(a Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.openAccount(a)
}

func (l *Ledger) openAccount(a Account) error {
	if a.ID == "" || a.Name == "" {
		return fmt.Errorf("account needs an id and a name")
	}
	for _, existing := range l.accounts {
		if existing.ID == a.ID {
			return fmt.Errorf("account id %q already exists", a.ID)
		}
		if existing.Name == a.Name {
			return fmt.Errorf("account %q already exists", a.Name)
		}
	}
	l.accounts = append(l.accounts, a)
	return nil
}

// Add validates tx and inserts it at its chronological position.
func (l *Ledger) Add(tx Transaction) (Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.add(tx)
}

func (l *Ledger) add(tx Transaction) (Transaction, error) {
	tx, err := tx.Validate()
	if err != nil {
		return tx, err
	}
	if l.currency == "" {
		l.currency = tx.Value().Currency()
	}
	if tx.Value().Currency() != l.currency {
		return tx, fmt.Errorf("%s %s is in %s, the ledger is kept in %s", tx.What(), tx.Identifier(), tx.Value().Currency(), l.currency)
	}
	if id := tx.Account(); id != "" && !slices.ContainsFunc(l.accounts, func(a Account) bool { return a.ID == id }) {
		return tx, fmt.Errorf("%s %s references unknown account %q", tx.What(), tx.Identifier(), id)
	}
	if l.index(tx.Identifier()) >= 0 {
		return tx, fmt.Errorf("%s id %q already exists", tx.What(), tx.Identifier())
	}
	l.transactions = append(l.transactions, tx)
	l.stableSort()
	return tx, nil
}

func (l *Ledger) index(id string) int {
	return slices.IndexFunc(l.transactions, func(tx Transaction) bool { return tx.Identifier() == id })
}

// stableSort sorts the ledger by record date. Records on the same day keep
// their relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].When().Before(l.transactions[j].When())
	})
}

// Investments implements InvestmentSource.
func (l *Ledger) Investments(context.Context) ([]Investment, error) {
	return l.InvestmentList(), nil
}

// Investment implements InvestmentSource.
func (l *Ledger) Investment(_ context.Context, id string) (Investment, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i := l.index(id); i >= 0 {
		if inv, ok := l.transactions[i].(Investment); ok {
			return inv, nil
		}
	}
	return Investment{}, fmt.Errorf("investment %q: %w", id, ErrNotFound)
}

// Append implements Store.
func (l *Ledger) Append(_ context.Context, tx Transaction) (Transaction, error) {
	return l.Add(tx)
}

// Claim implements Store. The ledger lock makes the two writes a single unit.
func (l *Ledger) Claim(_ context.Context, income Income, inv Investment, prev date.Month) (Income, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(inv.ID)
	if i < 0 {
		return Income{}, fmt.Errorf("investment %q: %w", inv.ID, ErrNotFound)
	}
	stored, ok := l.transactions[i].(Investment)
	if !ok {
		return Income{}, fmt.Errorf("record %q is a %s: %w", inv.ID, l.transactions[i].What(), ErrNotFound)
	}
	if stored.LastClaimed != prev || !inv.LastClaimed.After(prev) {
		return Income{}, ErrAlreadyClaimed
	}
	tx, err := l.add(income)
	if err != nil {
		return Income{}, err
	}
	// add sorted the records, look the investment up again.
	l.transactions[l.index(inv.ID)] = inv
	return tx.(Income), nil
}

// Accounts implements Book.
func (l *Ledger) Accounts(context.Context) ([]Account, error) { return l.AccountList(), nil }

// AddAccount implements Book.
func (l *Ledger) AddAccount(_ context.Context, a Account) error { return l.OpenAccount(a) }

// All implements Book.
func (l *Ledger) All(context.Context) ([]Transaction, error) {
	return slices.Collect(l.Transactions(AcceptAll)), nil
}
