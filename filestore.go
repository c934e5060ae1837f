package cashbook

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/etnz/cashbook/date"
	"github.com/sirupsen/logrus"
)

// FileStore is a Book kept in a single JSONL ledger file.
//
// Every write loads the file, applies the change to a Ledger and replaces the
// file atomically (write to a temporary file, then rename), so a crash leaves
// either the old or the new ledger on disk. Writes from one process are
// serialized; several processes sharing a file should use the sqlite store.
type FileStore struct {
	path     string
	currency string
	log      logrus.FieldLogger

	mu sync.Mutex
}

// NewFileStore returns a FileStore for path. The file is created on the first write.
func NewFileStore(path, currency string, log logrus.FieldLogger) *FileStore {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FileStore{path: path, currency: currency, log: log.WithField("ledger", path)}
}

// Path returns the ledger file path.
func (s *FileStore) Path() string { return s.path }

// Load reads the ledger file. A missing file is an empty ledger.
func (s *FileStore) Load() (*Ledger, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("ledger file does not exist yet, starting empty")
		l := NewLedger(s.currency)
		l.name = ledgerName(s.path)
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", s.path, err)
	}
	defer f.Close()

	l, err := DecodeLedger(f, s.currency)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", s.path, err)
	}
	l.name = ledgerName(s.path)
	return l, nil
}

// ledgerName is the file name without its .jsonl extension.
func ledgerName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".jsonl")
}

// save replaces the ledger file with l.
func (s *FileStore) save(l *Ledger) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create directory for ledger %q: %w", s.path, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary ledger file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if err := EncodeLedger(tmp, l); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("could not sync ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close ledger file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("could not replace ledger file %q: %w", s.path, err)
	}
	return nil
}

// update loads the ledger, applies fn and saves the result unless fn fails.
func (s *FileStore) update(fn func(*Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		return err
	}
	return s.save(l)
}

// Investments implements InvestmentSource.
func (s *FileStore) Investments(ctx context.Context) ([]Investment, error) {
	l, err := s.Load()
	if err != nil {
		return nil, err
	}
	return l.Investments(ctx)
}

// Investment implements InvestmentSource.
func (s *FileStore) Investment(ctx context.Context, id string) (Investment, error) {
	l, err := s.Load()
	if err != nil {
		return Investment{}, err
	}
	return l.Investment(ctx, id)
}

// Append implements Store.
func (s *FileStore) Append(ctx context.Context, tx Transaction) (Transaction, error) {
	err := s.update(func(l *Ledger) (err error) {
		tx, err = l.Append(ctx, tx)
		return err
	})
	if err != nil {
		return tx, err
	}
	s.log.WithFields(logrus.Fields{"kind": tx.What(), "id": tx.Identifier()}).Debug("record appended")
	return tx, nil
}

// Claim implements Store.
func (s *FileStore) Claim(ctx context.Context, income Income, inv Investment, prev date.Month) (Income, error) {
	err := s.update(func(l *Ledger) (err error) {
		income, err = l.Claim(ctx, income, inv, prev)
		return err
	})
	return income, err
}

// All implements Book.
func (s *FileStore) All(ctx context.Context) ([]Transaction, error) {
	l, err := s.Load()
	if err != nil {
		return nil, err
	}
	return l.All(ctx)
}

// Accounts implements Book.
func (s *FileStore) Accounts(ctx context.Context) ([]Account, error) {
	l, err := s.Load()
	if err != nil {
		return nil, err
	}
	return l.Accounts(ctx)
}

// AddAccount implements Book.
func (s *FileStore) AddAccount(ctx context.Context, a Account) error {
	return s.update(func(l *Ledger) error { return l.AddAccount(ctx, a) })
}

// Format rewrites the ledger file in canonical form: validated, sorted and
// with fields in a fixed order.
func (s *FileStore) Format() error {
	return s.update(func(*Ledger) error { return nil })
}
