package cashbook

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestFileStore_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home.jsonl")
	s := NewFileStore(path, "USD", nil)
	l, err := s.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if l.Name() != "home" {
		t.Errorf("Name() = %q, want home", l.Name())
	}
	invs, err := s.Investments(t.Context())
	if err != nil || len(invs) != 0 {
		t.Errorf("Investments() = %v, %v, want none", invs, err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("reading created the file: %v", err)
	}
}

func TestFileStore_Persistence(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "sub", "home.jsonl")
	s := NewFileStore(path, "USD", nil)

	acc, _ := NewAccount("Savings")
	if err := s.AddAccount(ctx, acc); err != nil {
		t.Fatalf("AddAccount() failed: %v", err)
	}
	inv := yearly(t)
	inv.AccountID = acc.ID
	if _, err := s.Append(ctx, inv); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	c := NewCommitter(s, nil, nil)
	incomes, err := c.ClaimDue(ctx, day("2024-04-15"))
	if err != nil {
		t.Fatalf("ClaimDue() failed: %v", err)
	}
	if len(incomes) != 3 {
		t.Fatalf("ClaimDue() created %d incomes, want 3", len(incomes))
	}

	// A second store on the same file sees everything.
	reopened := NewFileStore(path, "", nil)
	stored, err := reopened.Investment(ctx, inv.ID)
	if err != nil {
		t.Fatalf("Investment() failed: %v", err)
	}
	if stored.LastClaimed != month("2024-03") {
		t.Errorf("LastClaimed = %s, want 2024-03", stored.LastClaimed)
	}
	all, _ := reopened.All(ctx)
	if len(all) != 4 {
		t.Errorf("reopened ledger holds %d records, want 4", len(all))
	}
	for _, tx := range all {
		if tx.Account() != acc.ID {
			t.Errorf("%s %s lost its account", tx.What(), tx.Identifier())
		}
	}
	accounts, _ := reopened.Accounts(ctx)
	if len(accounts) != 1 || accounts[0] != acc {
		t.Errorf("Accounts() = %v, want [%v]", accounts, acc)
	}

	// No temporary file is left behind.
	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			t.Errorf("temporary file %s left behind", e.Name())
		}
	}
}

func TestFileStore_FailedWriteKeepsFile(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "home.jsonl")
	s := NewFileStore(path, "USD", nil)
	if _, err := s.Append(ctx, NewIncome(day("2024-01-10"), "Salary", USD(2500), "Employer")); err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(path)

	if _, err := s.Append(ctx, NewIncome(day("2024-01-10"), "", USD(-1), "")); err == nil {
		t.Fatal("Append() accepted an invalid income")
	}
	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Errorf("failed append changed the file:\n%s\nthen\n%s", before, after)
	}
}

func TestFileStore_ConcurrentClaims(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "home.jsonl")
	s := NewFileStore(path, "USD", nil)
	if _, err := s.Append(ctx, yearly(t)); err != nil {
		t.Fatal(err)
	}
	// Two committers, as if two commands ran at once in the same process.
	c1, c2 := NewCommitter(s, nil, nil), NewCommitter(s, nil, nil)
	investments, _ := s.Investments(ctx)
	item := DueOnly(Claimable(investments, day("2024-02-15")))[0]

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, c := range []*Committer{c1, c2} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, errs[i] = c.Commit(ctx, item, day("2024-02-15"))
		}()
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if errors.Is(err, ErrAlreadyClaimed) {
			failed++
		} else if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if failed != 1 {
		t.Errorf("%d commits failed, want exactly 1", failed)
	}
	all, _ := s.All(ctx)
	if len(all) != 2 {
		t.Errorf("ledger holds %d records, want the investment and one income", len(all))
	}
}
