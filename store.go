package cashbook

import (
	"context"
	"errors"

	"github.com/etnz/cashbook/date"
)

// Errors returned when a claim cannot be committed. They are recoverable:
// the ledger is left untouched.
var (
	ErrAlreadyClaimed = errors.New("period already claimed")
	ErrOutOfOrder     = errors.New("an earlier period is still unclaimed")
	ErrNotDue         = errors.New("period is not due yet")
	ErrUnknownPeriod  = errors.New("period is not part of the investment term")
	ErrNotFound       = errors.New("not found")
)

// InvestmentSource reads investments. Implementations return every
// investment, they do not filter or paginate.
type InvestmentSource interface {
	Investments(ctx context.Context) ([]Investment, error)
	Investment(ctx context.Context, id string) (Investment, error)
}

// Store is the durable ledger behind the engine. Every method returns only
// once its writes are durable.
type Store interface {
	InvestmentSource

	// Append validates and stores a new record, returning it with its ID.
	Append(ctx context.Context, tx Transaction) (Transaction, error)

	// Claim appends income and replaces the stored investment with inv as a
	// single unit: both writes become visible or none does. It fails with
	// ErrAlreadyClaimed when the stored LastClaimed is not prev anymore.
	Claim(ctx context.Context, income Income, inv Investment, prev date.Month) (Income, error)
}

// Book is a Store that also keeps accounts and lists every record. It is what
// the command line works with.
type Book interface {
	Store

	// All returns every record in chronological order.
	All(ctx context.Context) ([]Transaction, error)
	Accounts(ctx context.Context) ([]Account, error)
	AddAccount(ctx context.Context, a Account) error
}
