package cashbook

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/etnz/cashbook/date"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Committer turns due periods into Income records. It is the only code path
// that moves an investment's LastClaimed forward.
//
// Commits for the same investment are serialized, commits for different
// investments run concurrently.
type Committer struct {
	store   Store
	log     logrus.FieldLogger
	metrics *Metrics

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCommitter returns a Committer writing to store. A nil metrics disables instrumentation.
func NewCommitter(store Store, log logrus.FieldLogger, metrics *Metrics) *Committer {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Committer{store: store, log: log, metrics: metrics, locks: make(map[string]*sync.Mutex)}
}

func (c *Committer) lock(id string) func() {
	c.mu.Lock()
	l, ok := c.locks[id]
	if !ok {
		l = new(sync.Mutex)
		c.locks[id] = l
	}
	c.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// ClaimIncome builds the Income record paying period of inv. The amount is
// rounded to cents, it is 0.00 for a period earning less than half a cent.
func ClaimIncome(inv Investment, period Period) Income {
	income := NewIncome(
		period.Payable,
		fmt.Sprintf("Monthly income from %s for %s", inv.Name(), period.ID.Name()),
		period.Income.Round(CurrencyPrecision),
		"Investment: "+inv.Name(),
	)
	income.ID = uuid.NewString()
	income.AccountID = inv.AccountID
	income.Investment = inv.ID
	return income
}

// Commit claims item on today: it appends the income and advances LastClaimed
// as one unit.
//
// The investment is re-read from the store under the investment's lock, so a
// concurrent commit of the same period fails with ErrAlreadyClaimed. Periods
// must be claimed in order, and only once due on today. item.Status is not
// trusted, the period is classified again.
func (c *Committer) Commit(ctx context.Context, item ClaimableIncome, today date.Date) (Income, Investment, error) {
	inv, period := item.Investment, item.Period
	log := c.log.WithFields(logrus.Fields{"investment": inv.ID, "period": period.ID.String()})

	unlock := c.lock(inv.ID)
	defer unlock()

	current, err := c.store.Investment(ctx, inv.ID)
	if err != nil {
		return Income{}, Investment{}, fmt.Errorf("loading investment %s: %w", inv.ID, err)
	}
	next, err := c.check(current, period, today)
	if err != nil {
		c.metrics.rejected(err)
		log.WithError(err).Warn("claim rejected")
		return Income{}, current, fmt.Errorf("claiming %s for %s: %w", period.ID, current.Name(), err)
	}

	income := ClaimIncome(current, next)
	updated := current
	updated.LastClaimed = next.ID

	income, err = c.store.Claim(ctx, income, updated, current.LastClaimed)
	if err != nil {
		if errors.Is(err, ErrAlreadyClaimed) {
			c.metrics.rejected(err)
		}
		return Income{}, current, fmt.Errorf("claiming %s for %s: %w", period.ID, current.Name(), err)
	}
	c.metrics.committed(income.Amount)
	log.WithField("amount", income.Amount.StringFixed(CurrencyPrecision)).Info("income claimed")
	return income, updated, nil
}

// check returns the canonical period to claim, recomputed from the stored
// investment rather than trusted from the caller.
func (c *Committer) check(current Investment, period Period, today date.Date) (Period, error) {
	if current.IsClaimed(period.ID) {
		return Period{}, ErrAlreadyClaimed
	}
	next, ok := current.NextUnclaimed()
	if !ok {
		return Period{}, ErrUnknownPeriod
	}
	switch {
	case period.ID.Before(next.ID):
		// Before the first period of the term.
		return Period{}, ErrUnknownPeriod
	case period.ID.After(next.ID):
		for p := range current.Periods() {
			if p.ID == period.ID {
				return Period{}, ErrOutOfOrder
			}
		}
		return Period{}, ErrUnknownPeriod
	}
	if !next.Income.IsPositive() {
		return Period{}, ErrUnknownPeriod
	}
	if item, ok := Classify(current, next, today); !ok || item.Status != Due {
		return Period{}, ErrNotDue
	}
	return next, nil
}

// ClaimDue commits every period due on today, oldest first. Periods claimed
// concurrently by someone else are skipped. When a claim fails, the remaining
// periods of that investment are skipped and the other investments are still
// claimed; the failures are returned joined. It returns the incomes created.
func (c *Committer) ClaimDue(ctx context.Context, today date.Date) ([]Income, error) {
	investments, err := c.store.Investments(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading investments: %w", err)
	}
	var (
		incomes []Income
		errs    error
		failed  = make(map[string]bool)
	)
	for _, item := range DueOnly(Claimable(investments, today)) {
		if err := ctx.Err(); err != nil {
			return incomes, errors.Join(errs, err)
		}
		if failed[item.Investment.ID] {
			continue
		}
		income, _, err := c.Commit(ctx, item, today)
		if errors.Is(err, ErrAlreadyClaimed) {
			continue
		}
		if err != nil {
			// Later periods would fail with ErrOutOfOrder.
			failed[item.Investment.ID] = true
			errs = errors.Join(errs, err)
			continue
		}
		incomes = append(incomes, income)
	}
	return incomes, errs
}
