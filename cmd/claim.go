package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/date"
	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
)

type claimCmd struct {
	date string
	all  bool
}

func (*claimCmd) Name() string     { return "claim" }
func (*claimCmd) Synopsis() string { return "record due investment income" }
func (*claimCmd) Usage() string {
	return `cb claim [-d <date>] <investment> [<period>]
cb claim [-d <date>] -all

  Claims the monthly income of a certificate: an income record is added and
  the period is marked as claimed. The investment is its ID or certificate
  name. Without a period (YYYY-MM) the oldest unclaimed one is claimed.
  Periods are claimed in order, and only once due.

  With -all, every due period of every certificate is claimed.
`
}

func (c *claimCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Date to claim on (defaults to today).")
	f.BoolVar(&c.all, "all", false, "Claim every due period.")
}

func (c *claimCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.all == (f.NArg() > 0) || f.NArg() > 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	today, err := parseDay(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	registry := prometheus.NewRegistry()
	committer := cashbook.NewCommitter(a.book, a.log, cashbook.NewMetrics(registry))
	defer logMetrics(a.log, registry)

	if c.all {
		incomes, err := committer.ClaimDue(ctx, today)
		for _, income := range incomes {
			fmt.Fprintf(stdout, "Claimed %s on %s: %s\n", income.Amount, income.Date, income.Description)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if len(incomes) == 0 {
			fmt.Fprintln(stdout, "Nothing is due.")
		}
		return subcommands.ExitSuccess
	}

	inv, err := findInvestment(ctx, a.book, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	item, err := selectPeriod(inv, f.Arg(1), today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	income, _, err := committer.Commit(ctx, item, today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Claimed %s on %s: %s\n", income.Amount, income.Date, income.Description)
	return subcommands.ExitSuccess
}

// findInvestment looks an investment up by ID, then by certificate name.
func findInvestment(ctx context.Context, book cashbook.InvestmentSource, ref string) (cashbook.Investment, error) {
	inv, err := book.Investment(ctx, ref)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, cashbook.ErrNotFound) {
		return inv, err
	}
	investments, err := book.Investments(ctx)
	if err != nil {
		return cashbook.Investment{}, err
	}
	var found []cashbook.Investment
	for _, inv := range investments {
		if strings.EqualFold(inv.Name(), ref) {
			found = append(found, inv)
		}
	}
	switch len(found) {
	case 0:
		return cashbook.Investment{}, fmt.Errorf("investment %q: %w", ref, cashbook.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return cashbook.Investment{}, fmt.Errorf("%d investments are named %q, use the ID", len(found), ref)
	}
}

// selectPeriod returns the item to commit for period, or the oldest unclaimed
// period when empty. Periods outside the claimable window are passed along
// unclassified, the committer rejects them with the right reason.
func selectPeriod(inv cashbook.Investment, period string, today date.Date) (cashbook.ClaimableIncome, error) {
	var p cashbook.Period
	if period == "" {
		next, ok := inv.NextUnclaimed()
		if !ok {
			return cashbook.ClaimableIncome{}, fmt.Errorf("%s is paid out", inv.Name())
		}
		p = next
	} else {
		id, err := date.ParseMonth(period)
		if err != nil {
			return cashbook.ClaimableIncome{}, err
		}
		p = inv.Period(id)
	}
	if item, ok := cashbook.Classify(inv, p, today); ok {
		return item, nil
	}
	return cashbook.ClaimableIncome{Investment: inv, Period: p}, nil
}
