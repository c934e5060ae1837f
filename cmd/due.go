package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/date"
	"github.com/etnz/cashbook/renderer"
	"github.com/google/subcommands"
)

type dueCmd struct {
	date    string
	dueOnly bool
}

func (*dueCmd) Name() string     { return "due" }
func (*dueCmd) Synopsis() string { return "list the investment income that can be claimed" }
func (*dueCmd) Usage() string {
	return `cb due [-d <date>] [-due]

  Lists, for every certificate, the unclaimed monthly income that is due on
  the date, and the income becoming due this month or next month.
`
}

func (c *dueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Date to evaluate on (defaults to today).")
	f.BoolVar(&c.dueOnly, "due", false, "Only list the income already due.")
}

func (c *dueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	report, _, err := claimableReport(ctx, a.book, today)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.dueOnly {
		report.Upcoming = nil
	}
	printMarkdown(renderer.Claimable(report))
	return subcommands.ExitSuccess
}

// claimableReport computes the claimable items of the book on today.
func claimableReport(ctx context.Context, book cashbook.InvestmentSource, today date.Date) (*renderer.ClaimableReport, []cashbook.ClaimableIncome, error) {
	investments, err := book.Investments(ctx)
	if err != nil {
		return nil, nil, err
	}
	items := cashbook.Claimable(investments, today)
	return renderer.NewClaimableReport(items, today, cashbook.CurrentMonthlyTotal(investments, today)), items, nil
}
