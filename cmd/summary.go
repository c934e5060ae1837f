package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	date string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the totals of the book" }
func (*summaryCmd) Usage() string {
	return `cb summary [-d <date>]

  Displays the total income, expenses and invested principal of the records up
  to the date, the net balance, and the monthly interest earned on that date.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Date for the summary. See the user manual for supported date formats.")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDay(c.date)
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

	all, err := a.book.All(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	accounts, err := a.book.Accounts(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	var upTo []cashbook.Transaction
	for _, tx := range all {
		if !tx.When().After(on) {
			upTo = append(upTo, tx)
		}
	}

	printMarkdown(renderer.Summary(renderer.NewSummaryReport(a.name, cashbook.Summarize(upTo, on), on, accounts)))
	return subcommands.ExitSuccess
}
