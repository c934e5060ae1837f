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

type txCmd struct {
	period string
	start  string
	date   string
	kind   string
	head   int
	tail   int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the records of the book, newest first" }
func (*txCmd) Usage() string {
	return `cb tx [-p <period> | -s <start_date>] [-d <end_date>] [-kind <kind>] [-head <n>] [-tail <n>]

  Lists records, newest first, with options for filtering and limiting the output.
  -head keeps the newest records, -tail the oldest.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.period, "p", "", "Predefined period (day, week, month, quarter, year).")
	f.StringVar(&p.start, "s", "", "The start date for a custom range. Overrides -p.")
	f.StringVar(&p.date, "d", "", "The end date for the range.")
	f.StringVar(&p.kind, "kind", "", "Only list records of this kind (income, expense, investment).")
	f.IntVar(&p.head, "head", 0, "Show only the first N records.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N records.")
}

// selectRange returns the range selected by the flags, false for everything.
func (p *txCmd) selectRange() (date.Range, bool, error) {
	if p.start == "" && p.date == "" && p.period == "" {
		return date.Range{}, false, nil
	}
	// Default end date to today if not provided
	end, err := parseDay(p.date)
	if err != nil {
		return date.Range{}, false, fmt.Errorf("error parsing end date: %w", err)
	}
	if p.start != "" {
		start, err := parseDay(p.start)
		if err != nil {
			return date.Range{}, false, fmt.Errorf("error parsing start date: %w", err)
		}
		return date.Range{From: start, To: end}, true, nil
	}
	if p.period == "" {
		return date.Range{To: end}, true, nil
	}
	period, err := date.ParsePeriod(p.period)
	if err != nil {
		return date.Range{}, false, fmt.Errorf("error parsing period: %w", err)
	}
	return date.NewRange(end, period), true, nil
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}
	periodRange, filtered, err := p.selectRange()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
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

	var transactions []cashbook.Transaction
	for _, tx := range all {
		if p.kind != "" && tx.What() != cashbook.Kind(p.kind) {
			continue
		}
		if filtered && !periodRange.Contains(tx.When()) {
			continue
		}
		transactions = append(transactions, tx)
	}

	// The report lists newest first: head keeps the end of the chronological list.
	if p.head > 0 && len(transactions) > p.head {
		transactions = transactions[len(transactions)-p.head:]
	}
	if p.tail > 0 && len(transactions) > p.tail {
		transactions = transactions[:p.tail]
	}

	title := "Transactions"
	if filtered {
		title = fmt.Sprintf("Transactions %s", periodRange)
	}
	printMarkdown(renderer.Transactions(renderer.NewTransactionsReport(title, transactions, accounts)))
	return subcommands.ExitSuccess
}
