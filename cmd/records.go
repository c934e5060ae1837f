package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/date"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// recordFlags are the flags shared by every record command.
type recordFlags struct {
	date        string
	description string
	amount      string
	currency    string
	account     string
}

func (r *recordFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&r.date, "d", "0d", "Record date (YYYY-MM-DD, or relative like -3d)")
	f.StringVar(&r.description, "m", "", "Description")
	f.StringVar(&r.amount, "a", "", "Amount, e.g. 1250.50")
	f.StringVar(&r.currency, "c", "", "Currency, 3-letter code. Defaults to the configured currency")
	f.StringVar(&r.account, "account", "", "Account ID or name to attach the record to")
}

// parsed are the values of the shared flags.
type parsed struct {
	day     date.Date
	amount  cashbook.Money
	account string // account ID, "" when none
}

// parse reads the shared flags. The account reference is resolved against the book.
func (r *recordFlags) parse(ctx context.Context, a *app) (parsed, error) {
	var p parsed
	day, err := parseDay(r.date)
	if err != nil {
		return p, fmt.Errorf("invalid date: %w", err)
	}
	p.day = day
	value, err := decimal.NewFromString(r.amount)
	if err != nil {
		return p, fmt.Errorf("invalid amount %q: %w", r.amount, err)
	}
	cur := r.currency
	if cur == "" {
		cur = a.cfg.Currency
	}
	p.amount = cashbook.M(value, strings.ToUpper(cur))
	p.account, err = resolveAccount(ctx, a.book, r.account)
	return p, err
}

// resolveAccount returns the ID of the account named or identified by ref.
func resolveAccount(ctx context.Context, book cashbook.Book, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	accounts, err := book.Accounts(ctx)
	if err != nil {
		return "", err
	}
	for _, acc := range accounts {
		if acc.ID == ref || strings.EqualFold(acc.Name, ref) {
			return acc.ID, nil
		}
	}
	return "", fmt.Errorf("unknown account %q", ref)
}

// appendRecord opens the book, lets build create the record from the shared
// flags, and stores it.
func (r *recordFlags) appendRecord(ctx context.Context, build func(parsed) cashbook.Transaction) subcommands.ExitStatus {
	if r.amount == "" || r.description == "" {
		fmt.Fprintln(os.Stderr, "Error: -a and -m are required.")
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	p, err := r.parse(ctx, a)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	stored, err := a.book.Append(ctx, build(p))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Recorded %s %s in %s: %s\n", stored.What(), stored.Identifier(), a.name, stored.Value())
	return subcommands.ExitSuccess
}

// --- Income Command ---

type incomeCmd struct {
	recordFlags
	source string
}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "record money received" }
func (*incomeCmd) Usage() string {
	return `cb income -a <amount> -m <description> [-source <source>] [-d <date>] [-c <currency>] [-account <account>]

  Records an income, like a salary or a gift.
`
}

func (c *incomeCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.source, "source", "", "Where the money comes from")
}

func (c *incomeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.appendRecord(ctx, func(p parsed) cashbook.Transaction {
		tx := cashbook.NewIncome(p.day, c.description, p.amount, c.source)
		tx.AccountID = p.account
		return tx
	})
}

// --- Expense Command ---

type expenseCmd struct {
	recordFlags
	category string
}

func (*expenseCmd) Name() string     { return "expense" }
func (*expenseCmd) Synopsis() string { return "record money spent" }
func (*expenseCmd) Usage() string {
	return `cb expense -a <amount> -m <description> -category <category> [-d <date>] [-c <currency>] [-account <account>]

  Records an expense. Every expense has a category, like "Groceries" or "Rent".
`
}

func (c *expenseCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.category, "category", "", "Expense category (required)")
}

func (c *expenseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.appendRecord(ctx, func(p parsed) cashbook.Transaction {
		tx := cashbook.NewExpense(p.day, c.description, p.amount, c.category)
		tx.AccountID = p.account
		return tx
	})
}

// --- Invest Command ---

// stepDowns collects repeated -step flags.
type stepDowns []cashbook.StepDown

func (s *stepDowns) String() string {
	parts := make([]string, 0, len(*s))
	for _, step := range *s {
		parts = append(parts, fmt.Sprintf("%d:%s", step.YearTrigger, step.NewRate))
	}
	return strings.Join(parts, ",")
}

// Set parses "<year>:<rate>", e.g. "3:4.5" for 4.5% from the third year on.
func (s *stepDowns) Set(v string) error {
	year, rate, ok := strings.Cut(v, ":")
	if !ok {
		return errors.New("want <year>:<rate>")
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return fmt.Errorf("invalid year %q: %w", year, err)
	}
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return fmt.Errorf("invalid rate %q: %w", rate, err)
	}
	*s = append(*s, cashbook.StepDown{YearTrigger: y, NewRate: r})
	return nil
}

type investCmd struct {
	recordFlags
	rate  string
	term  int
	steps stepDowns
}

func (*investCmd) Name() string     { return "invest" }
func (*investCmd) Synopsis() string { return "record a certificate investment paying monthly interest" }
func (*investCmd) Usage() string {
	return `cb invest -a <principal> -m <certificate> -rate <rate> -term <years> [-step <year>:<rate>]... [-d <start>] [-c <currency>] [-account <account>]

  Records a fixed-term certificate. It pays principal * rate / 12 every month,
  claimable on the start day of the following month. A step-down changes the
  rate from the start of the given contract year, e.g. -step 3:4.5.
`
}

func (c *investCmd) SetFlags(f *flag.FlagSet) {
	c.setFlags(f)
	f.StringVar(&c.rate, "rate", "", "Initial annual rate in percent, e.g. 5 for 5%")
	f.IntVar(&c.term, "term", 1, "Term in whole years")
	f.Var(&c.steps, "step", "Rate step-down as <year>:<rate>, can be repeated")
}

func (c *investCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rate, err := decimal.NewFromString(c.rate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid rate %q: %v\n", c.rate, err)
		return subcommands.ExitUsageError
	}
	return c.appendRecord(ctx, func(p parsed) cashbook.Transaction {
		tx := cashbook.NewInvestment(p.day, c.description, p.amount, rate, c.term, c.steps...)
		tx.AccountID = p.account
		return tx
	})
}
