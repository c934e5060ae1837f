package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/renderer"
	"github.com/google/subcommands"
)

type accountCmd struct{}

func (*accountCmd) Name() string     { return "account" }
func (*accountCmd) Synopsis() string { return "open an account, or list accounts" }
func (*accountCmd) Usage() string {
	return `cb account [<name>]

  With a name, opens a new account records can be attached to with -account.
  Without, lists the accounts.
`
}

func (*accountCmd) SetFlags(*flag.FlagSet) {}

func (*accountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if f.NArg() == 0 {
		accounts, err := a.book.Accounts(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.Accounts(accounts))
		return subcommands.ExitSuccess
	}

	acc, err := cashbook.NewAccount(strings.Join(f.Args(), " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := a.book.AddAccount(ctx, acc); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Opened account %q with id %s\n", acc.Name, acc.ID)
	return subcommands.ExitSuccess
}
