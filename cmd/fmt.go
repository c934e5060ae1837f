package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cashbook"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `cb fmt

  Validates and formats the JSONL ledger file. This command reads all records,
  validates them, sorts them by date, and writes them back in a canonical JSONL
  format. It does nothing on a SQLite book.
`
}

func (*fmtCmd) SetFlags(*flag.FlagSet) {}

func (*fmtCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	s, ok := a.book.(*cashbook.FileStore)
	if !ok {
		fmt.Fprintf(os.Stderr, "Nothing to format, %s is not a ledger file.\n", a.name)
		return subcommands.ExitSuccess
	}
	if err := s.Format(); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting %s: %v\n", s.Path(), err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Formatted %s\n", s.Path())
	return subcommands.ExitSuccess
}
