// Package cmd implements the cb command line application to keep a cashbook.
package cmd

import (
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/config"
	"github.com/etnz/cashbook/date"
	"github.com/etnz/cashbook/sqlite"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

// Commands lists the subcommands with their group, in help order.
var Commands = []struct {
	Cmd   subcommands.Command
	Group string
}{
	{&incomeCmd{}, "records"},
	{&expenseCmd{}, "records"},
	{&investCmd{}, "records"},
	{&accountCmd{}, "records"},
	{&fmtCmd{}, "records"},

	{&txCmd{}, "reports"},
	{&summaryCmd{}, "reports"},

	{&dueCmd{}, "income"},
	{&claimCmd{}, "income"},
	{&watchCmd{}, "income"},

	{&topicCmd{}, "help"},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd.Cmd, cmd.Group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "cashbook.toml", "Path to the configuration file (TOML). A missing file means defaults.")
var ledgerFile = flag.String("ledger-file", "", "Path to the JSONL ledger, overrides the configuration and selects the jsonl store.")
var sqlitePath = flag.String("sqlite", "", "Path to the SQLite database, overrides the configuration and selects the sqlite store.")
var verbose = flag.Bool("v", false, "Log debug messages.")

// stdout is where reports are printed.
var stdout io.Writer = os.Stdout

// app is what a command needs to run: the configuration, a logger and the book.
type app struct {
	cfg  config.Config
	log  *logrus.Logger
	book cashbook.Book
	name string // name is the book name used in titles.

	close func() error
}

// loadConfig reads the configuration file, then applies the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return cfg, err
	}
	switch {
	case *ledgerFile != "":
		cfg.Store, cfg.LedgerFile = config.StoreJSONL, *ledgerFile
	case *sqlitePath != "":
		cfg.Store, cfg.SQLitePath = config.StoreSQLite, *sqlitePath
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// openApp loads the configuration and opens the configured book.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: cfg.Logger(), close: func() error { return nil }}
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.Currency, a.log)
		if err != nil {
			return nil, err
		}
		a.book, a.close, a.name = s, s.Close, bookName(cfg.SQLitePath)
	default:
		a.book, a.name = cashbook.NewFileStore(cfg.LedgerFile, cfg.Currency, a.log), bookName(cfg.LedgerFile)
	}
	a.log.WithFields(logrus.Fields{"store": cfg.Store, "book": a.name}).Debug("book opened")
	return a, nil
}

// bookName is the file name without its extension.
func bookName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseDay parses a date flag, relative forms like "-1m" are relative to today.
func parseDay(s string) (date.Date, error) {
	return date.ParseRelative(s, date.Today())
}

