package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/date"
	"github.com/etnz/cashbook/renderer"
	"github.com/google/subcommands"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type watchCmd struct {
	schedule  string
	autoClaim bool
	once      bool
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "periodically report, or claim, due investment income" }
func (*watchCmd) Usage() string {
	return `cb watch [-schedule <cron>] [-auto-claim] [-once]

  Runs until interrupted. On every tick of the schedule (a standard 5-field
  cron expression, "0 8 * * *" by default) it prints the due income, or claims
  it with -auto-claim. Schedule and auto-claim default to the [watch] section
  of the configuration.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedule, "schedule", "", "Cron schedule, overrides the configuration.")
	f.BoolVar(&c.autoClaim, "auto-claim", false, "Claim due income instead of only reporting it.")
	f.BoolVar(&c.once, "once", false, "Run a single scan now and exit.")
}

// watcher runs the periodic scan.
type watcher struct {
	book      cashbook.Book
	committer *cashbook.Committer
	registry  *prometheus.Registry
	log       logrus.FieldLogger
	autoClaim bool
	out       io.Writer
}

// scan claims (when enabled) and reports what is due on today.
func (w *watcher) scan(ctx context.Context, today date.Date) error {
	log := w.log.WithField("date", today.String())
	if w.autoClaim {
		incomes, err := w.committer.ClaimDue(ctx, today)
		for _, income := range incomes {
			fmt.Fprintf(w.out, "Claimed %s on %s: %s\n", income.Amount, income.Date, income.Description)
		}
		if err != nil {
			return err
		}
		log.WithField("claimed", len(incomes)).Info("due income claimed")
	}
	report, items, err := claimableReport(ctx, w.book, today)
	if err != nil {
		return err
	}
	due := cashbook.DueOnly(items)
	printed := renderer.ConditionalBlock(w.out, func(out io.Writer) bool {
		fmt.Fprint(out, renderer.Claimable(report))
		return len(due) > 0
	})
	log.WithFields(logrus.Fields{"due": len(due), "reported": printed}).Debug("scan done")
	logMetrics(w.log, w.registry)
	return nil
}

// logMetrics logs the claim counters gathered from reg at debug level.
func logMetrics(log logrus.FieldLogger, reg prometheus.Gatherer) {
	families, err := reg.Gather()
	if err != nil {
		log.WithError(err).Warn("could not gather metrics")
		return
	}
	fields := logrus.Fields{}
	for _, mf := range families {
		var total float64
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		fields[mf.GetName()] = total
	}
	log.WithFields(fields).Debug("claim metrics")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	registry := prometheus.NewRegistry()
	w := &watcher{
		book:      a.book,
		committer: cashbook.NewCommitter(a.book, a.log, cashbook.NewMetrics(registry)),
		registry:  registry,
		log:       a.log,
		autoClaim: c.autoClaim || a.cfg.Watch.AutoClaim,
		out:       stdout,
	}

	if c.once {
		if err := w.scan(ctx, date.Today()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	schedule := a.cfg.Watch.Schedule
	if c.schedule != "" {
		schedule = c.schedule
	}
	scheduler := cron.New(cron.WithLogger(cron.PrintfLogger(a.log)))
	_, err = scheduler.AddFunc(schedule, func() {
		if err := w.scan(ctx, date.Today()); err != nil {
			a.log.WithError(err).Error("scan failed")
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid schedule %q: %v\n", schedule, err)
		return subcommands.ExitUsageError
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.log.WithField("schedule", schedule).Info("watching for due income")
	scheduler.Start()
	<-ctx.Done()
	<-scheduler.Stop().Done()
	a.log.Info("stopped")
	return subcommands.ExitSuccess
}
