package cmd

import (
	"cmp"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/networth/logger"
	"github.com/etnz/networth/renderer"
	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
)

type watchCmd struct {
	summaryCmd
	schedule string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "refresh the summary periodically" }
func (*watchCmd) Usage() string {
	return `nw watch [-schedule <spec>] [summary flags]

  Displays the summary, then refreshes it with fresh quotes on a cron schedule
  ("@every 10m", "*/15 9-17 * * 1-5") until interrupted.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	c.setOptionFlags(f)
	f.StringVar(&c.schedule, "schedule", "", "cron schedule of the refresh, defaults to the configuration")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	opts, err := c.options()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	a, err := open(ctx)
	if err != nil {
		return exitStatus(err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := newWatcher(a, opts)
	w.refresh(ctx)

	r := cron.New(cron.WithLogger(cronLogger{a.log}), cron.WithChain(cron.SkipIfStillRunning(cronLogger{a.log})))
	schedule := cmp.Or(c.schedule, a.cfg.Watch.Schedule)
	if _, err := r.AddFunc(schedule, func() { w.refresh(ctx) }); err != nil {
		fmt.Fprintf(os.Stderr, "invalid schedule %q: %v\n", schedule, err)
		return subcommands.ExitUsageError
	}
	r.Start()
	a.log.Infof("watching on %q", schedule)

	<-ctx.Done()
	<-r.Stop().Done()
	return subcommands.ExitSuccess
}

// watcher renders the summary with fresh quotes.
type watcher struct {
	a    *app
	opts renderer.SummaryOptions
	now  func() time.Time
}

func newWatcher(a *app, opts renderer.SummaryOptions) *watcher {
	return &watcher{a: a, opts: opts, now: time.Now}
}

func (w *watcher) refresh(ctx context.Context) {
	w.a.quotes.Invalidate()
	md, err := w.a.summary(ctx, w.opts)
	if err != nil {
		w.a.log.Errorf("refresh: %v", err)
		return
	}
	printMarkdown(md + "\n_Refreshed at " + w.now().Format("2006-01-02 15:04:05") + "._\n")
}

// cronLogger adapts the logger to the cron scheduler.
type cronLogger struct{ log logger.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.With(keysAndValues...).Debugf("cron: %s", msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.With(keysAndValues...).Errorf("cron: %s: %v", msg, err)
}
