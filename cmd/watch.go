package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/grovetools/phantomit/cli"
	"github.com/grovetools/phantomit/config"
	"github.com/grovetools/phantomit/cycle"
	"github.com/grovetools/phantomit/errors"
	"github.com/grovetools/phantomit/ignore"
	"github.com/grovetools/phantomit/internal/daemon"
	"github.com/grovetools/phantomit/logging"
	"github.com/grovetools/phantomit/scheduler"
	"github.com/grovetools/phantomit/watcher"
)

type watchOptions struct {
	every  float64
	lines  int
	onSave bool
	manual bool
	daemon bool
	mock   bool
}

// overrides maps the mode flags onto the loaded configuration.
func (o watchOptions) overrides() (config.Overrides, error) {
	var ov config.Overrides
	switch {
	case o.every < 0:
		return ov, errors.New(errors.ErrCodeInvalidInput, "--every must be positive")
	case o.lines < 0:
		return ov, errors.New(errors.ErrCodeInvalidInput, "--lines must be positive")
	case o.every > 0:
		ov.Mode, ov.Interval = config.ModeInterval, o.every
	case o.lines > 0:
		ov.Mode, ov.Lines = config.ModeLines, o.lines
	case o.onSave:
		ov.Mode = config.ModeOnSave
	case o.manual:
		ov.Mode = config.ModeManual
	}
	return ov, nil
}

func NewWatchCmd() *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Commit automatically while you work",
		Long: "Watches the project and runs a commit cycle according to the trigger mode. " +
			"Without a mode flag the mode from .phantomit.json is used.",
		Example: `phantomit watch --every 30
phantomit watch --lines 20
phantomit watch --on-save --daemon
# manual mode: trigger with phantomit push or kill -USR1 <pid>
phantomit watch --manual`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.every, "every", 0, "Commit every N minutes when there are changes")
	cmd.Flags().IntVar(&opts.lines, "lines", 0, "Commit once N lines have changed")
	cmd.Flags().BoolVar(&opts.onSave, "on-save", false, "Commit after each burst of saves")
	cmd.Flags().BoolVar(&opts.manual, "manual", false, "Only commit when asked")
	cmd.Flags().BoolVar(&opts.daemon, "daemon", false, "Run in the background")
	cmd.Flags().BoolVar(&opts.mock, "mock", false, "Use canned commit messages instead of the API")
	cmd.MarkFlagsMutuallyExclusive("every", "lines", "on-save", "manual")
	return cmd
}

func runWatch(cmd *cobra.Command, opts watchOptions) error {
	ov, err := opts.overrides()
	if err != nil {
		return err
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	cfg := a.cfg.WithOverrides(ov)
	handle := daemon.NewHandle(a.root)
	child := daemon.IsChild()

	gen, err := a.generator(opts.mock)
	if err != nil {
		return err
	}

	if opts.daemon && !child {
		return startDaemon(cmd, a, cfg, handle)
	}

	var (
		composer  cycle.Composer
		recorders []cycle.Recorder
	)
	if child {
		// stdout and stderr already append to the daemon log.
		routeDaemonLogs(os.Stderr, cli.GetOptions(cmd).Verbose)
		journal, closer, err := daemon.OpenJournal(handle.LogFile)
		if err != nil {
			return err
		}
		defer closer.Close()
		defer func() {
			if err := handle.Detach(); err != nil {
				a.log.WithError(err).Warn("Could not remove PID file")
			}
		}()

		composer = cycle.AutoComposer{Generator: gen, Mock: opts.mock}
		recorders = append(recorders, journal)
	} else {
		composer = a.reviewComposer(cfg, gen, opts.mock)
		recorders = append(recorders, cycle.LogRecorder(a.log), consoleRecorder{
			pretty:     a.pretty,
			remote:     cfg.Remote,
			branch:     cfg.Branch,
			showErrors: true,
		})
	}
	orch := a.orchestrator(cfg, composer, recorders...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var batches chan []watcher.FileChangeEvent
	if cfg.Mode == config.ModeLines || cfg.Mode == config.ModeOnSave {
		batches = make(chan []watcher.FileChangeEvent, 1)
		resolver := ignore.NewResolver(a.root, cfg.IgnoreSyntax, cfg.Ignore, a.log)

		stopWatch, err := watcher.Watch(a.root, cfg, resolver, a.log, func(batch []watcher.FileChangeEvent) {
			if !child && cfg.Mode == config.ModeOnSave {
				a.pretty.Muted("  saved: " + summarize(batch))
			}
			select {
			case batches <- batch:
			case <-ctx.Done():
			}
		})
		if err != nil {
			return err
		}
		defer stopWatch()
	}

	sched := scheduler.New(cfg, scheduler.Deps{
		Changes: a.repo,
		Cycle:   orch,
		Batches: batches,
		Logger:  a.log,
	})

	if cfg.Mode == config.ModeManual {
		go fireOnSignal(ctx, sched, syscall.SIGUSR1)
	}

	if !child {
		printBanner(a, cfg)
	}
	a.log.WithFields(logrus.Fields{
		"mode": string(cfg.Mode),
		"pid":  os.Getpid(),
	}).Info("Watcher started")

	err = sched.Run(ctx)
	st := sched.State()
	a.log.WithFields(logrus.Fields{
		"fired":   st.Fired,
		"dropped": st.Dropped,
	}).Info("Watcher stopped")
	return err
}

// routeDaemonLogs sends structured logs to w, the daemon log. The log holds
// one journal entry per cycle, so only warnings and errors join it unless
// verbose.
func routeDaemonLogs(w io.Writer, verbose bool) {
	logging.SetOutput(w)
	if !verbose {
		logging.SetLevel(logrus.WarnLevel)
	}
}

// fireOnSignal runs a manual cycle for every sig until ctx is done.
func fireOnSignal(ctx context.Context, sched *scheduler.Scheduler, sig os.Signal) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sig)
	defer signal.Stop(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			sched.Fire(ctx, scheduler.ReasonManual)
		}
	}
}

func startDaemon(cmd *cobra.Command, a *app, cfg config.WatchConfig, handle daemon.Handle) error {
	pid, err := handle.Start(a.root, childArgs(cmd.Flags(), a.root)...)
	if err != nil {
		return err
	}

	a.pretty.Success(fmt.Sprintf("phantomit daemon started (pid %d)", pid))
	a.pretty.Muted(fmt.Sprintf("  mode: %s (%s)", cfg.Mode, cfg.Describe()))
	a.pretty.Muted("  logs: phantomit status")
	a.pretty.Muted("  stop: phantomit stop")
	a.pretty.Blank()
	return nil
}

// childArgs rebuilds the watch invocation for the daemon from the flags the
// user set, minus --daemon, pinned to root.
func childArgs(flags *pflag.FlagSet, root string) []string {
	args := []string{"watch", "--dir=" + root}
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "daemon", "dir", "help":
			return
		}
		args = append(args, "--"+f.Name+"="+f.Value.String())
	})
	return args
}

func printBanner(a *app, cfg config.WatchConfig) {
	a.pretty.InfoPretty(fmt.Sprintf("  mode: %s (%s)", cfg.Mode, cfg.Describe()))
	a.pretty.Muted("  watching: " + strings.Join(cfg.Watch, ", "))
	if cfg.Mode == config.ModeManual {
		a.pretty.Muted(fmt.Sprintf("  manual mode: run phantomit push anytime, or kill -USR1 %d", os.Getpid()))
	}
	a.pretty.Muted("  press Ctrl+C to stop")
	a.pretty.Blank()
}

// summarize names the first two paths of a batch.
func summarize(batch []watcher.FileChangeEvent) string {
	var names []string
	for i, ev := range batch {
		if i == 2 {
			names = append(names, "...")
			break
		}
		names = append(names, ev.Path)
	}
	return strings.Join(names, ", ")
}
