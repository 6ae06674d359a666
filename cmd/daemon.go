package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grovetools/phantomit/cli"
	"github.com/grovetools/phantomit/internal/daemon"
	"github.com/grovetools/phantomit/logging"
)

// recentLines is how much of the daemon log status shows.
const recentLines = 5

func NewStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the background watcher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cli.WorkDir(cmd)
			if err != nil {
				return err
			}
			pid, err := daemon.NewHandle(projectDir(dir)).Stop()
			if err != nil {
				return err
			}
			logging.NewPrettyLoggerTo(cmd.OutOrStdout()).Success(fmt.Sprintf("phantomit stopped (pid %d)", pid))
			return nil
		},
	}
}

type statusReport struct {
	Running bool     `json:"running"`
	PID     int      `json:"pid,omitempty"`
	Recent  []string `json:"recent"`
}

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the background watcher runs, with its recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cli.WorkDir(cmd)
			if err != nil {
				return err
			}
			h := daemon.NewHandle(projectDir(dir))

			running, pid, err := h.Running()
			if err != nil {
				return err
			}
			recent, err := h.Tail(recentLines)
			if err != nil {
				return err
			}
			report := statusReport{Running: running, PID: pid, Recent: recent}

			if cli.GetOptions(cmd).JSONOutput {
				data, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			pretty := logging.NewPrettyLoggerTo(cmd.OutOrStdout())
			pretty.Blank()
			if running {
				pretty.Success(fmt.Sprintf("phantomit is running (pid %d)", pid))
			} else {
				pretty.Muted("  ● phantomit is not running")
			}
			if len(recent) > 0 {
				pretty.Blank()
				pretty.Muted("  recent activity:")
				for _, l := range recent {
					pretty.Muted("  " + l)
				}
			}
			pretty.Blank()
			return nil
		},
	}
}

func NewLogsCmd() *cobra.Command {
	var (
		follow bool
		lines  int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the background watcher's log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cli.WorkDir(cmd)
			if err != nil {
				return err
			}
			h := daemon.NewHandle(projectDir(dir))

			if follow {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return h.Follow(ctx, cmd.OutOrStdout(), lines)
			}

			out, err := h.Tail(lines)
			if err != nil {
				return err
			}
			for _, l := range out {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines")
	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of lines to show (-1 for all)")
	return cmd
}
