package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grovetools/phantomit/cycle"
)

func NewPushCmd() *cobra.Command {
	var mock bool

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Stage, describe, commit and push once",
		Long: "Runs a single commit cycle. On a terminal the generated message can be " +
			"approved, edited or skipped before anything is committed.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			gen, err := a.generator(mock)
			if err != nil {
				return err
			}

			cfg := a.cfg
			orch := a.orchestrator(cfg, a.reviewComposer(cfg, gen, mock),
				cycle.LogRecorder(a.log),
				consoleRecorder{pretty: a.pretty, remote: cfg.Remote, branch: cfg.Branch})

			// Failures go to the error handler; the recorder reports the rest.
			_, err = orch.Run(cmd.Context())
			return err
		},
	}

	cmd.Flags().BoolVar(&mock, "mock", false, "Use canned commit messages instead of the API")
	return cmd
}
