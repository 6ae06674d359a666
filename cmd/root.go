// Package cmd implements the phantomit command line.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grovetools/phantomit/cli"
)

// NewRootCmd assembles the phantomit command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"phantomit",
		"Commit your work automatically with AI-written messages",
	)
	root.Long = "phantomit watches a git repository and commits (and pushes) changes on an interval, " +
		"after a number of changed lines, on every save, or on demand. Commit messages are written " +
		"by a language model from the staged diff."
	root.Example = `# set up the current project
phantomit init

# commit every 30 minutes
phantomit watch --every 30

# commit after each burst of saves, in the background
phantomit watch --on-save --daemon

# one-shot commit
phantomit push`

	root.AddCommand(
		NewInitCmd(),
		NewPushCmd(),
		NewWatchCmd(),
		NewStopCmd(),
		NewStatusCmd(),
		NewLogsCmd(),
		NewConfigCmd(),
		cli.NewVersionCommand("phantomit"),
	)
	return root
}
