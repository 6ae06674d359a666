package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/grovetools/phantomit/errors"
	"github.com/grovetools/phantomit/git"
)

// CommandOptions holds the flags shared by every phantomit command.
type CommandOptions struct {
	Dir        string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a command carrying the standard flags.
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("dir", "C", "", "Run as if started in this directory")

	SetStyledHelp(cmd)
	return cmd
}

// GetOptions extracts the standard flags from a command.
func GetOptions(cmd *cobra.Command) CommandOptions {
	dir, _ := cmd.Flags().GetString("dir")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		Dir:        dir,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// WorkDir returns the absolute directory the command operates on.
func WorkDir(cmd *cobra.Command) (string, error) {
	dir := GetOptions(cmd).Dir
	if dir == "" {
		return os.Getwd()
	}
	return filepath.Abs(dir)
}

// ProjectRoot resolves the root of the git repository containing the work
// directory. It fails with NOT_GIT_REPO outside a repository.
func ProjectRoot(cmd *cobra.Command) (string, error) {
	dir, err := WorkDir(cmd)
	if err != nil {
		return "", err
	}
	if !git.IsGitRepo(dir) {
		return "", errors.NotGitRepo(dir)
	}
	return git.GetGitRoot(dir)
}
