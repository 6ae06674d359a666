package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/grovetools/phantomit/command"
)

// IsGitRepo checks if the given directory is inside a git repository
func IsGitRepo(dir string) bool {
	cmd, err := command.NewSafeBuilder().Build(context.Background(), "git", "rev-parse", "--git-dir")
	if err != nil {
		return false
	}
	return cmd.InDir(dir).Run() == nil
}

// GetGitRoot returns the root directory of the git repository
func GetGitRoot(dir string) (string, error) {
	cmd, err := command.NewSafeBuilder().Build(context.Background(), "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("failed to build command: %w", err)
	}
	output, err := cmd.InDir(dir).Output()
	if err != nil {
		return "", fmt.Errorf("get git root: %w", err)
	}

	return strings.TrimSpace(output), nil
}
