// Package testutil holds helpers for tests that run against a real git
// repository.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireGit skips the test if git is not installed.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// RunGitCommand runs git in dir and returns its combined output.
func RunGitCommand(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s failed with output: %s", strings.Join(args, " "), string(output))
	return string(output)
}

// InitGitRepo turns dir into a repository on branch main with one commit
// holding initial.txt ("one\ntwo\nthree\n").
func InitGitRepo(t *testing.T, dir string) {
	t.Helper()
	RequireGit(t)

	RunGitCommand(t, dir, "init")
	RunGitCommand(t, dir, "config", "user.email", "test@example.com")
	RunGitCommand(t, dir, "config", "user.name", "Test User")
	RunGitCommand(t, dir, "config", "commit.gpgsign", "false")
	CreateCommit(t, dir, "initial.txt", "one\ntwo\nthree\n", "initial commit")
	RunGitCommand(t, dir, "branch", "-M", "main")
}

// NewGitRepo creates a repository in a fresh temporary directory.
func NewGitRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	InitGitRepo(t, dir)
	return dir
}

// CreateCommit writes filename and commits it with msg.
func CreateCommit(t *testing.T, dir, filename, content, msg string) {
	t.Helper()
	path := filepath.Join(dir, filename)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	RunGitCommand(t, dir, "add", filename)
	RunGitCommand(t, dir, "commit", "-m", msg)
}

// CommitSubjects returns the subjects of the commits on HEAD, newest first.
func CommitSubjects(t *testing.T, dir string) []string {
	t.Helper()
	out := strings.TrimSpace(RunGitCommand(t, dir, "log", "--pretty=%s"))
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
