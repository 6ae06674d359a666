package errors

import (
	goerrors "errors"
	"fmt"
	"os/exec"
	"strings"
)

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(path string, err error) *PhantomitError {
	return Wrap(err, ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", path)).
		WithDetail("path", path)
}

// NotGitRepo is returned when a command needs a git repository and dir is not one.
func NotGitRepo(dir string) *PhantomitError {
	return New(ErrCodeNotGitRepo, fmt.Sprintf("not a git repository: %s", dir)).
		WithDetail("dir", dir)
}

// GitFailed wraps a failed git operation.
func GitFailed(op string, err error) *PhantomitError {
	return Wrap(err, ErrCodeGitFailed, fmt.Sprintf("git %s failed", op)).
		WithDetail("operation", op)
}

// CommandFailed creates a command execution failure error
func CommandFailed(name string, args []string, output string, err error) *PhantomitError {
	cmd := strings.TrimSpace(name + " " + strings.Join(args, " "))
	e := Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", cmd)).
		WithDetail("command", cmd)

	if output = strings.TrimSpace(output); output != "" {
		e = e.WithDetail("output", output)
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		e = e.WithDetail("exitCode", exitErr.ExitCode())
	}
	if goerrors.Is(err, exec.ErrNotFound) {
		e.Code = ErrCodeCommandNotFound
	}

	return e
}

// GenerationFailed wraps a failed commit message request.
func GenerationFailed(err error) *PhantomitError {
	return Wrap(err, ErrCodeGenerationFailed, "commit message generation failed")
}

// WatchInitFailed is returned when the filesystem subscription cannot be set up.
func WatchInitFailed(root string, err error) *PhantomitError {
	return Wrap(err, ErrCodeWatchInitFailed, fmt.Sprintf("cannot watch %s", root)).
		WithDetail("root", root)
}

// DaemonRunning is returned when a background watcher already owns the project.
func DaemonRunning(pid int) *PhantomitError {
	return New(ErrCodeDaemonRunning, fmt.Sprintf("phantomit already running (pid %d)", pid)).
		WithDetail("pid", pid)
}

// DaemonNotRunning is returned when no live background watcher owns pidFile.
func DaemonNotRunning(pidFile string) *PhantomitError {
	return New(ErrCodeDaemonNotRunning, "no phantomit daemon running").
		WithDetail("pidFile", pidFile)
}
