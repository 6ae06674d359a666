// Package daemon runs a watcher in the background, detached from the
// terminal that started it, and keeps its PID and activity log next to the
// project.
package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/grovetools/phantomit/errors"
	"github.com/grovetools/phantomit/internal/daemon/pidfile"
	"github.com/grovetools/phantomit/pkg/process"
)

const (
	PIDFileName = ".phantomit.pid"
	LogFileName = ".phantomit.log"

	// ChildEnv marks the re-executed background process.
	ChildEnv = "PHANTOMIT_DAEMON_CHILD"
)

// Handle locates the PID and log files of one project's daemon.
type Handle struct {
	PIDFile string
	LogFile string
}

// NewHandle returns the handle for the project rooted at root.
func NewHandle(root string) Handle {
	return Handle{
		PIDFile: filepath.Join(root, PIDFileName),
		LogFile: filepath.Join(root, LogFileName),
	}
}

// IsChild reports whether the current process is a spawned daemon.
func IsChild() bool {
	return os.Getenv(ChildEnv) == "1"
}

// Running reports the live daemon's PID. A PID file naming a dead process is
// removed.
func (h Handle) Running() (bool, int, error) {
	running, pid, err := pidfile.IsRunning(h.PIDFile)
	if err != nil {
		return false, 0, err
	}
	if !running && pid != 0 {
		_ = pidfile.Release(h.PIDFile)
		return false, 0, nil
	}
	return running, pid, nil
}

// Start re-executes the current binary with args as a detached daemon.
func (h Handle) Start(dir string, args ...string) (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternal, "cannot locate phantomit executable")
	}
	return h.Spawn(dir, exe, args...)
}

// Spawn starts name in its own session with stdout and stderr appended to the
// log file, and records its PID. It refuses while a live daemon exists.
func (h Handle) Spawn(dir, name string, args ...string) (int, error) {
	running, pid, err := h.Running()
	if err != nil {
		return 0, err
	}
	if running {
		return 0, errors.DaemonRunning(pid)
	}

	logFile, err := os.OpenFile(h.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open daemon log: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), ChildEnv+"=1")
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, errors.CommandFailed(name, args, "", err)
	}
	pid = cmd.Process.Pid

	if err := pidfile.Acquire(h.PIDFile, pid); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return 0, err
	}
	_ = cmd.Process.Release()
	return pid, nil
}

// Stop sends SIGTERM to the daemon and removes its PID file.
func (h Handle) Stop() (int, error) {
	running, pid, err := h.Running()
	if err != nil {
		return 0, err
	}
	if !running {
		return 0, errors.DaemonNotRunning(h.PIDFile)
	}

	if err := process.Terminate(pid); err != nil {
		return pid, errors.Wrap(err, errors.ErrCodeInternal, fmt.Sprintf("could not stop process %d", pid)).
			WithDetail("pid", pid)
	}
	if err := pidfile.Release(h.PIDFile); err != nil {
		return pid, err
	}
	return pid, nil
}

// Detach is called by the daemon itself on shutdown. It clears the PID file
// unless another daemon has taken it over.
func (h Handle) Detach() error {
	return pidfile.ReleaseIfOwner(h.PIDFile, os.Getpid())
}
