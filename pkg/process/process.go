package process

import (
	"os"
	"syscall"
)

// IsProcessAlive checks if a process with the given PID is still running.
// It uses a signal-sending method that works on Unix-like systems (macOS, Linux).
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}

	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Signal 0 checks for existence. EPERM means the process exists but
	// belongs to someone else.
	err = p.Signal(syscall.Signal(0))
	return err == nil || os.IsPermission(err)
}

// Terminate asks pid to shut down with SIGTERM.
func Terminate(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Signal(syscall.SIGTERM)
}
