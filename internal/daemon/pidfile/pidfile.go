// Package pidfile records which process owns a background watcher.
package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grovetools/phantomit/errors"
	"github.com/grovetools/phantomit/pkg/process"
)

// Acquire records pid in the file. It fails with DAEMON_RUNNING if the file
// names a live process; a stale file is replaced.
func Acquire(path string, pid int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create pid directory: %w", err)
	}

	if existing, err := Read(path); err == nil {
		if process.IsProcessAlive(existing) {
			return errors.DaemonRunning(existing)
		}
		_ = os.Remove(path)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0644); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}
	return nil
}

// Release removes the PID file. A missing file is not an error.
func Release(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ReleaseIfOwner removes the file only while it still names pid, so an
// exiting process never deletes the record of its successor.
func ReleaseIfOwner(path string, pid int) error {
	current, err := Read(path)
	if err != nil || current != pid {
		return nil
	}
	return Release(path)
}

// Read returns the PID stored in the file.
func Read(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(content)))
}

// IsRunning reports whether the process named by the file is alive. A
// missing file means not running.
func IsRunning(path string) (bool, int, error) {
	pid, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return process.IsProcessAlive(pid), pid, nil
}
