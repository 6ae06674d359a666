package daemon

import (
	"bytes"
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"

	"github.com/hpcloud/tail"
)

// Tail returns the last n non-empty lines of the daemon log. A missing log
// yields no lines.
func (h Handle) Tail(n int) ([]string, error) {
	lines, _, err := lastLines(h.LogFile, n)
	return lines, err
}

// Follow writes the last n lines of the daemon log to w, then every line
// appended after them until ctx is done.
func (h Handle) Follow(ctx context.Context, w io.Writer, n int) error {
	lines, offset, err := lastLines(h.LogFile, n)
	if err != nil {
		return err
	}
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}

	t, err := tail.TailFile(h.LogFile, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Location: &tail.SeekInfo{Offset: offset, Whence: io.SeekStart},
		Logger:   stdlog.New(io.Discard, "", 0),
	})
	if err != nil {
		return fmt.Errorf("failed to follow %s: %w", h.LogFile, err)
	}
	defer t.Cleanup()
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil {
				return line.Err
			}
			fmt.Fprintln(w, line.Text)
		}
	}
}

// lastLines also returns the size read, so a follower can resume exactly
// where the snapshot ended.
func lastLines(path string, n int) ([]string, int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, err
	}

	var lines []string
	for _, l := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(l)) > 0 {
			lines = append(lines, string(l))
		}
	}
	if n >= 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, int64(len(data)), nil
}
