package daemon

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/grovetools/phantomit/cycle"
	"github.com/grovetools/phantomit/errors"
)

// Journal appends one timestamped line per commit cycle to the daemon log.
// Cycles that change nothing leave no trace.
type Journal struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewJournal writes entries to w.
func NewJournal(w io.Writer) *Journal {
	return &Journal{w: w, now: time.Now}
}

// OpenJournal appends to the log file at path.
func OpenJournal(path string) (*Journal, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open daemon log: %w", err)
	}
	return NewJournal(f), f, nil
}

// Record implements cycle.Recorder.
func (j *Journal) Record(o *cycle.Outcome, err error) {
	switch {
	case err != nil:
		label := "error"
		if errors.Is(err, errors.ErrCodeGenerationFailed) || errors.Is(err, errors.ErrCodeNoAPIKey) {
			label = "AI error"
		}
		j.write(label, describe(err))
	case o == nil:
	case o.Kind == cycle.Committed:
		j.write("committed", o.Message)
		if o.PushErr != nil {
			j.write("error", "push failed: "+describe(o.PushErr))
		}
	case o.Kind == cycle.Skipped:
		j.write("skipped", o.Message)
	}
}

func (j *Journal) write(label, text string) {
	text = strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")

	j.mu.Lock()
	defer j.mu.Unlock()
	fmt.Fprintf(j.w, "[%s] %s: %s\n", j.now().UTC().Format(time.RFC3339), label, text)
}

// describe drops the error code prefix, which means nothing in the log.
func describe(err error) string {
	e, ok := errors.As(err)
	if !ok {
		return err.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}
