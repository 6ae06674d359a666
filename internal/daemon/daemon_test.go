package daemon

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/phantomit/cycle"
	"github.com/grovetools/phantomit/errors"
	"github.com/grovetools/phantomit/internal/daemon/pidfile"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestNewHandle(t *testing.T) {
	h := NewHandle("/repo")
	assert.Equal(t, "/repo/.phantomit.pid", h.PIDFile)
	assert.Equal(t, "/repo/.phantomit.log", h.LogFile)
}

func TestSpawnAndStop(t *testing.T) {
	dir := t.TempDir()
	h := NewHandle(dir)

	pid, err := h.Spawn(dir, "sh", "-c", "echo started; sleep 30")
	require.NoError(t, err)
	assert.Greater(t, pid, 0)

	recorded, err := pidfile.Read(h.PIDFile)
	require.NoError(t, err)
	assert.Equal(t, pid, recorded)

	_, err = h.Spawn(dir, "sleep", "30")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeDaemonRunning))

	assert.Eventually(t, func() bool {
		lines, _ := h.Tail(5)
		return len(lines) == 1 && lines[0] == "started"
	}, 5*time.Second, 20*time.Millisecond)

	stopped, err := h.Stop()
	require.NoError(t, err)
	assert.Equal(t, pid, stopped)
	assert.NoFileExists(t, h.PIDFile)

	_, err = h.Stop()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeDaemonNotRunning))
}

func TestRunningRemovesStalePIDFile(t *testing.T) {
	h := NewHandle(t.TempDir())
	require.NoError(t, os.WriteFile(h.PIDFile, []byte(strconv.Itoa(1<<30)), 0644))

	running, pid, err := h.Running()
	require.NoError(t, err)
	assert.False(t, running)
	assert.Zero(t, pid)
	assert.NoFileExists(t, h.PIDFile)
}

func TestDetachKeepsForeignPIDFile(t *testing.T) {
	h := NewHandle(t.TempDir())
	require.NoError(t, os.WriteFile(h.PIDFile, []byte("1"), 0644))
	require.NoError(t, h.Detach())
	assert.FileExists(t, h.PIDFile)

	require.NoError(t, os.WriteFile(h.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0644))
	require.NoError(t, h.Detach())
	assert.NoFileExists(t, h.PIDFile)
}

func TestTail(t *testing.T) {
	h := NewHandle(t.TempDir())

	lines, err := h.Tail(5)
	require.NoError(t, err)
	assert.Empty(t, lines)

	var content strings.Builder
	for i := 1; i <= 8; i++ {
		fmt.Fprintf(&content, "line %d\n\n", i)
	}
	require.NoError(t, os.WriteFile(h.LogFile, []byte(content.String()), 0644))

	lines, err = h.Tail(5)
	require.NoError(t, err)
	assert.Equal(t, []string{"line 4", "line 5", "line 6", "line 7", "line 8"}, lines)

	lines, err = h.Tail(-1)
	require.NoError(t, err)
	assert.Len(t, lines, 8)
}

func TestFollow(t *testing.T) {
	h := NewHandle(t.TempDir())
	require.NoError(t, os.WriteFile(h.LogFile, []byte("old 1\nold 2\nold 3\n"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- h.Follow(ctx, out, 2) }()

	assert.Eventually(t, func() bool {
		return out.String() == "old 2\nold 3\n"
	}, 2*time.Second, 10*time.Millisecond)

	f, err := os.OpenFile(h.LogFile, os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("new 1\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Eventually(t, func() bool {
		return strings.HasSuffix(out.String(), "new 1\n")
	}, 5*time.Second, 20*time.Millisecond)
	assert.NotContains(t, out.String(), "old 1")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Follow did not return after cancel")
	}
}

func TestJournal(t *testing.T) {
	var buf bytes.Buffer
	j := NewJournal(&buf)
	j.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	var recorder cycle.Recorder = j
	recorder.Record(&cycle.Outcome{Kind: cycle.Committed, Message: "feat: add thing", Pushed: true}, nil)
	recorder.Record(&cycle.Outcome{Kind: cycle.NoChanges}, nil)
	recorder.Record(&cycle.Outcome{Kind: cycle.Committed, Message: "fix: other", PushErr: fmt.Errorf("rejected")}, nil)
	recorder.Record(nil, errors.GitFailed("commit", fmt.Errorf("hook failed\nsecond line")))
	recorder.Record(nil, errors.GenerationFailed(fmt.Errorf("status 401")))

	want := strings.Join([]string{
		"[2026-03-01T12:00:00Z] committed: feat: add thing",
		"[2026-03-01T12:00:00Z] committed: fix: other",
		"[2026-03-01T12:00:00Z] error: push failed: rejected",
		"[2026-03-01T12:00:00Z] error: git commit failed: hook failed second line",
		"[2026-03-01T12:00:00Z] AI error: commit message generation failed: status 401",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestOpenJournalAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), LogFileName)
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0644))

	j, closer, err := OpenJournal(path)
	require.NoError(t, err)
	j.Record(&cycle.Outcome{Kind: cycle.Skipped, Message: "chore: x"}, nil)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "existing", lines[0])
	assert.Contains(t, lines[1], "skipped: chore: x")
}
