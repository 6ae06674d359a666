package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/phantomit/config"
	"github.com/grovetools/phantomit/errors"
	"github.com/grovetools/phantomit/ignore"
)

func newTestSource(t *testing.T, root string, roots []string, stability time.Duration) *FSNotifySource {
	t.Helper()
	logger, _ := test.NewNullLogger()
	src, err := NewFSNotifySource(root, roots, SourceOptions{Stability: stability, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })
	return src
}

// collect gathers events for d.
func collect(src Source, d time.Duration) []FileChangeEvent {
	var out []FileChangeEvent
	deadline := time.After(d)
	for {
		select {
		case ev, ok := <-src.Events():
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-deadline:
			return out
		}
	}
}

func waitFor(t *testing.T, src Source, path string) FileChangeEvent {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-src.Events():
			if ev.Path == path {
				return ev
			}
		case <-deadline:
			t.Fatalf("no event for %s", path)
			return FileChangeEvent{}
		}
	}
}

func TestNewFSNotifySourceFailsWithoutRoots(t *testing.T) {
	logger, _ := test.NewNullLogger()
	_, err := NewFSNotifySource(t.TempDir(), []string{"src", "app"}, SourceOptions{Logger: logger})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeWatchInitFailed))
}

func TestFSNotifySourceReportsChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "pkg"), 0755))

	src := newTestSource(t, root, []string{"src", "missing"}, 0)

	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "pkg", "a.go"), []byte("package a"), 0644))
	ev := waitFor(t, src, "src/pkg/a.go")
	assert.Contains(t, []EventKind{Created, Modified}, ev.Kind)

	require.NoError(t, os.Remove(filepath.Join(root, "src", "pkg", "a.go")))
	ev = waitFor(t, src, "src/pkg/a.go")
	for ev.Kind != Removed {
		ev = waitFor(t, src, "src/pkg/a.go")
	}
	assert.Equal(t, Removed, ev.Kind)
}

func TestFSNotifySourceDropsHiddenPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", ".cache"), 0755))

	src := newTestSource(t, root, []string{"src"}, 0)

	require.NoError(t, os.WriteFile(filepath.Join(root, "src", ".env"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "visible.go"), []byte("x"), 0644))

	events := collect(src, 300*time.Millisecond)
	require.NotEmpty(t, events)
	for _, ev := range events {
		assert.Equal(t, "src/visible.go", ev.Path)
	}
}

func TestFSNotifySourceFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))

	src := newTestSource(t, root, []string{"src"}, 0)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "feature"), 0755))
	ev := waitFor(t, src, "src/feature")
	assert.Equal(t, DirCreated, ev.Kind)

	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "feature", "f.go"), []byte("x"), 0644))
	waitFor(t, src, "src/feature/f.go")
}

func TestFSNotifySourceCoalescesUnstableWrites(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))
	path := filepath.Join(root, "src", "big.txt")

	src := newTestSource(t, root, []string{"src"}, 150*time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0644))
		time.Sleep(20 * time.Millisecond)
	}

	events := collect(src, 600*time.Millisecond)
	require.Len(t, events, 1)
	assert.Equal(t, "src/big.txt", events[0].Path)
	assert.Equal(t, Modified, events[0].Kind)
}

func TestFSNotifySourceCloseIsIdempotent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0755))

	logger, _ := test.NewNullLogger()
	src, err := NewFSNotifySource(root, []string{"src"}, SourceOptions{Logger: logger})
	require.NoError(t, err)

	assert.NoError(t, src.Close())
	assert.NoError(t, src.Close())

	_, ok := <-src.Events()
	assert.False(t, ok)
}

func TestWatchSkipsIgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "node_modules", "dep"), 0755))

	cfg := config.Default()
	cfg.Watch = []string{"src"}
	cfg.Debounce = 0.05
	cfg.Stability = 0

	logger, _ := test.NewNullLogger()
	resolver := ignore.NewResolver(root, cfg.IgnoreSyntax, cfg.Ignore, logger)

	batches := make(chan []FileChangeEvent, 4)
	stop, err := Watch(root, cfg, resolver, logger, func(b []FileChangeEvent) { batches <- b })
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "node_modules", "dep", "i.js"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "debug.log"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), []byte("x"), 0644))

	select {
	case b := <-batches:
		require.Len(t, b, 1)
		assert.Equal(t, "src/main.go", b[0].Path)
	case <-time.After(3 * time.Second):
		t.Fatal("no batch delivered")
	}
}
