package pidfile

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/phantomit/errors"
)

// deadPID is far above any default pid_max, so no live process has it.
const deadPID = 1 << 30

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", ".phantomit.pid")

	require.NoError(t, Acquire(path, os.Getpid()))

	running, pid, err := IsRunning(path)
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, os.Getpid(), pid)

	err = Acquire(path, os.Getpid())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeDaemonRunning))

	require.NoError(t, Release(path))
	require.NoError(t, Release(path))

	running, _, err = IsRunning(path)
	require.NoError(t, err)
	assert.False(t, running)
}

func TestAcquireReplacesStaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".phantomit.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(deadPID)), 0644))

	running, pid, err := IsRunning(path)
	require.NoError(t, err)
	assert.False(t, running)
	assert.Equal(t, deadPID, pid)

	require.NoError(t, Acquire(path, 4242))
	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, 4242, got)
}

func TestReleaseIfOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".phantomit.pid")
	require.NoError(t, os.WriteFile(path, []byte("100"), 0644))

	require.NoError(t, ReleaseIfOwner(path, 200))
	assert.FileExists(t, path)

	require.NoError(t, ReleaseIfOwner(path, 100))
	assert.NoFileExists(t, path)
}

func TestReadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".phantomit.pid")
	require.NoError(t, os.WriteFile(path, []byte("not a pid"), 0644))

	_, _, err := IsRunning(path)
	assert.Error(t, err)
}
