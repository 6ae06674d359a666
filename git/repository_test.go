package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/phantomit/errors"
	"github.com/grovetools/phantomit/testutil"
)

func TestParseStatSummary(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   int
		wantOK bool
	}{
		{"both", " a.go | 5 +++--\n 1 file changed, 3 insertions(+), 2 deletions(-)\n", 5, true},
		{"singular", " 1 file changed, 1 insertion(+), 1 deletion(-)\n", 2, true},
		{"insertions only", " 2 files changed, 12 insertions(+)\n", 12, true},
		{"deletions only", " 1 file changed, 7 deletions(-)\n", 7, true},
		{"empty", "", 0, false},
		{"binary only", " img.png | Bin 0 -> 12 bytes\n 1 file changed\n", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseStatSummary(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountDiffLinesCountsHeaders(t *testing.T) {
	diff := strings.Join([]string{
		"diff --git a/a.txt b/a.txt",
		"index 1..2 100644",
		"--- a/a.txt",
		"+++ b/a.txt",
		"@@ -1,2 +1,2 @@",
		" keep",
		"-old",
		"+new",
	}, "\n")

	// two changed lines plus the two file headers
	assert.Equal(t, 4, CountDiffLines(diff))
	assert.Equal(t, 0, CountDiffLines(""))
}

func TestRepositoryCommitCycle(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	testutil.InitGitRepo(t, dir)
	repo := NewRepository(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "initial.txt"), []byte("one\nTWO\nthree\nfour\n"), 0644))

	lines, err := repo.ChangedLineCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, lines) // 2 insertions, 1 deletion

	unstaged, err := repo.UnstagedDiff(ctx)
	require.NoError(t, err)
	assert.Contains(t, unstaged, "+TWO")

	require.NoError(t, repo.StageAll(ctx))

	staged, err := repo.StagedDiff(ctx)
	require.NoError(t, err)
	assert.Contains(t, staged, "+four")

	require.NoError(t, repo.Commit(ctx, "feat: add four"))

	dirty, err := repo.HasUncommittedChanges(ctx)
	require.NoError(t, err)
	assert.False(t, dirty)

	log := testutil.RunGitCommand(t, dir, "log", "-1", "--pretty=%s")
	assert.Equal(t, "feat: add four", strings.TrimSpace(log))
}

func TestRepositoryCommitRejectsEmptyMessage(t *testing.T) {
	err := NewRepository(t.TempDir()).Commit(context.Background(), "  ")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestRepositoryPush(t *testing.T) {
	ctx := context.Background()
	remote := t.TempDir()
	testutil.RunGitCommand(t, remote, "init", "--bare")

	dir := t.TempDir()
	testutil.InitGitRepo(t, dir)
	testutil.RunGitCommand(t, dir, "remote", "add", "origin", remote)

	repo := NewRepository(dir)
	branch, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Push(ctx, "origin", branch))
	out := testutil.RunGitCommand(t, remote, "log", "-1", "--pretty=%s", branch)
	assert.Equal(t, "initial commit", strings.TrimSpace(out))

	t.Run("unknown remote fails with git error", func(t *testing.T) {
		err := repo.Push(ctx, "nowhere", branch)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeGitFailed))
	})

	t.Run("invalid branch is rejected before running git", func(t *testing.T) {
		err := repo.Push(ctx, "origin", "--delete")
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	})
}
