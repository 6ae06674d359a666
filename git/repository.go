package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/grovetools/phantomit/command"
	"github.com/grovetools/phantomit/errors"
)

// Repository implements Provider using the git CLI
type Repository struct {
	dir        string
	cmdBuilder *command.SafeBuilder
}

// Ensure it implements the interface
var _ Provider = (*Repository)(nil)

// NewRepository creates a Repository rooted at dir
func NewRepository(dir string) *Repository {
	return NewRepositoryWithBuilder(dir, command.NewSafeBuilder())
}

// NewRepositoryWithBuilder creates a Repository with a custom command builder
func NewRepositoryWithBuilder(dir string, sb *command.SafeBuilder) *Repository {
	return &Repository{dir: dir, cmdBuilder: sb}
}

// Dir returns the working directory git runs in
func (r *Repository) Dir() string {
	return r.dir
}

func (r *Repository) run(ctx context.Context, op string, args ...string) (string, error) {
	cmd, err := r.cmdBuilder.Build(ctx, "git", args...)
	if err != nil {
		return "", fmt.Errorf("failed to build command: %w", err)
	}
	out, err := cmd.InDir(r.dir).Output()
	if err != nil {
		return out, errors.GitFailed(op, err)
	}
	return out, nil
}

// HasUncommittedChanges reports whether the working tree or index differs from HEAD,
// untracked files included.
func (r *Repository) HasUncommittedChanges(ctx context.Context) (bool, error) {
	status, err := r.Status(ctx)
	if err != nil {
		return false, err
	}
	return status.IsDirty, nil
}

// Status returns porcelain v2 status information
func (r *Repository) Status(ctx context.Context) (*StatusInfo, error) {
	out, err := r.run(ctx, "status", "status", "--porcelain=v2", "--branch")
	if err != nil {
		return nil, err
	}
	return parseStatus(out), nil
}

// StageAll stages every change under the working directory
func (r *Repository) StageAll(ctx context.Context) error {
	_, err := r.run(ctx, "add", "add", ".")
	return err
}

// StagedDiff returns the diff of the index against HEAD
func (r *Repository) StagedDiff(ctx context.Context) (string, error) {
	return r.run(ctx, "diff", "diff", "--staged")
}

// UnstagedDiff returns the diff of the working tree against the index
func (r *Repository) UnstagedDiff(ctx context.Context) (string, error) {
	return r.run(ctx, "diff", "diff")
}

// Commit records the staged changes with message
func (r *Repository) Commit(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "commit message cannot be empty")
	}
	_, err := r.run(ctx, "commit", "commit", "-m", message)
	return err
}

// Push pushes branch to remote
func (r *Repository) Push(ctx context.Context, remote, branch string) error {
	if err := r.cmdBuilder.Validate("remote", remote); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid remote")
	}
	if err := r.cmdBuilder.Validate("gitRef", branch); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid branch")
	}
	_, err := r.run(ctx, "push", "push", remote, branch)
	return err
}

// ChangedLineCount returns insertions plus deletions of unstaged changes to tracked files.
// The `git diff --stat` summary is preferred; when it cannot be parsed, +/- lines of the
// raw diff are counted instead.
func (r *Repository) ChangedLineCount(ctx context.Context) (int, error) {
	stat, err := r.run(ctx, "diff", "diff", "--stat")
	if err != nil {
		return 0, err
	}
	if n, ok := ParseStatSummary(stat); ok {
		return n, nil
	}

	raw, err := r.UnstagedDiff(ctx)
	if err != nil {
		return 0, err
	}
	return CountDiffLines(raw), nil
}

// CurrentBranch returns the checked-out branch name
func (r *Repository) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.run(ctx, "rev-parse", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
