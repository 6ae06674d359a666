package git

import "context"

// ChangeProvider reports on the working tree without modifying it
type ChangeProvider interface {
	HasUncommittedChanges(ctx context.Context) (bool, error)
	ChangedLineCount(ctx context.Context) (int, error)
}

// CommitProvider defines the write side used by a commit cycle
type CommitProvider interface {
	StageAll(ctx context.Context) error
	StagedDiff(ctx context.Context) (string, error)
	UnstagedDiff(ctx context.Context) (string, error)
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context, remote, branch string) error
}

// Provider is the full set of repository operations phantomit needs
type Provider interface {
	ChangeProvider
	CommitProvider
}
