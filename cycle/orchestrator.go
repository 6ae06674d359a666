// Package cycle runs one stage-describe-commit-push pass over a repository.
package cycle

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/phantomit/git"
	"github.com/grovetools/phantomit/message"
)

// Composer produces the message for a staged diff. ok is false when the
// commit should be skipped.
type Composer interface {
	Compose(ctx context.Context, diff string) (msg string, ok bool, err error)
}

// AutoComposer accepts whatever the generator produces.
type AutoComposer struct {
	Generator message.Generator
	Mock      bool
}

func (a AutoComposer) Compose(ctx context.Context, diff string) (string, bool, error) {
	msg, err := a.Generator.Generate(ctx, diff, a.Mock)
	if err != nil {
		return "", false, err
	}
	return msg, true, nil
}

// Options control the commit and push steps.
type Options struct {
	AutoPush bool
	Remote   string
	Branch   string
}

// Orchestrator executes commit cycles. It keeps no state between runs.
type Orchestrator struct {
	vcs       git.Provider
	composer  Composer
	opts      Options
	recorders []Recorder
	log       logrus.FieldLogger
	now       func() time.Time
}

// New creates an orchestrator.
func New(vcs git.Provider, composer Composer, opts Options, log logrus.FieldLogger, recorders ...Recorder) *Orchestrator {
	if log == nil {
		log = logrus.New()
	}
	return &Orchestrator{
		vcs:       vcs,
		composer:  composer,
		opts:      opts,
		recorders: recorders,
		log:       log,
		now:       time.Now,
	}
}

// Run performs one cycle. Each step short-circuits the rest; nothing is
// retried or rolled back. A failed push still counts as a commit and is
// reported through Outcome.PushErr.
func (o *Orchestrator) Run(ctx context.Context) (*Outcome, error) {
	started := o.now()
	outcome, err := o.run(ctx)
	if outcome != nil {
		outcome.Started = started
		outcome.Duration = o.now().Sub(started)
	}
	for _, r := range o.recorders {
		r.Record(outcome, err)
	}
	return outcome, err
}

// RunCycle runs a cycle for callers that only care about failure.
func (o *Orchestrator) RunCycle(ctx context.Context) error {
	_, err := o.Run(ctx)
	return err
}

func (o *Orchestrator) run(ctx context.Context) (*Outcome, error) {
	dirty, err := o.vcs.HasUncommittedChanges(ctx)
	if err != nil {
		return nil, err
	}
	if !dirty {
		return &Outcome{Kind: NoChanges}, nil
	}

	if err := o.vcs.StageAll(ctx); err != nil {
		return nil, err
	}

	diff, err := o.vcs.StagedDiff(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(diff) == "" {
		if diff, err = o.vcs.UnstagedDiff(ctx); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(diff) == "" {
		return &Outcome{Kind: EmptyDiff}, nil
	}

	o.log.WithField("bytes", len(diff)).Debug("Drafting commit message")
	msg, ok, err := o.composer.Compose(ctx, diff)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Outcome{Kind: Skipped, Message: msg}, nil
	}

	if err := o.vcs.Commit(ctx, msg); err != nil {
		return nil, err
	}
	outcome := &Outcome{Kind: Committed, Message: msg}

	if o.opts.AutoPush {
		if err := o.vcs.Push(ctx, o.opts.Remote, o.opts.Branch); err != nil {
			outcome.PushErr = err
		} else {
			outcome.Pushed = true
		}
	}
	return outcome, nil
}
