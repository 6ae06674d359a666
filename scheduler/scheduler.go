// Package scheduler decides when a commit cycle fires.
//
// Each trigger policy feeds the same gate: a trigger claims the busy flag
// before its condition is evaluated, and a trigger that finds the flag taken
// is dropped rather than queued. Evaluation and the cycle itself run on a
// worker goroutine so the tick and batch loops never block on git or on the
// network.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/phantomit/config"
	"github.com/grovetools/phantomit/errors"
	"github.com/grovetools/phantomit/watcher"
)

// Reason names what caused a trigger.
type Reason string

const (
	ReasonInterval Reason = "interval"
	ReasonLines    Reason = "lines"
	ReasonSave     Reason = "save"
	ReasonManual   Reason = "manual"
)

// ChangeDetector answers the trigger conditions.
type ChangeDetector interface {
	HasUncommittedChanges(ctx context.Context) (bool, error)
	ChangedLineCount(ctx context.Context) (int, error)
}

// CycleRunner executes one commit cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) error
}

// Deps are the collaborators of a Scheduler.
type Deps struct {
	Changes ChangeDetector
	Cycle   CycleRunner
	// Batches delivers debounced change batches for the lines and on-save
	// policies. It may be nil for the others.
	Batches <-chan []watcher.FileChangeEvent
	Logger  logrus.FieldLogger
	Clock   Clock
}

// State is a point-in-time snapshot of the scheduler.
type State struct {
	Mode       config.Mode
	Busy       bool
	LastFire   time.Time
	LastReason Reason
	Fired      uint64
	Dropped    uint64
}

// Scheduler runs one trigger policy.
type Scheduler struct {
	cfg  config.WatchConfig
	deps Deps
	log  logrus.FieldLogger

	busy    atomic.Bool
	fired   atomic.Uint64
	dropped atomic.Uint64

	mu         sync.Mutex
	lastFire   time.Time
	lastReason Reason
	// stopped is set when Run begins shutting down; later triggers are ignored.
	stopped bool

	inflight sync.WaitGroup
}

// New creates a scheduler for cfg.Mode.
func New(cfg config.WatchConfig, deps Deps) *Scheduler {
	if deps.Clock == nil {
		deps.Clock = realClock{}
	}
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}
	return &Scheduler{
		cfg:  cfg,
		deps: deps,
		log:  deps.Logger.WithField("mode", string(cfg.Mode)),
	}
}

// Run drives the configured policy until ctx is done, then waits for an
// in-flight cycle to finish. A scheduler runs once.
func (s *Scheduler) Run(ctx context.Context) error {
	defer s.shutdown()

	switch s.cfg.Mode {
	case config.ModeInterval:
		return s.runInterval(ctx)
	case config.ModeLines:
		return s.runBatches(ctx, ReasonLines, s.linesReached)
	case config.ModeOnSave:
		return s.runBatches(ctx, ReasonSave, nil)
	case config.ModeManual:
		<-ctx.Done()
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown trigger mode").
			WithDetail("mode", string(s.cfg.Mode))
	}
}

// Fire requests a cycle now, bypassing the policy condition. It reports
// false if a cycle was already in flight and the request was dropped.
func (s *Scheduler) Fire(ctx context.Context, reason Reason) bool {
	return s.trigger(ctx, reason, nil)
}

func (s *Scheduler) shutdown() {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.inflight.Wait()
}

// Wait blocks until no cycle is in flight.
func (s *Scheduler) Wait() {
	s.inflight.Wait()
}

// State returns a snapshot of the scheduler.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Mode:       s.cfg.Mode,
		Busy:       s.busy.Load(),
		LastFire:   s.lastFire,
		LastReason: s.lastReason,
		Fired:      s.fired.Load(),
		Dropped:    s.dropped.Load(),
	}
}

func (s *Scheduler) runInterval(ctx context.Context) error {
	interval := s.cfg.IntervalDuration()
	if interval <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "interval must be positive")
	}

	ticker := s.deps.Clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			s.trigger(ctx, ReasonInterval, s.hasChanges)
		}
	}
}

func (s *Scheduler) runBatches(ctx context.Context, reason Reason, cond func(context.Context) (bool, error)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case batch, ok := <-s.deps.Batches:
			if !ok {
				<-ctx.Done()
				return nil
			}
			s.log.WithField("files", len(batch)).Debug("Change batch received")
			s.trigger(ctx, reason, cond)
		}
	}
}

// trigger claims the gate and runs cond and the cycle on a worker goroutine.
func (s *Scheduler) trigger(ctx context.Context, reason Reason, cond func(context.Context) (bool, error)) bool {
	if ctx.Err() != nil {
		s.log.WithField("reason", string(reason)).Debug("Shutting down, trigger ignored")
		return false
	}

	// The gate is claimed under mu so no cycle is added once shutdown has
	// begun waiting.
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		s.log.WithField("reason", string(reason)).Debug("Scheduler stopped, trigger ignored")
		return false
	}
	if !s.busy.CompareAndSwap(false, true) {
		s.mu.Unlock()
		s.dropped.Add(1)
		s.log.WithField("reason", string(reason)).Debug("Cycle in flight, trigger dropped")
		return false
	}
	s.inflight.Add(1)
	s.mu.Unlock()

	// A cycle that has started runs to completion even when the watch is
	// shutting down.
	workCtx := context.WithoutCancel(ctx)

	go func() {
		defer s.inflight.Done()
		defer s.busy.Store(false)

		if cond != nil {
			ok, err := cond(workCtx)
			if err != nil {
				s.log.WithError(err).WithField("reason", string(reason)).Error("Trigger check failed")
				return
			}
			if !ok {
				return
			}
		}

		s.fired.Add(1)
		s.mu.Lock()
		s.lastFire = s.deps.Clock.Now()
		s.lastReason = reason
		s.mu.Unlock()

		s.log.WithField("reason", string(reason)).Info("Commit cycle fired")
		// The cycle's recorders report failures.
		if err := s.deps.Cycle.RunCycle(workCtx); err != nil {
			s.log.WithError(err).WithField("reason", string(reason)).Debug("Commit cycle returned an error")
		}
	}()
	return true
}

func (s *Scheduler) hasChanges(ctx context.Context) (bool, error) {
	dirty, err := s.deps.Changes.HasUncommittedChanges(ctx)
	if err != nil {
		return false, err
	}
	if !dirty {
		s.log.Debug("No changes, skipping")
	}
	return dirty, nil
}

func (s *Scheduler) linesReached(ctx context.Context) (bool, error) {
	n, err := s.deps.Changes.ChangedLineCount(ctx)
	if err != nil {
		return false, err
	}
	s.log.WithFields(logrus.Fields{
		"lines":     n,
		"threshold": s.cfg.Lines,
	}).Debug("Changed lines counted")
	return n >= s.cfg.Lines, nil
}
