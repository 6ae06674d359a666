package watcher

import (
	goerrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/phantomit/errors"
)

// DefaultStability is how long a path must stay quiet before its event is
// reported.
const DefaultStability = 500 * time.Millisecond

// SourceOptions configures an FSNotifySource.
type SourceOptions struct {
	// Stability coalesces bursts of writes to one path. Zero reports every
	// event immediately.
	Stability time.Duration
	// SkipDir keeps matching directories out of the subscription.
	SkipDir func(rel string) bool
	Logger  logrus.FieldLogger
}

type stabilizing struct {
	kind EventKind
	last time.Time
}

// FSNotifySource reports changes below a set of watch roots using fsnotify.
type FSNotifySource struct {
	root string
	opts SourceOptions
	log  logrus.FieldLogger

	fs     *fsnotify.Watcher
	events chan FileChangeEvent
	errs   chan error

	// owned by the loop goroutine after construction
	dirs    map[string]bool
	pending map[string]stabilizing

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewFSNotifySource subscribes to every directory below each watch root.
// Roots are relative to root. Missing roots are skipped; if none can be
// watched, or a root cannot be read, the subscription is torn down and an
// error is returned.
func NewFSNotifySource(root string, roots []string, opts SourceOptions) (*FSNotifySource, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WatchInitFailed(root, err)
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WatchInitFailed(absRoot, err)
	}

	s := &FSNotifySource{
		root:    absRoot,
		opts:    opts,
		log:     opts.Logger,
		fs:      fsw,
		events:  make(chan FileChangeEvent, 64),
		errs:    make(chan error, 8),
		dirs:    make(map[string]bool),
		pending: make(map[string]stabilizing),
		done:    make(chan struct{}),
	}

	watched := 0
	for _, r := range roots {
		abs := filepath.Join(absRoot, r)
		info, err := os.Stat(abs)
		if goerrors.Is(err, fs.ErrNotExist) {
			s.log.WithField("root", r).Debug("Watch root does not exist, skipping")
			continue
		}
		if err != nil {
			fsw.Close()
			return nil, errors.WatchInitFailed(abs, err)
		}

		if !info.IsDir() {
			if err := fsw.Add(abs); err != nil {
				fsw.Close()
				return nil, errors.WatchInitFailed(abs, err)
			}
			watched++
			continue
		}

		if err := s.addTree(abs, true, nil); err != nil {
			fsw.Close()
			return nil, errors.WatchInitFailed(abs, err)
		}
		watched++
	}

	if watched == 0 {
		fsw.Close()
		return nil, errors.WatchInitFailed(absRoot, goerrors.New("none of the watch directories exist"))
	}

	s.wg.Add(1)
	go s.loop()
	return s, nil
}

// addTree subscribes dir and every directory below it. When strict is set an
// unreadable dir is an error; otherwise it is logged and skipped. found, if
// not nil, receives the files encountered on the way.
func (s *FSNotifySource) addTree(dir string, strict bool, found func(rel string)) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if strict && path == dir {
				return err
			}
			s.log.WithError(err).WithField("path", path).Debug("Skipping unreadable path")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, ok := relPath(s.root, path)
		if !ok {
			return nil
		}

		if !d.IsDir() {
			if found != nil && !hasHiddenSegment(rel) {
				found(rel)
			}
			return nil
		}

		if path != dir || !strict {
			if hasHiddenSegment(rel) || (s.opts.SkipDir != nil && rel != "" && s.opts.SkipDir(rel)) {
				return filepath.SkipDir
			}
		}

		if err := s.fs.Add(path); err != nil {
			if strict && path == dir {
				return err
			}
			s.log.WithError(err).WithField("path", path).Debug("Failed to watch directory")
			return filepath.SkipDir
		}
		s.dirs[path] = true
		return nil
	})
}

func (s *FSNotifySource) Events() <-chan FileChangeEvent { return s.events }

func (s *FSNotifySource) Errors() <-chan error { return s.errs }

// Close ends the subscription. It is safe to call more than once.
func (s *FSNotifySource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.fs.Close()
		s.wg.Wait()
		close(s.events)
		close(s.errs)
	})
	return err
}

func (s *FSNotifySource) loop() {
	defer s.wg.Done()

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	arm := func(d time.Duration) {
		if timer == nil {
			timer = time.NewTimer(d)
		} else {
			timer.Reset(d)
		}
		timerC = timer.C
	}

	for {
		select {
		case <-s.done:
			return

		case event, ok := <-s.fs.Events:
			if !ok {
				return
			}
			for _, ev := range s.translate(event) {
				if s.opts.Stability <= 0 {
					if !s.emit(ev) {
						return
					}
					continue
				}
				if len(s.pending) == 0 {
					arm(s.opts.Stability)
				}
				s.pending[ev.Path] = stabilizing{kind: ev.Kind, last: time.Now()}
			}

		case err, ok := <-s.fs.Errors:
			if !ok {
				return
			}
			select {
			case s.errs <- err:
			default:
				s.log.WithError(err).Warn("Dropping watcher error")
			}

		case now := <-timerC:
			timerC = nil
			next := time.Duration(0)
			for path, p := range s.pending {
				quiet := now.Sub(p.last)
				if quiet >= s.opts.Stability {
					delete(s.pending, path)
					if !s.emit(FileChangeEvent{Kind: p.kind, Path: path}) {
						return
					}
					continue
				}
				if wait := s.opts.Stability - quiet; next == 0 || wait < next {
					next = wait
				}
			}
			if len(s.pending) > 0 {
				arm(next)
			}
		}
	}
}

// translate maps one fsnotify event to zero or more change events, extending
// the subscription when a directory appears.
func (s *FSNotifySource) translate(event fsnotify.Event) []FileChangeEvent {
	rel, ok := relPath(s.root, event.Name)
	if !ok || rel == "" || hasHiddenSegment(rel) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil || !info.IsDir() {
			return []FileChangeEvent{{Kind: Created, Path: rel}}
		}
		if s.opts.SkipDir != nil && s.opts.SkipDir(rel) {
			return nil
		}
		out := []FileChangeEvent{{Kind: DirCreated, Path: rel}}
		// Files written before the subscription caught up would otherwise be
		// missed.
		_ = s.addTree(event.Name, false, func(file string) {
			out = append(out, FileChangeEvent{Kind: Created, Path: file})
		})
		return out

	case event.Has(fsnotify.Write):
		return []FileChangeEvent{{Kind: Modified, Path: rel}}

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if s.dirs[event.Name] {
			delete(s.dirs, event.Name)
			return []FileChangeEvent{{Kind: DirRemoved, Path: rel}}
		}
		return []FileChangeEvent{{Kind: Removed, Path: rel}}
	}
	return nil
}

func (s *FSNotifySource) emit(ev FileChangeEvent) bool {
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}
