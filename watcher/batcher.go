package watcher

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Batcher coalesces source events into debounced batches. One goroutine owns
// the pending set and a single timer.
type Batcher struct {
	src      Source
	filter   Filter
	debounce time.Duration
	log      logrus.FieldLogger
}

// NewBatcher creates a batcher. filter may be nil.
func NewBatcher(src Source, filter Filter, debounce time.Duration, log logrus.FieldLogger) *Batcher {
	if log == nil {
		log = logrus.New()
	}
	return &Batcher{src: src, filter: filter, debounce: debounce, log: log}
}

// Start consumes the source until the returned stop func is called. onBatch
// runs on the batcher goroutine with the events of one quiet window, sorted
// by path. stop is idempotent, closes the source, discards anything pending
// and returns only once onBatch can no longer be called.
func (b *Batcher) Start(onBatch func([]FileChangeEvent)) (stop func()) {
	quit := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		b.run(quit, onBatch)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(quit)
			if err := b.src.Close(); err != nil {
				b.log.WithError(err).Debug("Closing event source")
			}
			wg.Wait()
		})
	}
}

func (b *Batcher) run(quit <-chan struct{}, onBatch func([]FileChangeEvent)) {
	pending := make(map[string]FileChangeEvent)

	timer := time.NewTimer(b.debounce)
	timer.Stop()
	defer timer.Stop()

	events := b.src.Events()
	errs := b.src.Errors()

	for {
		select {
		case <-quit:
			return

		case ev, ok := <-events:
			if !ok {
				return
			}
			if b.filter != nil && b.filter.IsIgnored(ev.Path) {
				b.log.WithField("path", ev.Path).Trace("Ignored change")
				continue
			}
			pending[ev.Path] = ev
			timer.Reset(b.debounce)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			b.log.WithError(err).Warn("File watcher error")

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			select {
			case <-quit:
				return
			default:
			}

			batch := make([]FileChangeEvent, 0, len(pending))
			for _, ev := range pending {
				batch = append(batch, ev)
			}
			sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
			pending = make(map[string]FileChangeEvent)

			b.log.WithField("files", len(batch)).Debug("Flushing change batch")
			onBatch(batch)
		}
	}
}
