// Package watcher turns filesystem activity below a project into debounced
// batches of change events.
package watcher

import (
	"github.com/sirupsen/logrus"

	"github.com/grovetools/phantomit/config"
	"github.com/grovetools/phantomit/ignore"
)

// Watch subscribes to cfg.Watch below root and delivers batches to onBatch.
// Ignored directories are kept out of the subscription and ignored paths out
// of the batches. Initialization failures are returned before anything runs.
func Watch(root string, cfg config.WatchConfig, resolver *ignore.Resolver, log logrus.FieldLogger, onBatch func([]FileChangeEvent)) (stop func(), err error) {
	src, err := NewFSNotifySource(root, cfg.Watch, SourceOptions{
		Stability: cfg.StabilityDuration(),
		SkipDir:   resolver.IsIgnored,
		Logger:    log,
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"roots":    cfg.Watch,
		"debounce": cfg.DebounceDuration(),
	}).Debug("Watching for changes")

	return NewBatcher(src, resolver, cfg.DebounceDuration(), log).Start(onBatch), nil
}
