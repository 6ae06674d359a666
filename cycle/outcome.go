package cycle

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Kind classifies how a cycle ended.
type Kind string

const (
	NoChanges Kind = "no-changes"
	EmptyDiff Kind = "empty-diff"
	Skipped   Kind = "skipped"
	Committed Kind = "committed"
)

// Outcome describes a finished cycle. A cycle that returned an error has no
// outcome.
type Outcome struct {
	Kind    Kind
	Message string
	// Pushed is set when the commit reached the remote.
	Pushed bool
	// PushErr holds the push failure of an otherwise committed cycle.
	PushErr  error
	Started  time.Time
	Duration time.Duration
}

// Recorder observes every finished cycle.
type Recorder interface {
	Record(outcome *Outcome, err error)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(outcome *Outcome, err error)

func (f RecorderFunc) Record(outcome *Outcome, err error) { f(outcome, err) }

// LogRecorder writes outcomes to a structured logger.
func LogRecorder(log logrus.FieldLogger) Recorder {
	return RecorderFunc(func(o *Outcome, err error) {
		if err != nil {
			log.WithError(err).Error("Commit cycle failed")
			return
		}
		entry := log.WithFields(logrus.Fields{
			"outcome":  string(o.Kind),
			"duration": o.Duration.Round(time.Millisecond),
		})
		switch {
		case o.Kind == Committed && o.PushErr != nil:
			entry.WithError(o.PushErr).WithField("message", o.Message).Warn("Committed but push failed")
		case o.Kind == Committed:
			entry.WithFields(logrus.Fields{"message": o.Message, "pushed": o.Pushed}).Info("Committed")
		default:
			entry.Debug("Nothing committed")
		}
	})
}
