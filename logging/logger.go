package logging

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
	sinkOnce  sync.Once

	levelOverride *logrus.Level
)

// NewLogger returns the logger for a component, creating it on first use.
// Every logger writes through the shared writer returned by GetOutput.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	cfg := ConfigFromEnv()
	logger := newLogrus(cfg)
	if levelOverride != nil {
		logger.SetLevel(*levelOverride)
	}

	sinkOnce.Do(func() { initSink(cfg, logger.GetLevel()) })
	logger.SetOutput(defaultGlobalWriter)

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// SetLevel changes the level of every logger, existing and future.
func SetLevel(level logrus.Level) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	levelOverride = &level
	for _, entry := range loggers {
		entry.Logger.SetLevel(level)
	}
}

func newLogrus(cfg Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetReportCaller(cfg.ReportCaller)

	switch cfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: cfg.Format})
	}
	return logger
}

// initSink picks the initial destination of the shared writer unless
// SetOutput already chose one.
func initSink(cfg Config, level logrus.Level) {
	outputMu.Lock()
	overridden := outputOverridden
	outputMu.Unlock()
	if overridden {
		return
	}

	var sink io.Writer = io.Discard
	switch cfg.Format.StructuredToStderr {
	case "always":
		sink = os.Stderr
	case "never":
	default:
		// Structured logs stay out of the way of interactive sessions unless
		// debugging. Piped and CI output always gets them.
		isDebug := level >= logrus.DebugLevel
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		if isDebug || !isInteractive {
			sink = os.Stderr
		}
	}
	defaultGlobalWriter.Set(sink)
}
