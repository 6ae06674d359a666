package logging

import (
	"io"
	"sync"
)

// globalWriter delegates to a writer that can be swapped at runtime.
type globalWriter struct {
	mu sync.RWMutex
	w  io.Writer
}

func (gw *globalWriter) Write(p []byte) (int, error) {
	gw.mu.RLock()
	defer gw.mu.RUnlock()
	if gw.w == nil {
		return len(p), nil
	}
	return gw.w.Write(p)
}

func (gw *globalWriter) Set(w io.Writer) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.w = w
}

var (
	defaultGlobalWriter = &globalWriter{}
	outputOverridden    bool
	outputMu            sync.Mutex
)

// SetOutput redirects every logger, existing and future, to w. The daemon
// child uses it to send structured logs to its log file.
func SetOutput(w io.Writer) {
	outputMu.Lock()
	outputOverridden = true
	outputMu.Unlock()
	defaultGlobalWriter.Set(w)
}

// GetOutput returns the shared writer all loggers write through.
func GetOutput() io.Writer {
	return defaultGlobalWriter
}
