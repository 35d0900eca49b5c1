// Package logging builds the go-kit loggers used across the server.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

var (
	mu     sync.RWMutex
	global = New(os.Stderr, false)
)

// New returns a logfmt logger writing to w with timestamp and caller keys.
// Debug lines are dropped unless debug is set.
func New(w io.Writer, debug bool) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	allow := level.AllowInfo()
	if debug {
		allow = level.AllowDebug()
	}
	logger = level.NewFilter(logger, allow)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

// SetGlobal replaces the process logger.
func SetGlobal(logger log.Logger) {
	mu.Lock()
	defer mu.Unlock()
	global = logger
}

func GlobalLogger() log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}
