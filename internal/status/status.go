// Package status carries the textual launch progress shared between
// background launch goroutines and whatever surface presents it.
package status

import (
	"fmt"
	"log/slog"
	"sync"
)

// historyCap bounds the retained log so week-long watch sessions cannot
// grow it without bound; the oldest entries are dropped first.
const historyCap = 200

// Reporter holds the current status message and a bounded history. Safe for
// concurrent use; the lock is never held across a blocking call.
type Reporter struct {
	logger *slog.Logger

	mu      sync.Mutex
	current string
	history []string
}

// NewReporter builds a reporter that mirrors every message to logger.
func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger, current: "Ready."}
}

// Set replaces the current message and appends it to the history.
func (r *Reporter) Set(msg string) {
	r.mu.Lock()
	r.current = msg
	r.history = append(r.history, msg)
	if len(r.history) > historyCap {
		r.history = r.history[len(r.history)-historyCap:]
	}
	r.mu.Unlock()

	r.logger.Info(msg)
}

// Setf formats and sets a message.
func (r *Reporter) Setf(format string, args ...any) {
	r.Set(fmt.Sprintf(format, args...))
}

// Current returns the latest message.
func (r *Reporter) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History returns a copy of the retained messages, oldest first.
func (r *Reporter) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}
