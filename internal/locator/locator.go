// Package locator finds the best candidate top-level window for a process
// that may still be starting up. Both retrieval modes poll with a deadline
// and degrade to a soft not-found instead of blocking forever.
package locator

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"displaywarp/internal/winapi"
)

// ErrWindowNotFound is the soft failure produced when no candidate window
// appears before the deadline. The launched process is left untouched; a
// missing window does not imply the launch failed.
var ErrWindowNotFound = errors.New("window not found")

// WindowLister enumerates the current visible top-level windows. The
// production lister is winapi.VisibleWindows.
type WindowLister func() ([]winapi.WindowInfo, error)

// Poll intervals. By-pid lookups are cheap and deterministic; by-name
// lookups resolve an executable path per window and poll slower.
const (
	pidPollInterval  = 300 * time.Millisecond
	namePollInterval = 500 * time.Millisecond
)

// Locator polls the window lister until a candidate appears.
type Locator struct {
	list WindowLister

	// Poll intervals, overridable in tests.
	PIDInterval  time.Duration
	NameInterval time.Duration
}

// New builds a Locator over the given lister.
func New(list WindowLister) *Locator {
	return &Locator{
		list:         list,
		PIDInterval:  pidPollInterval,
		NameInterval: namePollInterval,
	}
}

// FindByPID returns the first visible top-level window owned directly by
// pid, in enumeration order.
func (l *Locator) FindByPID(pid uint32) (winapi.HWND, bool) {
	windows, err := l.list()
	if err != nil {
		return 0, false
	}
	for _, w := range windows {
		if w.PID == pid {
			return w.Handle, true
		}
	}
	return 0, false
}

// FindByName scores every visible window whose owning executable matches
// name (case-insensitive) and returns the best candidate. Launchers often
// spawn an unrelated child process, so ownership is resolved through the
// process image path rather than the spawned pid.
func (l *Locator) FindByName(name string) (winapi.HWND, bool) {
	target := strings.ToLower(name)
	windows, err := l.list()
	if err != nil {
		return 0, false
	}

	best := winapi.HWND(0)
	bestScore := 0
	for _, w := range windows {
		if w.ExeName() != target {
			continue
		}
		score, ok := Score(w)
		if !ok {
			continue
		}
		if best == 0 || score > bestScore {
			best = w.Handle
			bestScore = score
		}
	}
	return best, best != 0
}

// WaitByPID polls until pid owns a visible window, the timeout elapses, or
// ctx is cancelled.
func (l *Locator) WaitByPID(ctx context.Context, pid uint32, timeout time.Duration) (winapi.HWND, error) {
	return l.wait(ctx, timeout, l.PIDInterval, func() (winapi.HWND, bool) {
		return l.FindByPID(pid)
	})
}

// WaitByName polls until a positively scoring window of the named executable
// appears, the timeout elapses, or ctx is cancelled.
func (l *Locator) WaitByName(ctx context.Context, name string, timeout time.Duration) (winapi.HWND, error) {
	return l.wait(ctx, timeout, l.NameInterval, func() (winapi.HWND, bool) {
		return l.FindByName(name)
	})
}

func (l *Locator) wait(ctx context.Context, timeout, interval time.Duration, find func() (winapi.HWND, bool)) (winapi.HWND, error) {
	deadline := time.Now().Add(timeout)
	for {
		if h, ok := find(); ok {
			return h, nil
		}
		if time.Now().After(deadline) {
			return 0, ErrWindowNotFound
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// ListWindows returns the user-presentable windows: visible, titled,
// non-tool, sorted by label. This feeds the CLI listing, the bridge, and
// the MCP tools.
func ListWindows(list WindowLister) ([]winapi.WindowInfo, error) {
	windows, err := list()
	if err != nil {
		return nil, err
	}
	entries := windows[:0]
	for _, w := range windows {
		if w.Title == "" || w.ToolWindow {
			continue
		}
		entries = append(entries, w)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Label() < entries[j].Label() })
	return entries, nil
}
