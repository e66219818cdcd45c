// Package placement moves windows onto target monitors. It offers a
// single-shot move for already-running windows and a launch-and-lock variant
// that keeps converging on the target against applications that fight back.
package placement

import (
	"context"
	"errors"
	"time"

	"displaywarp/internal/winapi"
)

// ErrWindowGone is reported when the window stops existing before or during
// a placement operation. The owning application may simply have closed; the
// operation aborts without further side effects.
var ErrWindowGone = errors.New("window no longer exists")

// WindowOps is the windowing boundary the engine drives. The production
// implementation delegates to winapi; tests substitute fakes.
type WindowOps interface {
	IsWindow(winapi.HWND) bool
	Move(winapi.HWND, winapi.Rect) error
	Restore(winapi.HWND)
	Maximize(winapi.HWND)
	BringToForeground(winapi.HWND)
	Placement(winapi.HWND) (winapi.Placement, error)
	SetPlacement(winapi.HWND, winapi.Placement) error
	WindowMonitor(winapi.HWND) winapi.HMONITOR
	MonitorForRect(winapi.Rect) winapi.HMONITOR
}

// Timing defaults. The aggressive phase gives a starting game ~6 seconds to
// settle; the watch phase then spends 45 seconds gently correcting drift.
const (
	defaultAttempts        = 12
	defaultAttemptInterval = 500 * time.Millisecond
	defaultToggleDelay     = 60 * time.Millisecond
	defaultSettleDelay     = 100 * time.Millisecond
	defaultWatchInterval   = time.Second
	defaultWatchDuration   = 45 * time.Second
)

// Engine places windows onto target rectangles.
type Engine struct {
	ops WindowOps

	// Tunable timing, exposed for tests.
	Attempts        int
	AttemptInterval time.Duration
	ToggleDelay     time.Duration
	SettleDelay     time.Duration
	WatchInterval   time.Duration
	WatchDuration   time.Duration
}

// NewEngine builds an engine with production timing.
func NewEngine(ops WindowOps) *Engine {
	return &Engine{
		ops:             ops,
		Attempts:        defaultAttempts,
		AttemptInterval: defaultAttemptInterval,
		ToggleDelay:     defaultToggleDelay,
		SettleDelay:     defaultSettleDelay,
		WatchInterval:   defaultWatchInterval,
		WatchDuration:   defaultWatchDuration,
	}
}

// MoveOnce moves an already-running window onto target in a single
// flicker-free operation and brings it to the foreground.
//
// The window is deliberately NOT restored before the move: restoring a
// maximized window first snaps it back to its stored normal position on the
// old monitor, producing a visible double-jump. Instead the stored normal
// rectangle is rewritten to sit inside the target monitor — that rectangle
// is what Windows consults to decide which monitor a window maximizes onto —
// then the window is moved directly, and re-maximized only if it had been
// maximized, so the OS bookkeeping lands on the new monitor.
func (e *Engine) MoveOnce(h winapi.HWND, target winapi.Rect) error {
	if !e.ops.IsWindow(h) {
		return ErrWindowGone
	}

	wasMaximized := false
	if p, err := e.ops.Placement(h); err == nil {
		wasMaximized = p.Maximized()

		// A normal rect at 3/4 of the monitor, centered, keeps restores
		// on the target without covering it edge to edge.
		w := target.Width() * 3 / 4
		ht := target.Height() * 3 / 4
		x := target.Left + (target.Width()-w)/2
		y := target.Top + (target.Height()-ht)/2
		p.NormalRect = winapi.Rect{Left: x, Top: y, Right: x + w, Bottom: y + ht}
		p.ShowCmd = winapi.ShowCmdRestore
		e.ops.SetPlacement(h, p)
	}

	e.ops.Move(h, target)

	if wasMaximized {
		e.ops.Maximize(h)
	}
	e.ops.BringToForeground(h)
	return nil
}

// LaunchLock places a freshly spawned window, which may be an uncooperative
// fullscreen game, in two phases.
//
// Phase 1 repeatedly forces the window onto the target — foreground,
// restore, move, maximize — stopping early once the OS reports it on the
// target monitor. Phase 2 watches for the configured duration and corrects
// drift with repositioning only; re-maximizing here causes visible flicker
// on games that ignore moves but still honor the maximize toggle.
//
// Individual OS call failures are absorbed by the next attempt. The method
// returns silently when the window stops existing.
func (e *Engine) LaunchLock(ctx context.Context, h winapi.HWND, target winapi.Rect) {
	targetMon := e.ops.MonitorForRect(target)

	for attempt := 0; attempt < e.Attempts; attempt++ {
		if !e.ops.IsWindow(h) {
			return
		}
		if attempt > 0 && !sleepOrDone(ctx, e.AttemptInterval) {
			return
		}
		e.ops.BringToForeground(h)
		e.ops.Restore(h)
		if !sleepOrDone(ctx, e.ToggleDelay) {
			return
		}
		e.ops.Move(h, target)
		e.ops.Maximize(h)
		if !sleepOrDone(ctx, e.SettleDelay) {
			return
		}
		if e.ops.WindowMonitor(h) == targetMon {
			break
		}
	}

	deadline := time.Now().Add(e.WatchDuration)
	for time.Now().Before(deadline) {
		if !sleepOrDone(ctx, e.WatchInterval) {
			return
		}
		if !e.ops.IsWindow(h) {
			return
		}
		if e.ops.WindowMonitor(h) == targetMon {
			continue
		}
		e.ops.BringToForeground(h)
		e.ops.Restore(h)
		if !sleepOrDone(ctx, e.ToggleDelay) {
			return
		}
		e.ops.Move(h, target)
		// No maximize in the watch phase.
	}
}

// OffTarget reports whether the window currently sits on a different monitor
// than the one containing target.
func (e *Engine) OffTarget(h winapi.HWND, target winapi.Rect) bool {
	return e.ops.WindowMonitor(h) != e.ops.MonitorForRect(target)
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
