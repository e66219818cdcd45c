// Package daemon runs the background watcher that keeps persistent-monitor
// windows pinned to their configured displays.
package daemon

import (
	"context"
	"log/slog"
	"time"

	"displaywarp/internal/launch"
	"displaywarp/internal/locator"
	"displaywarp/internal/monitor"
	"displaywarp/internal/profile"
	"displaywarp/internal/winapi"
)

// Enforcer checks and corrects a window's monitor. Satisfied by
// *placement.Engine.
type Enforcer interface {
	OffTarget(winapi.HWND, winapi.Rect) bool
	MoveOnce(winapi.HWND, winapi.Rect) error
}

// Profiles returns the current profile set. The store's Snapshot method
// fits directly.
type Profiles func() []profile.Profile

// WatcherConfig holds configuration for the watcher.
type WatcherConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Watcher periodically checks every persistent profile's window and moves
// it back when it has drifted onto another monitor.
type Watcher struct {
	interval time.Duration
	profiles Profiles
	monitors monitor.Lister
	locator  *locator.Locator
	enforcer Enforcer
	logger   *slog.Logger
}

// NewWatcher creates a watcher over the given collaborators.
func NewWatcher(cfg WatcherConfig, profiles Profiles, monitors monitor.Lister, loc *locator.Locator, enforcer Enforcer) *Watcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 3 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		interval: interval,
		profiles: profiles,
		monitors: monitors,
		locator:  loc,
		enforcer: enforcer,
		logger:   logger,
	}
}

// Run starts the watch loop. Blocks until context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("watcher started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

// SweepNow triggers an immediate pass, used by tests and the control plane.
func (w *Watcher) SweepNow() {
	w.sweep()
}

// sweep performs a single pass over the persistent profiles. Enumeration
// failures skip the pass; a transient desktop lock or UAC prompt should not
// stop the daemon.
func (w *Watcher) sweep() {
	defer func() {
		if err := recover(); err != nil {
			w.logger.Error("watcher panic recovered", "error", err)
		}
	}()

	profiles := w.profiles()
	var watched []profile.Profile
	for _, p := range profiles {
		if p.PersistentMonitor && p.WindowProcessName != "" {
			watched = append(watched, p)
		}
	}
	if len(watched) == 0 {
		return
	}

	monitors, err := w.monitors()
	if err != nil {
		w.logger.Error("watcher: failed to enumerate monitors", "error", err)
		return
	}

	for _, p := range watched {
		target, err := launch.ResolveTargetRect(monitors, p)
		if err != nil {
			w.logger.Warn("watcher: target monitor missing",
				"profile", p.Name,
				"monitor", p.TargetMonitor)
			continue
		}

		h, ok := w.locator.FindByName(p.WindowProcessName)
		if !ok {
			// Not running; nothing to enforce.
			continue
		}
		if !w.enforcer.OffTarget(h, target) {
			continue
		}

		w.logger.Info("watcher: window drifted, moving back",
			"profile", p.Name,
			"process", p.WindowProcessName)
		if err := w.enforcer.MoveOnce(h, target); err != nil {
			w.logger.Warn("watcher: move failed", "profile", p.Name, "error", err)
		}
	}
}
