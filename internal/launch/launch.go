// Package launch ties topology resolution, process spawning, window
// location and placement together into one launch operation per profile.
package launch

import (
	"context"
	"fmt"
	"time"

	"displaywarp/internal/audio"
	"displaywarp/internal/locator"
	"displaywarp/internal/monitor"
	"displaywarp/internal/profile"
	"displaywarp/internal/status"
	"displaywarp/internal/winapi"
)

// Spawner starts the profile's executable and returns the new process id.
type Spawner func(exePath string) (uint32, error)

// ExitWaiter blocks until the process exits. It has no timeout by design:
// the force-primary restore must wait for however long the game runs. When
// the process handle cannot be opened the waiter errors instead, and the
// topology is not restored automatically.
type ExitWaiter func(pid uint32) error

// Placer is the placement surface the orchestrator needs.
type Placer interface {
	MoveOnce(winapi.HWND, winapi.Rect) error
	LaunchLock(context.Context, winapi.HWND, winapi.Rect)
}

// PrimarySwitcher is the topology-switch surface for force-primary
// profiles.
type PrimarySwitcher interface {
	Switch(target string) ([]winapi.Monitor, error)
	Restore(snapshot []winapi.Monitor) error
}

// Deps collects the orchestrator's collaborators.
type Deps struct {
	Monitors monitor.Lister
	Locator  *locator.Locator
	Placer   Placer
	Primary  PrimarySwitcher
	Audio    audio.Switcher
	Spawn    Spawner
	WaitExit ExitWaiter
	Status   *status.Reporter

	// Locate timeouts; zero values fall back to the historical defaults.
	PIDTimeout  time.Duration
	NameTimeout time.Duration
}

// Orchestrator runs launches. Each Launch call is self-contained and
// blocking; callers run it on its own goroutine. Concurrent launches are
// deliberately not serialized against each other.
type Orchestrator struct {
	deps Deps
}

// NewOrchestrator validates and wires the collaborators.
func NewOrchestrator(deps Deps) *Orchestrator {
	if deps.PIDTimeout <= 0 {
		deps.PIDTimeout = 15 * time.Second
	}
	if deps.NameTimeout <= 0 {
		deps.NameTimeout = 30 * time.Second
	}
	if deps.Audio == nil {
		deps.Audio = audio.Unavailable{}
	}
	return &Orchestrator{deps: deps}
}

// ResolveTargetRect resolves the profile's placement rectangle: the live
// monitor matching the device identifier when present, otherwise the cached
// rectangle persisted with the profile. Only when both fail is the launch
// aborted.
func ResolveTargetRect(monitors []winapi.Monitor, p profile.Profile) (winapi.Rect, error) {
	if rect, ok := monitor.ResolveRect(monitors, p.TargetMonitor); ok {
		return rect, nil
	}
	if p.TargetMonitorRect != nil {
		return *p.TargetMonitorRect, nil
	}
	return winapi.Rect{}, fmt.Errorf("%w: %s", monitor.ErrMonitorNotFound, p.TargetMonitor)
}

// Launch runs one full launch for an immutable profile snapshot. The
// returned error covers resolution, spawn and topology-switch failures; a
// window that never appears is reported as a status warning only, since the
// spawned application may be perfectly healthy without a locatable window.
func (o *Orchestrator) Launch(ctx context.Context, p profile.Profile) error {
	monitors, err := o.deps.Monitors()
	if err != nil {
		o.deps.Status.Setf("Launch failed: %v", err)
		return fmt.Errorf("enumerate monitors: %w", err)
	}

	targetRect, err := ResolveTargetRect(monitors, p)
	if err != nil {
		o.deps.Status.Setf("Monitor %q not found; launch aborted.", p.TargetMonitor)
		return err
	}

	if p.ForcePrimary {
		return o.launchForcePrimary(p)
	}
	return o.launchAndLock(ctx, p, targetRect)
}

func (o *Orchestrator) launchAndLock(ctx context.Context, p profile.Profile, targetRect winapi.Rect) error {
	pid, err := o.deps.Spawn(p.ExePath)
	if err != nil {
		o.deps.Status.Setf("Failed to launch %s: %v", p.ExePath, err)
		return fmt.Errorf("spawn %s: %w", p.ExePath, err)
	}

	o.switchAudio(p)

	var h winapi.HWND
	if p.WindowProcessName != "" {
		o.deps.Status.Setf("Waiting for %q window...", p.WindowProcessName)
		h, err = o.deps.Locator.WaitByName(ctx, p.WindowProcessName, o.deps.NameTimeout)
	} else {
		o.deps.Status.Setf("Launched PID %d, waiting for window...", pid)
		h, err = o.deps.Locator.WaitByPID(ctx, pid, o.deps.PIDTimeout)
	}
	if err != nil {
		// Soft failure: the app is running, we just cannot see a window.
		o.deps.Status.Set("Window not found within timeout (the app may still work normally).")
		return nil
	}

	o.deps.Placer.LaunchLock(ctx, h, targetRect)
	o.deps.Status.Set("Window locked on target monitor.")
	return nil
}

// launchForcePrimary shifts topology so the target is primary, runs the
// process for its whole life, and puts the topology back. The whole desktop
// moves, so no window placement is needed afterward.
func (o *Orchestrator) launchForcePrimary(p profile.Profile) error {
	o.deps.Status.Setf("Switching primary monitor to %s...", p.TargetMonitor)
	snapshot, err := o.deps.Primary.Switch(p.TargetMonitor)
	if err != nil {
		o.deps.Status.Setf("Primary switch failed: %v", err)
		return fmt.Errorf("switch primary: %w", err)
	}

	pid, err := o.deps.Spawn(p.ExePath)
	if err != nil {
		// Undo the switch before surfacing the error.
		if rerr := o.deps.Primary.Restore(snapshot); rerr != nil {
			o.deps.Status.Setf("Restore after failed launch also failed: %v", rerr)
		}
		o.deps.Status.Setf("Failed to launch %s: %v", p.ExePath, err)
		return fmt.Errorf("spawn %s: %w", p.ExePath, err)
	}

	o.switchAudio(p)

	o.deps.Status.Setf("Launched PID %d; primary restores when it exits.", pid)
	if err := o.deps.WaitExit(pid); err != nil {
		o.deps.Status.Setf("Cannot observe process exit (%v); topology will not auto-restore.", err)
		return fmt.Errorf("wait for exit: %w", err)
	}

	if err := o.deps.Primary.Restore(snapshot); err != nil {
		o.deps.Status.Setf("Topology restore failed: %v", err)
		return fmt.Errorf("restore topology: %w", err)
	}
	o.deps.Status.Set("Process exited; monitor layout restored.")
	return nil
}

func (o *Orchestrator) switchAudio(p profile.Profile) {
	if p.AudioDeviceID == "" {
		return
	}
	if err := o.deps.Audio.SetDefault(p.AudioDeviceID); err != nil {
		o.deps.Status.Setf("Audio switch failed: %v", err)
		return
	}
	o.deps.Status.Set("Audio output switched.")
}

// MoveWindow is the one-shot path for an already-running window picked
// interactively or through the control plane. The handle crosses goroutines
// as a plain integer and is revalidated inside the engine.
func (o *Orchestrator) MoveWindow(h winapi.HWND, monitorIndex int) error {
	monitors, err := o.deps.Monitors()
	if err != nil {
		return fmt.Errorf("enumerate monitors: %w", err)
	}
	if monitorIndex < 0 || monitorIndex >= len(monitors) {
		return fmt.Errorf("monitor index %d out of range (%d monitors)", monitorIndex, len(monitors))
	}
	if err := o.deps.Placer.MoveOnce(h, monitors[monitorIndex].Rect); err != nil {
		o.deps.Status.Setf("Move failed: %v", err)
		return err
	}
	o.deps.Status.Set("Window moved to target monitor.")
	return nil
}
