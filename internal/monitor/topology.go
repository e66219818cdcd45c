// Package monitor reads live display topology and drives the temporary
// primary-monitor switch used for exclusive-fullscreen launches.
package monitor

import (
	"errors"

	"displaywarp/internal/winapi"
)

// ErrMonitorNotFound is reported when a persisted device identifier matches
// no live monitor and no cached rectangle is available.
var ErrMonitorNotFound = errors.New("monitor not found")

// Lister returns the current display topology. The production lister is
// winapi.EnumMonitors; tests substitute fakes.
type Lister func() ([]winapi.Monitor, error)

// ResolveRect finds the live rectangle for a device identifier by exact
// string match. A miss is not an error: the device may simply be unplugged,
// and callers fall back to the profile's cached rectangle.
func ResolveRect(monitors []winapi.Monitor, device string) (winapi.Rect, bool) {
	for _, m := range monitors {
		if m.Device == device {
			return m.Rect, true
		}
	}
	return winapi.Rect{}, false
}

// PositionChange is one staged per-device move in a topology switch.
type PositionChange struct {
	Device  string
	X, Y    int32
	Primary bool
}

// SwitchPlan computes the position changes that make target the primary
// display: every monitor is shifted so the target's top-left corner lands on
// the virtual-desktop origin, and exactly the target is marked primary.
func SwitchPlan(monitors []winapi.Monitor, target string) ([]PositionChange, error) {
	targetRect, ok := ResolveRect(monitors, target)
	if !ok {
		return nil, ErrMonitorNotFound
	}

	changes := make([]PositionChange, 0, len(monitors))
	for _, m := range monitors {
		changes = append(changes, PositionChange{
			Device:  m.Device,
			X:       m.Rect.Left - targetRect.Left,
			Y:       m.Rect.Top - targetRect.Top,
			Primary: m.Device == target,
		})
	}
	return changes, nil
}

// RestorePlan replays a topology snapshot. Whichever monitor's snapshotted
// rectangle sat at the origin is re-marked primary.
func RestorePlan(snapshot []winapi.Monitor) []PositionChange {
	changes := make([]PositionChange, 0, len(snapshot))
	for _, m := range snapshot {
		changes = append(changes, PositionChange{
			Device:  m.Device,
			X:       m.Rect.Left,
			Y:       m.Rect.Top,
			Primary: m.Rect.Left == 0 && m.Rect.Top == 0,
		})
	}
	return changes
}
