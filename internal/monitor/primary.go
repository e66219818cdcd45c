package monitor

import (
	"fmt"
	"time"

	"displaywarp/internal/winapi"
)

// DisplayAPI is the display-configuration boundary the switcher drives.
// Changes staged with ApplyPosition are deferred and registry-persisted;
// Commit flushes all of them in one atomic pass.
type DisplayAPI interface {
	ApplyPosition(device string, x, y int32, primary bool) error
	Commit() error
}

// The OS keeps re-negotiating display state for a moment after a commit.
// Spawning a fullscreen title inside that window makes it pick up the old
// topology, so the switcher pauses for a fixed settle period rather than
// polling a condition that the OS does not expose.
const defaultSettleDelay = 1500 * time.Millisecond

// PrimarySwitcher temporarily reassigns the OS primary display and restores
// the prior layout from a snapshot. One instance serves one launch; the
// snapshot lives only for that launch's switch/restore pair.
type PrimarySwitcher struct {
	list    Lister
	display DisplayAPI

	// SettleDelay is the pause after a committed switch before the caller
	// may spawn the dependent process.
	SettleDelay time.Duration
}

// NewPrimarySwitcher wires a switcher over the given topology lister and
// display boundary.
func NewPrimarySwitcher(list Lister, display DisplayAPI) *PrimarySwitcher {
	return &PrimarySwitcher{list: list, display: display, SettleDelay: defaultSettleDelay}
}

// Switch makes target the primary display and returns the topology snapshot
// needed to undo it. Per-monitor staging failures on non-target devices are
// tolerated; a failure staging the target itself or committing the batch
// aborts the switch, and the caller must not spawn.
func (s *PrimarySwitcher) Switch(target string) ([]winapi.Monitor, error) {
	monitors, err := s.list()
	if err != nil {
		return nil, fmt.Errorf("enumerate monitors: %w", err)
	}

	// Snapshot before mutating anything.
	snapshot := make([]winapi.Monitor, len(monitors))
	copy(snapshot, monitors)

	changes, err := SwitchPlan(monitors, target)
	if err != nil {
		return nil, err
	}
	if err := s.apply(changes); err != nil {
		return nil, err
	}

	if s.SettleDelay > 0 {
		time.Sleep(s.SettleDelay)
	}
	return snapshot, nil
}

// Restore replays the snapshot taken by Switch and commits it.
func (s *PrimarySwitcher) Restore(snapshot []winapi.Monitor) error {
	return s.apply(RestorePlan(snapshot))
}

func (s *PrimarySwitcher) apply(changes []PositionChange) error {
	for _, c := range changes {
		if err := s.display.ApplyPosition(c.Device, c.X, c.Y, c.Primary); err != nil {
			if c.Primary {
				return fmt.Errorf("stage primary %s: %w", c.Device, err)
			}
			// Secondary displays are best effort; the commit may still
			// produce a usable layout.
			continue
		}
	}
	if err := s.display.Commit(); err != nil {
		return fmt.Errorf("commit display changes: %w", err)
	}
	return nil
}
