// Package profile defines launch profiles and their JSON persistence store.
package profile

import "displaywarp/internal/winapi"

// Profile describes one launchable application and where its window belongs.
// The JSON field names are the on-disk schema and must stay stable; every
// optional field defaults to its zero value so configs written by older
// versions keep loading.
type Profile struct {
	Name    string `json:"name"`
	ExePath string `json:"exe_path"`

	// TargetMonitor is the device identifier of the display the window is
	// pinned to, e.g. `\\.\DISPLAY2`.
	TargetMonitor string `json:"target_monitor_name"`

	// TargetMonitorRect caches the monitor's rectangle at save time. It is
	// the fallback when the device identifier no longer matches any live
	// monitor (unplugged, renamed after a driver update).
	TargetMonitorRect *winapi.Rect `json:"target_monitor_rect,omitempty"`

	// WindowProcessName names the executable that owns the window when the
	// launched binary is only a launcher spawning a different child, e.g.
	// "Diablo IV.exe". Empty means track the launched process itself.
	WindowProcessName string `json:"window_process_name,omitempty"`

	// ForcePrimary temporarily makes the target monitor the OS primary for
	// exclusive-fullscreen titles, restoring the layout after exit.
	ForcePrimary bool `json:"force_primary,omitempty"`

	// PersistentMonitor asks the background watcher to keep enforcing the
	// window's monitor for as long as the application runs.
	PersistentMonitor bool `json:"persistent_monitor,omitempty"`

	// AudioDeviceID optionally retargets the default audio output at
	// launch.
	AudioDeviceID string `json:"target_audio_device_id,omitempty"`
}

// Clone returns a deep copy safe to hand to another goroutine.
func (p Profile) Clone() Profile {
	out := p
	if p.TargetMonitorRect != nil {
		r := *p.TargetMonitorRect
		out.TargetMonitorRect = &r
	}
	return out
}
