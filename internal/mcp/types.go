package mcp

import "displaywarp/internal/winapi"

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// MonitorEntry describes one display in tool output.
type MonitorEntry struct {
	Index      int         `json:"index"`
	DeviceName string      `json:"device_name"`
	Rect       winapi.Rect `json:"rect"`
	Primary    bool        `json:"primary"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []MonitorEntry `json:"monitors"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// WindowEntry describes one visible window in tool output.
type WindowEntry struct {
	HWND    uint64 `json:"hwnd"`
	PID     uint32 `json:"pid"`
	Title   string `json:"title"`
	ExePath string `json:"exe_path,omitempty"`
	Label   string `json:"label"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowEntry `json:"windows"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	HWND         uint64 `json:"hwnd" jsonschema:"required,Window handle from list_windows"`
	MonitorIndex int    `json:"monitor_index" jsonschema:"required,Target monitor index from list_monitors"`
}

// MoveWindowOutput is the output for the move_window tool.
type MoveWindowOutput struct {
	Moved   bool   `json:"moved"`
	Message string `json:"message"`
}

// ListProfilesInput is the input for the list_profiles tool.
type ListProfilesInput struct{}

// ProfileEntry describes one saved launch profile in tool output.
type ProfileEntry struct {
	Name              string `json:"name"`
	ExePath           string `json:"exe_path"`
	TargetMonitor     string `json:"target_monitor_name"`
	ForcePrimary      bool   `json:"force_primary,omitempty"`
	PersistentMonitor bool   `json:"persistent_monitor,omitempty"`
}

// ListProfilesOutput is the output for the list_profiles tool.
type ListProfilesOutput struct {
	Profiles []ProfileEntry `json:"profiles"`
}

// LaunchProfileInput is the input for the launch_profile tool.
type LaunchProfileInput struct {
	Name string `json:"name" jsonschema:"required,Name of the saved profile to launch"`
}

// LaunchProfileOutput is the output for the launch_profile tool.
type LaunchProfileOutput struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	Current string   `json:"current"`
	History []string `json:"history"`
}
