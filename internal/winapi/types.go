// Package winapi wraps the Win32 windowing, display-configuration and
// process boundaries used by the placement engine. The real implementation
// is built on Windows only; on other platforms every call reports
// ErrUnsupported so the surrounding packages stay buildable and testable.
package winapi

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned by every boundary call on non-Windows builds.
var ErrUnsupported = errors.New("winapi: not supported on this platform")

// HWND is a top-level window handle carried as its integer representation so
// it can be handed between goroutines. The referenced window may be destroyed
// by its owner at any time; revalidate with IsWindow before every mutating
// call.
type HWND uintptr

// HMONITOR identifies a physical display in the current topology. Values are
// only comparable within a single operation; a display-settings change may
// invalidate them.
type HMONITOR uintptr

// Rect is a rectangle in virtual-screen pixel coordinates. The primary
// monitor's top-left corner is the origin (0,0).
type Rect struct {
	Left   int32 `json:"left"`
	Top    int32 `json:"top"`
	Right  int32 `json:"right"`
	Bottom int32 `json:"bottom"`
}

// Width returns the rectangle width in pixels.
func (r Rect) Width() int32 { return r.Right - r.Left }

// Height returns the rectangle height in pixels.
func (r Rect) Height() int32 { return r.Bottom - r.Top }

// Center returns the center point of the rectangle.
func (r Rect) Center() (x, y int32) {
	return r.Left + r.Width()/2, r.Top + r.Height()/2
}

// Monitor describes one physical display as enumerated from the OS.
type Monitor struct {
	// Device is the stable OS device identifier, e.g. `\\.\DISPLAY2`.
	Device string `json:"device_name"`
	Rect   Rect   `json:"rect"`
	// Primary reports whether this monitor's rectangle sits at the virtual
	// desktop origin.
	Primary bool `json:"primary"`
}

// WindowInfo describes one visible top-level window at enumeration time.
type WindowInfo struct {
	Handle HWND   `json:"hwnd"`
	PID    uint32 `json:"pid"`
	Title  string `json:"title"`
	// ExePath is the owning process's full image path, empty when the
	// process could not be queried.
	ExePath string `json:"exe_path,omitempty"`
	Rect    Rect   `json:"rect"`
	// ToolWindow is set for windows flagged WS_EX_TOOLWINDOW (palettes,
	// overlays, toasts).
	ToolWindow bool `json:"tool_window,omitempty"`
}

// ExeName returns the lower-cased base name of the owning executable, or ""
// when the image path is unknown.
func (w WindowInfo) ExeName() string {
	if w.ExePath == "" {
		return ""
	}
	return strings.ToLower(filepath.Base(strings.ReplaceAll(w.ExePath, `\`, `/`)))
}

// Label renders the window as "Exe.exe — Title" for user-facing lists.
func (w WindowInfo) Label() string {
	exe := w.ExeName()
	if exe == "" {
		exe = "unknown"
	}
	return exe + " — " + w.Title
}

// Placement mirrors the subset of WINDOWPLACEMENT the engine manipulates:
// the show state and the stored "normal" (restored) rectangle Windows uses
// to decide which monitor a window maximizes onto.
type Placement struct {
	ShowCmd    uint32
	NormalRect Rect
}

// Maximized reports whether the placement describes a maximized window.
func (p Placement) Maximized() bool {
	return p.ShowCmd == swMaximize || p.ShowCmd == swShowMaximized
}

// ShowWindow commands shared by both build variants.
const (
	swMaximize      = 3
	swShowMaximized = 3
	swRestore       = 9

	// ShowCmdRestore is the placement show state for a restored window.
	ShowCmdRestore uint32 = swRestore
	// ShowCmdMaximize is the placement show state for a maximized window.
	ShowCmdMaximize uint32 = swMaximize
)
