//go:build windows

package winapi

import (
	"fmt"
	"syscall"
	"unsafe"
)

var enumWindowsCallback = syscall.NewCallback(func(hwnd uintptr, lparam uintptr) uintptr {
	acc := (*[]WindowInfo)(unsafe.Pointer(lparam))

	if visible, _, _ := procIsWindowVisible.Call(hwnd); visible == 0 {
		return 1
	}

	var pid uint32
	procGetWindowThreadProcessID.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid == 0 {
		return 1
	}

	info := WindowInfo{Handle: HWND(hwnd), PID: pid}

	exStyle, _, _ := procGetWindowLongW.Call(hwnd, gwlExStyle)
	info.ToolWindow = uint32(exStyle)&wsExToolWindow != 0

	if length, _, _ := procGetWindowTextLengthW.Call(hwnd); length > 0 {
		buf := make([]uint16, length+1)
		procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
		info.Title = syscall.UTF16ToString(buf)
	}

	procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&info.Rect)))

	// Best effort; access to elevated processes is routinely denied.
	if path, err := ProcessImagePath(pid); err == nil {
		info.ExePath = path
	}

	*acc = append(*acc, info)
	return 1
})

// VisibleWindows enumerates every visible top-level window with its owning
// process metadata. No filtering is applied; callers decide what counts as a
// candidate.
func VisibleWindows() ([]WindowInfo, error) {
	var windows []WindowInfo
	ret, _, err := procEnumWindows.Call(enumWindowsCallback, uintptr(unsafe.Pointer(&windows)))
	if ret == 0 && len(windows) == 0 {
		return nil, fmt.Errorf("EnumWindows: %w", err)
	}
	return windows, nil
}

// IsWindow reports whether the handle still refers to a live window.
func IsWindow(h HWND) bool {
	ret, _, _ := procIsWindow.Call(uintptr(h))
	return ret != 0
}

// Move repositions and resizes the window onto the rectangle, showing it and
// forcing a frame recalculation.
func Move(h HWND, r Rect) error {
	ret, _, err := procSetWindowPos.Call(
		uintptr(h), hwndTop,
		uintptr(r.Left), uintptr(r.Top),
		uintptr(r.Width()), uintptr(r.Height()),
		swpShowWindow|swpFrameChanged,
	)
	if ret == 0 {
		return fmt.Errorf("SetWindowPos: %w", err)
	}
	return nil
}

// Restore shows the window in its restored (non-maximized) state.
func Restore(h HWND) {
	procShowWindow.Call(uintptr(h), swRestore)
}

// Maximize shows the window maximized on its current monitor.
func Maximize(h HWND) {
	procShowWindow.Call(uintptr(h), swMaximize)
}

// BringToForeground raises and activates the window. Both calls are best
// effort; foreground rights may be denied to background processes.
func BringToForeground(h HWND) {
	procBringWindowToTop.Call(uintptr(h))
	procSetForegroundWindow.Call(uintptr(h))
}

// GetPlacement reads the window's show state and stored normal rectangle.
func GetPlacement(h HWND) (Placement, error) {
	var wp windowPlacement
	wp.Length = uint32(unsafe.Sizeof(wp))
	ret, _, err := procGetWindowPlacement.Call(uintptr(h), uintptr(unsafe.Pointer(&wp)))
	if ret == 0 {
		return Placement{}, fmt.Errorf("GetWindowPlacement: %w", err)
	}
	return Placement{ShowCmd: wp.ShowCmd, NormalRect: wp.NormalPosition}, nil
}

// SetPlacement rewrites the window's show state and normal rectangle while
// preserving the minimized/maximized anchor points Windows tracks alongside.
func SetPlacement(h HWND, p Placement) error {
	var wp windowPlacement
	wp.Length = uint32(unsafe.Sizeof(wp))
	// Read first so MinPosition/MaxPosition survive the rewrite.
	procGetWindowPlacement.Call(uintptr(h), uintptr(unsafe.Pointer(&wp)))
	wp.ShowCmd = p.ShowCmd
	wp.NormalPosition = p.NormalRect
	ret, _, err := procSetWindowPlacement.Call(uintptr(h), uintptr(unsafe.Pointer(&wp)))
	if ret == 0 {
		return fmt.Errorf("SetWindowPlacement: %w", err)
	}
	return nil
}
