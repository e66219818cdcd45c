//go:build windows

package winapi

import (
	"fmt"
	"syscall"
	"unsafe"
)

var enumMonitorsCallback = syscall.NewCallback(func(hmon, hdc uintptr, rect *Rect, lparam uintptr) uintptr {
	acc := (*[]Monitor)(unsafe.Pointer(lparam))

	var info monitorInfoEx
	info.CbSize = uint32(unsafe.Sizeof(info))
	ret, _, _ := procGetMonitorInfoW.Call(hmon, uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		return 1
	}

	*acc = append(*acc, Monitor{
		Device:  syscall.UTF16ToString(info.SzDevice[:]),
		Rect:    info.RcMonitor,
		Primary: info.DwFlags&monitorInfoFPrimary != 0,
	})
	return 1
})

// EnumMonitors returns every connected display with its live rectangle.
// The result reflects OS state at call time and must not be cached across
// operations; monitors can be attached, removed or rearranged at any moment.
func EnumMonitors() ([]Monitor, error) {
	var monitors []Monitor
	ret, _, err := procEnumDisplayMonitors.Call(0, 0, enumMonitorsCallback, uintptr(unsafe.Pointer(&monitors)))
	if ret == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors: %w", err)
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors detected")
	}
	return monitors, nil
}

// MonitorForRect maps a rectangle to the display containing its center
// point, falling back to the nearest display for rects straddling a
// boundary mid-move.
func MonitorForRect(r Rect) HMONITOR {
	x, y := r.Center()
	pt := point{X: x, Y: y}
	ret, _, _ := procMonitorFromPoint.Call(uintptr(*(*uint64)(unsafe.Pointer(&pt))), monitorDefaultToNearest)
	return HMONITOR(ret)
}

// WindowMonitor returns the display currently containing the window.
func WindowMonitor(h HWND) HMONITOR {
	ret, _, _ := procMonitorFromWindow.Call(uintptr(h), monitorDefaultToNearest)
	return HMONITOR(ret)
}
