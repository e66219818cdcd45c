package placement

import "displaywarp/internal/winapi"

// NativeOps implements WindowOps on the real OS windowing boundary.
type NativeOps struct{}

func (NativeOps) IsWindow(h winapi.HWND) bool                       { return winapi.IsWindow(h) }
func (NativeOps) Move(h winapi.HWND, r winapi.Rect) error           { return winapi.Move(h, r) }
func (NativeOps) Restore(h winapi.HWND)                             { winapi.Restore(h) }
func (NativeOps) Maximize(h winapi.HWND)                            { winapi.Maximize(h) }
func (NativeOps) BringToForeground(h winapi.HWND)                   { winapi.BringToForeground(h) }
func (NativeOps) Placement(h winapi.HWND) (winapi.Placement, error) { return winapi.GetPlacement(h) }
func (NativeOps) SetPlacement(h winapi.HWND, p winapi.Placement) error {
	return winapi.SetPlacement(h, p)
}
func (NativeOps) WindowMonitor(h winapi.HWND) winapi.HMONITOR  { return winapi.WindowMonitor(h) }
func (NativeOps) MonitorForRect(r winapi.Rect) winapi.HMONITOR { return winapi.MonitorForRect(r) }
