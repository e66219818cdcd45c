//go:build !windows

package winapi

// Non-Windows stubs. Every boundary call reports ErrUnsupported; the
// higher-level packages are wired against narrow interfaces and are
// exercised with fakes in tests, so this file only exists to keep the
// module buildable off-platform.

func EnumMonitors() ([]Monitor, error) { return nil, ErrUnsupported }

func MonitorForRect(Rect) HMONITOR { return 0 }

func WindowMonitor(HWND) HMONITOR { return 0 }

func VisibleWindows() ([]WindowInfo, error) { return nil, ErrUnsupported }

func IsWindow(HWND) bool { return false }

func Move(HWND, Rect) error { return ErrUnsupported }

func Restore(HWND) {}

func Maximize(HWND) {}

func BringToForeground(HWND) {}

func GetPlacement(HWND) (Placement, error) { return Placement{}, ErrUnsupported }

func SetPlacement(HWND, Placement) error { return ErrUnsupported }

func ApplyPosition(device string, x, y int32, primary bool) error { return ErrUnsupported }

func CommitDisplayChanges() error { return ErrUnsupported }

func ProcessImagePath(pid uint32) (string, error) { return "", ErrUnsupported }

func WaitForProcessExit(pid uint32) error { return ErrUnsupported }
