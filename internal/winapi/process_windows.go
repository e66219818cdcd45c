//go:build windows

package winapi

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/windows"
)

// ProcessImagePath resolves a process's full executable path using a
// limited-information query, which succeeds for most foreign processes
// without elevated rights.
func ProcessImagePath(pid uint32) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", fmt.Errorf("OpenProcess %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, 512)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("QueryFullProcessImageName %d: %w", pid, err)
	}
	return syscall.UTF16ToString(buf[:size]), nil
}

// WaitForProcessExit blocks until the process signals exit. There is no
// timeout: the wait runs for as long as the process does. An error is
// returned only when the process handle cannot be opened for
// synchronization, in which case exit can never be observed.
func WaitForProcessExit(pid uint32) error {
	h, err := windows.OpenProcess(windows.SYNCHRONIZE, false, pid)
	if err != nil {
		return fmt.Errorf("OpenProcess %d for synchronize: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	if _, err := windows.WaitForSingleObject(h, windows.INFINITE); err != nil {
		return fmt.Errorf("WaitForSingleObject %d: %w", pid, err)
	}
	return nil
}
