package launch

import (
	"fmt"
	"os/exec"
	"path/filepath"
)

// ExecSpawner starts the executable detached with its working directory set
// to its own folder. Many games resolve assets relative to the binary and
// fail silently when started from elsewhere.
func ExecSpawner(exePath string) (uint32, error) {
	cmd := exec.Command(exePath)
	cmd.Dir = filepath.Dir(exePath)
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	// Release the handle; exit observation goes through the OS by pid so
	// the process outlives this helper cleanly.
	if err := cmd.Process.Release(); err != nil {
		return uint32(pid), fmt.Errorf("release process handle: %w", err)
	}
	return uint32(pid), nil
}
