//go:build linux

package procutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// List returns the current process table by walking /proc. Processes that
// disappear or whose entries cannot be read mid-walk are skipped rather
// than failing the whole listing.
func List() ([]Process, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("read /proc: %w", err)
	}

	var procs []Process
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		proc := Process{PID: pid}
		if exe, err := os.Readlink(filepath.Join("/proc", entry.Name(), "exe")); err == nil {
			proc.Exe = exe
		}
		if raw, err := os.ReadFile(filepath.Join("/proc", entry.Name(), "cmdline")); err == nil {
			proc.Cmdline = parseCmdline(raw)
		}
		procs = append(procs, proc)
	}
	return procs, nil
}
