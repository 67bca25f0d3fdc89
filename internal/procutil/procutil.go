// Package procutil enumerates processes on the host without shelling out
// to ps. Only Linux hosts carry a real implementation; everywhere else the
// process table is reported as empty.
package procutil

import "strings"

// Process is a handle to a running OS process.
type Process struct {
	// PID is the process id.
	PID int

	// Exe is the resolved path of the process executable, when readable.
	Exe string

	// Cmdline holds the argument vector the process was started with.
	Cmdline []string
}

// Matches reports whether the process executable or any argument contains
// the provided substring.
func (p Process) Matches(substr string) bool {
	if substr == "" {
		return true
	}
	if strings.Contains(p.Exe, substr) {
		return true
	}
	for _, arg := range p.Cmdline {
		if strings.Contains(arg, substr) {
			return true
		}
	}
	return false
}

// parseCmdline splits the NUL-delimited argument vector found in
// /proc/<pid>/cmdline.
func parseCmdline(raw []byte) []string {
	fields := strings.Split(string(raw), "\x00")
	args := fields[:0]
	for _, f := range fields {
		if f != "" {
			args = append(args, f)
		}
	}
	if len(args) == 0 {
		return nil
	}
	return args
}
