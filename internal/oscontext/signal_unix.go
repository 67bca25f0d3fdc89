//go:build !windows

package oscontext

import "syscall"

// signalTerm delivers SIGTERM to pid.
func signalTerm(pid int) error {
	return syscall.Kill(pid, syscall.SIGTERM)
}
