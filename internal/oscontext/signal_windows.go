//go:build windows

package oscontext

import "os"

// signalTerm approximates SIGTERM on a Windows host, where POSIX signals
// are unavailable.
func signalTerm(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}
