package oscontext

import (
	"github.com/crossrun/crossrun/internal/command"
	"github.com/crossrun/crossrun/internal/pool"
	"github.com/crossrun/crossrun/internal/procutil"
)

// LinuxContext lists host processes and terminates them with SIGTERM;
// everything else is inherited Default behavior.
type LinuxContext struct {
	DefaultContext

	// list is the process-listing collaborator. Swappable in tests.
	list func() ([]Process, error)
}

// NewLinux constructs the Linux variant backed by the /proc walker.
func NewLinux(opts ...Option) *LinuxContext {
	c := &LinuxContext{list: procutil.List}
	c.init(command.Posix{}, opts)
	return c
}

// ListProcesses delegates to the process lister and returns its result
// unchanged.
func (c *LinuxContext) ListProcesses() ([]Process, error) {
	return c.list()
}

func (c *LinuxContext) TerminateProcess(p Process) error {
	return signalTerm(p.PID)
}

func (c *LinuxContext) Pool() *pool.Pool {
	return c.bindPool(signalTerm)
}
