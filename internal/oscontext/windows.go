package oscontext

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/crossrun/crossrun/internal/command"
	"github.com/crossrun/crossrun/internal/pool"
)

// WindowsContext terminates processes through the taskkill utility.
// Termination is deliberately non-forceful; if it proves insufficient,
// escalation is the caller's concern.
type WindowsContext struct {
	DefaultContext

	// kill invokes the termination utility. Swappable in tests.
	kill func(pid int, force bool) (string, error)

	// killLog receives taskkill's output.
	killLog io.Writer
}

// NewWindows constructs the Windows variant.
func NewWindows(opts ...Option) *WindowsContext {
	c := &WindowsContext{kill: taskkill, killLog: os.Stderr}
	c.init(command.Windows{}, opts)
	return c
}

func (c *WindowsContext) TerminateProcess(p Process) error {
	return c.taskkillVerbose(p.PID)
}

// taskkillVerbose runs the termination utility non-forcefully and surfaces
// whatever it printed.
func (c *WindowsContext) taskkillVerbose(pid int) error {
	out, err := c.kill(pid, false)
	if trimmed := strings.TrimSpace(out); trimmed != "" {
		fmt.Fprintln(c.killLog, trimmed)
	}
	return err
}

// PlatformShell appends the executable suffix Windows binaries carry.
func (c *WindowsContext) PlatformShell(shell string, args []string, outdir string) string {
	return command.ShellPath(outdir, shell) + ".exe"
}

func (c *WindowsContext) Pool() *pool.Pool {
	return c.bindPool(c.taskkillVerbose)
}

func taskkill(pid int, force bool) (string, error) {
	args := []string{"/pid", strconv.Itoa(pid)}
	if force {
		args = append(args, "/f")
	}
	out, err := exec.Command("taskkill", args...).CombinedOutput()
	return string(out), err
}
