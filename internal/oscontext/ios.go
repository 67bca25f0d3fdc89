package oscontext

import (
	"strings"

	"github.com/crossrun/crossrun/internal/command"
	"github.com/crossrun/crossrun/internal/pool"
)

// IOSContext runs test binaries in the iOS simulator on a macOS host, so
// process termination uses plain POSIX signals.
type IOSContext struct {
	DefaultContext
}

// NewIOS constructs the iOS variant.
func NewIOS(opts ...Option) *IOSContext {
	c := &IOSContext{}
	c.init(command.IOS{}, opts)
	return c
}

func (c *IOSContext) TerminateProcess(p Process) error {
	return signalTerm(p.PID)
}

// PlatformShell wraps the binary in an iossim launch. Arguments are
// joined with single spaces; when none are given the -c clause is omitted
// entirely.
func (c *IOSContext) PlatformShell(shell string, args []string, outdir string) string {
	iossim := outdir + "/" + "iossim -d 'iPhone X' "

	joined := strings.Join(args, " ")
	if joined != "" {
		iossim += "-c "
		joined = "\"" + joined + "\""
	}

	app := outdir + "/" + shell + ".app"
	return iossim + joined + " " + app
}

func (c *IOSContext) Pool() *pool.Pool {
	return c.bindPool(signalTerm)
}
