// Package oscontext provides the per-target-OS capability layer of the
// harness: process enumeration and termination, platform invocation-path
// construction, and scope-bound setup and teardown of OS resources.
//
// Callers acquire a context through With, which guarantees teardown on
// every exit path. The variants carry no error taxonomy of their own;
// failures from the underlying OS primitives propagate unchanged.
package oscontext

import (
	"sync"

	"github.com/crossrun/crossrun/internal/command"
	"github.com/crossrun/crossrun/internal/config"
	"github.com/crossrun/crossrun/internal/pool"
	"github.com/crossrun/crossrun/internal/procutil"
)

// Process is the handle contexts receive for listing and termination. The
// context layer never constructs these itself.
type Process = procutil.Process

// Context exposes the capabilities a test run needs from its target OS.
// Enter and Exit bracket a single scope and are not safe for concurrent
// use; ListProcesses and TerminateProcess may be called at any point
// while the scope is active.
type Context interface {
	// ListProcesses returns the current process table. The Default
	// variant always reports an empty table with a nil error.
	ListProcesses() ([]Process, error)

	// TerminateProcess asks the OS to end p. Semantics are OS specific
	// and best effort; escalation for stuck processes is the caller's
	// responsibility.
	TerminateProcess(p Process) error

	// PlatformShell builds the invocation string for running shell
	// located under outdir.
	PlatformShell(shell string, args []string, outdir string) string

	// Strategy returns the command strategy owned by this context. The
	// reference is fixed for the context's lifetime.
	Strategy() command.Strategy

	// Pool returns the execution pool bound to this context, creating
	// one on first use when none was supplied at construction.
	Pool() *pool.Pool

	// Enter performs variant-specific setup for one scope.
	Enter(opts *config.Options) error

	// Exit releases whatever Enter acquired. With runs it exactly once
	// per scope, on every exit path.
	Exit() error
}

// Option adjusts how a context is constructed.
type Option func(*base)

// WithPool binds an externally managed execution pool instead of the
// lazily created default.
func WithPool(p *pool.Pool) Option {
	return func(b *base) { b.pool = p }
}

// base carries the state shared by all variants: the owned command
// strategy and the lazily bound execution pool.
type base struct {
	strategy command.Strategy

	poolOnce sync.Once
	pool     *pool.Pool
}

func (b *base) init(strategy command.Strategy, opts []Option) {
	b.strategy = strategy
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
}

// Strategy returns the owned command strategy.
func (b *base) Strategy() command.Strategy {
	return b.strategy
}

// bindPool resolves the context's pool exactly once, wiring the variant's
// termination hook into lazily created and externally supplied pools
// alike.
func (b *base) bindPool(terminate func(pid int) error) *pool.Pool {
	b.poolOnce.Do(func() {
		if b.pool == nil {
			b.pool = pool.New(pool.Options{Terminate: terminate})
		} else if terminate != nil {
			b.pool.SetTerminate(terminate)
		}
	})
	return b.pool
}

// DefaultContext assumes a POSIX-like host and performs no process
// management of its own. Unrecognized target OS identifiers resolve here.
type DefaultContext struct {
	base
}

// NewDefault constructs the Default variant.
func NewDefault(opts ...Option) *DefaultContext {
	c := &DefaultContext{}
	c.init(command.Posix{}, opts)
	return c
}

func (c *DefaultContext) ListProcesses() ([]Process, error) {
	return nil, nil
}

func (c *DefaultContext) TerminateProcess(Process) error {
	return nil
}

func (c *DefaultContext) PlatformShell(shell string, args []string, outdir string) string {
	return command.ShellPath(outdir, shell)
}

func (c *DefaultContext) Pool() *pool.Pool {
	return c.bindPool(nil)
}

func (c *DefaultContext) Enter(*config.Options) error {
	return nil
}

func (c *DefaultContext) Exit() error {
	return nil
}
