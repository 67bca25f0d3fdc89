// Package command builds per-target-OS invocations for test binaries.
// Each OS context owns exactly one strategy; strategies carry no run
// state except for the Android driver session installed at scope entry.
package command

import (
	"path/filepath"
	"time"
)

// Spec describes one test-binary invocation to construct.
type Spec struct {
	// Shell is the bare name of the test binary, e.g. "d8".
	Shell string

	// Args are passed to the binary.
	Args []string

	// Outdir is the build output directory containing the binary.
	Outdir string

	// Env holds additional environment variables for the invocation.
	Env map[string]string

	// Timeout bounds the invocation's runtime; zero means unbounded.
	Timeout time.Duration
}

// Invocation is a concrete runnable command line.
type Invocation struct {
	Path    string
	Args    []string
	Env     map[string]string
	Timeout time.Duration
}

// Strategy constructs invocations for one target OS family.
type Strategy interface {
	// OS names the target family the strategy builds for.
	OS() string

	// Build turns a spec into a runnable invocation.
	Build(spec Spec) (*Invocation, error)
}

// ShellPath resolves the absolute path of shell under outdir.
func ShellPath(outdir, shell string) string {
	joined := filepath.Join(outdir, shell)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return joined
	}
	return abs
}

func cloneArgs(args []string) []string {
	if len(args) == 0 {
		return nil
	}
	return append([]string(nil), args...)
}

func cloneEnv(env map[string]string) map[string]string {
	if len(env) == 0 {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}
