package command

// Posix builds direct invocations for POSIX-like targets.
type Posix struct{}

func (Posix) OS() string { return "posix" }

func (Posix) Build(spec Spec) (*Invocation, error) {
	return &Invocation{
		Path:    ShellPath(spec.Outdir, spec.Shell),
		Args:    cloneArgs(spec.Args),
		Env:     cloneEnv(spec.Env),
		Timeout: spec.Timeout,
	}, nil
}
