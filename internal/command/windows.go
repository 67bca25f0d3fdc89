package command

// Windows builds invocations for Windows targets, where executables carry
// an .exe suffix.
type Windows struct{}

func (Windows) OS() string { return "windows" }

func (Windows) Build(spec Spec) (*Invocation, error) {
	return &Invocation{
		Path:    ShellPath(spec.Outdir, spec.Shell) + ".exe",
		Args:    cloneArgs(spec.Args),
		Env:     cloneEnv(spec.Env),
		Timeout: spec.Timeout,
	}, nil
}
