package command

import "strings"

// simulatorDevice is the simulated hardware iossim boots the app on.
const simulatorDevice = "iPhone X"

// IOS runs test binaries inside the iOS simulator through the iossim
// wrapper instead of on a physical device.
type IOS struct{}

func (IOS) OS() string { return "ios" }

func (IOS) Build(spec Spec) (*Invocation, error) {
	args := []string{"-d", simulatorDevice}
	if joined := strings.Join(spec.Args, " "); joined != "" {
		args = append(args, "-c", joined)
	}
	args = append(args, ShellPath(spec.Outdir, spec.Shell)+".app")

	return &Invocation{
		Path:    ShellPath(spec.Outdir, "iossim"),
		Args:    args,
		Env:     cloneEnv(spec.Env),
		Timeout: spec.Timeout,
	}, nil
}
