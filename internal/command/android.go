package command

import (
	"errors"
	"path"
	"sync"

	"github.com/crossrun/crossrun/internal/android"
)

// Android runs test binaries on a device through the driver session the
// Android OS context installs at lifecycle entry. Build refuses to work
// until a session is present and again once the scope has exited.
type Android struct {
	mu      sync.Mutex
	session android.Session
}

func (a *Android) OS() string { return "android" }

// SetSession installs or clears the driver session. Only the Android OS
// context should call this, at scope entry and exit.
func (a *Android) SetSession(s android.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = s
}

// Session returns the currently installed driver session, if any.
func (a *Android) Session() android.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

func (a *Android) Build(spec Spec) (*Invocation, error) {
	session := a.Session()
	if session == nil {
		return nil, errors.New("android: no driver session installed")
	}

	args := []string{"shell", path.Join(android.RemoteWorkdir, spec.Shell)}
	args = append(args, spec.Args...)
	if serial := session.Serial(); serial != "" {
		args = append([]string{"-s", serial}, args...)
	}

	return &Invocation{
		Path:    "adb",
		Args:    args,
		Env:     cloneEnv(spec.Env),
		Timeout: spec.Timeout,
	}, nil
}
