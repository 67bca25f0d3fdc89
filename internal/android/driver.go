// Package android manages the adb-backed device session used to run test
// binaries on Android targets. A session lives for exactly one context
// scope: it is acquired at lifecycle entry and torn down at exit.
package android

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path"
	"strings"
	"time"
)

const (
	defaultADB = "adb"

	// RemoteWorkdir is the on-device scratch directory test binaries are
	// pushed to. TearDown removes it.
	RemoteWorkdir = "/data/local/tmp/crossrun"

	bootTimeout     = 60 * time.Second
	teardownTimeout = 10 * time.Second
)

// Session is an active connection to a device or emulator.
type Session interface {
	// Serial identifies the device, or is empty when adb should pick the
	// only attached one.
	Serial() string

	// Push copies a local file to the device scratch directory. Relative
	// remote paths are resolved under RemoteWorkdir.
	Push(ctx context.Context, local, remote string) error

	// Shell runs a command on the device and returns its combined output.
	Shell(ctx context.Context, args ...string) (string, error)

	// TearDown releases on-device resources held by the session.
	TearDown() error
}

// Driver is an adb-backed Session.
type Driver struct {
	adb    string
	serial string

	// run executes one adb invocation and returns its combined output.
	run func(ctx context.Context, name string, args ...string) (string, error)
}

// NewDriver connects to the device identified by serial, waits for it to
// become available and prepares the scratch directory.
func NewDriver(serial string) (*Driver, error) {
	d := &Driver{adb: defaultADB, serial: serial, run: runCommand}
	if err := d.connect(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Driver) connect() error {
	ctx, cancel := context.WithTimeout(context.Background(), bootTimeout)
	defer cancel()

	if _, err := d.run(ctx, d.adb, d.args("wait-for-device")...); err != nil {
		return fmt.Errorf("wait for device %q: %w", d.serial, err)
	}
	if _, err := d.Shell(ctx, "mkdir", "-p", RemoteWorkdir); err != nil {
		return fmt.Errorf("prepare device workdir: %w", err)
	}
	return nil
}

// Serial returns the device serial the session is bound to.
func (d *Driver) Serial() string {
	return d.serial
}

// Push copies local to the device.
func (d *Driver) Push(ctx context.Context, local, remote string) error {
	if !path.IsAbs(remote) {
		remote = path.Join(RemoteWorkdir, remote)
	}
	if _, err := d.run(ctx, d.adb, d.args("push", local, remote)...); err != nil {
		return fmt.Errorf("push %s: %w", local, err)
	}
	return nil
}

// Shell runs args on the device through adb shell.
func (d *Driver) Shell(ctx context.Context, args ...string) (string, error) {
	out, err := d.run(ctx, d.adb, d.args(append([]string{"shell"}, args...)...)...)
	if err != nil {
		return out, fmt.Errorf("adb shell %s: %w", strings.Join(args, " "), err)
	}
	return out, nil
}

// TearDown removes the device scratch directory.
func (d *Driver) TearDown() error {
	ctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
	defer cancel()

	if _, err := d.Shell(ctx, "rm", "-rf", RemoteWorkdir); err != nil {
		return fmt.Errorf("remove device workdir: %w", err)
	}
	return nil
}

func (d *Driver) args(rest ...string) []string {
	if d.serial == "" {
		return rest
	}
	return append([]string{"-s", d.serial}, rest...)
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return buf.String(), fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return buf.String(), nil
}
