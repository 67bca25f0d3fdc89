package android

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeRunner struct {
	calls [][]string
	fail  map[string]error
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) (string, error) {
	call := append([]string{name}, args...)
	f.calls = append(f.calls, call)
	joined := strings.Join(call, " ")
	for prefix, err := range f.fail {
		if strings.Contains(joined, prefix) {
			return "", err
		}
	}
	return "", nil
}

func newTestDriver(serial string, runner *fakeRunner) *Driver {
	return &Driver{adb: "adb", serial: serial, run: runner.run}
}

func TestConnectWaitsForDeviceAndPreparesWorkdir(t *testing.T) {
	runner := &fakeRunner{}
	d := newTestDriver("emulator-5554", runner)

	if err := d.connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}

	if len(runner.calls) != 2 {
		t.Fatalf("expected 2 adb invocations, got %d: %v", len(runner.calls), runner.calls)
	}
	want := []string{"adb", "-s", "emulator-5554", "wait-for-device"}
	if got := strings.Join(runner.calls[0], " "); got != strings.Join(want, " ") {
		t.Fatalf("unexpected first invocation %q", got)
	}
	second := strings.Join(runner.calls[1], " ")
	if !strings.Contains(second, "shell mkdir -p "+RemoteWorkdir) {
		t.Fatalf("expected workdir creation, got %q", second)
	}
}

func TestConnectSurfacesWaitFailure(t *testing.T) {
	bootErr := errors.New("device offline")
	runner := &fakeRunner{fail: map[string]error{"wait-for-device": bootErr}}
	d := newTestDriver("emulator-5554", runner)

	err := d.connect()
	if err == nil {
		t.Fatalf("expected connect to fail")
	}
	if !errors.Is(err, bootErr) {
		t.Fatalf("expected wrapped boot error, got %v", err)
	}
}

func TestPushResolvesRelativeRemotePaths(t *testing.T) {
	runner := &fakeRunner{}
	d := newTestDriver("", runner)

	if err := d.Push(context.Background(), "/out/d8", "d8"); err != nil {
		t.Fatalf("push: %v", err)
	}

	got := strings.Join(runner.calls[0], " ")
	want := "adb push /out/d8 " + RemoteWorkdir + "/d8"
	if got != want {
		t.Fatalf("push invocation = %q, want %q", got, want)
	}
}

func TestTearDownRemovesWorkdir(t *testing.T) {
	runner := &fakeRunner{}
	d := newTestDriver("emulator-5554", runner)

	if err := d.TearDown(); err != nil {
		t.Fatalf("tear down: %v", err)
	}

	got := strings.Join(runner.calls[0], " ")
	if !strings.Contains(got, "shell rm -rf "+RemoteWorkdir) {
		t.Fatalf("expected workdir removal, got %q", got)
	}
}

func TestShellWrapsErrors(t *testing.T) {
	shellErr := errors.New("exit 1")
	runner := &fakeRunner{fail: map[string]error{"shell": shellErr}}
	d := newTestDriver("emulator-5554", runner)

	_, err := d.Shell(context.Background(), "ls", RemoteWorkdir)
	if !errors.Is(err, shellErr) {
		t.Fatalf("expected wrapped shell error, got %v", err)
	}
}
