package pool

import (
	"context"
	stdruntime "runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/crossrun/crossrun/internal/command"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if stdruntime.GOOS == "windows" {
		t.Skip("pool tests use /bin/sh")
	}
}

func shellTask(name, script string, timeout time.Duration) Task {
	return Task{
		Name: name,
		Invocation: &command.Invocation{
			Path:    "/bin/sh",
			Args:    []string{"-c", script},
			Timeout: timeout,
		},
	}
}

func TestRunPreservesTaskOrder(t *testing.T) {
	skipWithoutShell(t)

	tasks := []Task{
		shellTask("first", "echo one", 0),
		shellTask("second", "echo two", 0),
		shellTask("third", "echo three", 0),
	}

	p := New(Options{Workers: 2})
	results := p.Run(context.Background(), tasks)

	if len(results) != len(tasks) {
		t.Fatalf("got %d results, want %d", len(results), len(tasks))
	}
	for i, res := range results {
		if res.Task != tasks[i].Name {
			t.Fatalf("result %d is for %q, want %q", i, res.Task, tasks[i].Name)
		}
		if !res.Passed() {
			t.Fatalf("task %q failed: exit=%d err=%v", res.Task, res.ExitCode, res.Err)
		}
	}
	if results[1].Output != "two\n" {
		t.Fatalf("unexpected output %q", results[1].Output)
	}
}

func TestRunReportsNonZeroExit(t *testing.T) {
	skipWithoutShell(t)

	p := New(Options{Workers: 1})
	results := p.Run(context.Background(), []Task{shellTask("boom", "exit 3", 0)})

	res := results[0]
	if res.Passed() {
		t.Fatalf("expected failure")
	}
	if res.ExitCode != 3 {
		t.Fatalf("exit code = %d, want 3", res.ExitCode)
	}
	if res.Err != nil {
		t.Fatalf("exit status should not surface as an error, got %v", res.Err)
	}
}

func TestRunTimesOutAndInvokesTerminateHook(t *testing.T) {
	skipWithoutShell(t)

	var terminated atomic.Int64
	p := New(Options{
		Workers: 1,
		Terminate: func(pid int) error {
			terminated.Add(1)
			return nil
		},
	})

	results := p.Run(context.Background(), []Task{shellTask("stuck", "sleep 30", 100*time.Millisecond)})

	res := results[0]
	if !res.TimedOut {
		t.Fatalf("expected timeout, got %+v", res)
	}
	if terminated.Load() != 1 {
		t.Fatalf("terminate hook called %d times, want 1", terminated.Load())
	}
	if res.Duration >= 10*time.Second {
		t.Fatalf("timed-out task took too long: %v", res.Duration)
	}
}

func TestRunTimeoutKillsProcessGroup(t *testing.T) {
	skipWithoutShell(t)

	// The background child inherits the output pipe, so only terminating
	// the whole group lets Wait return promptly.
	start := time.Now()
	p := New(Options{Workers: 1})
	results := p.Run(context.Background(), []Task{
		shellTask("tree", "sleep 30 & sleep 30", 100*time.Millisecond),
	})

	res := results[0]
	if !res.TimedOut {
		t.Fatalf("expected timeout, got %+v", res)
	}
	if elapsed := time.Since(start); elapsed >= 10*time.Second {
		t.Fatalf("process group outlived the timeout: %v", elapsed)
	}
}

func TestRunStopsSchedulingOnCancel(t *testing.T) {
	skipWithoutShell(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(Options{Workers: 1})
	results := p.Run(ctx, []Task{shellTask("skipped", "echo hi", 0)})

	if results[0].Err == nil {
		t.Fatalf("expected context error for unscheduled task")
	}
}

func TestRunEmitsLifecycleEvents(t *testing.T) {
	skipWithoutShell(t)

	events := make(chan Event, 16)
	p := New(Options{Workers: 1, Events: events})
	p.Run(context.Background(), []Task{
		shellTask("ok", "true", 0),
		shellTask("bad", "exit 1", 0),
	})
	close(events)

	var types []EventType
	byTask := map[string][]EventType{}
	for evt := range events {
		types = append(types, evt.Type)
		byTask[evt.Task] = append(byTask[evt.Task], evt.Type)
	}

	if len(types) != 4 {
		t.Fatalf("expected 4 events, got %d: %v", len(types), types)
	}
	if got := byTask["ok"]; len(got) != 2 || got[0] != EventTypeStarted || got[1] != EventTypePassed {
		t.Fatalf("unexpected events for ok: %v", got)
	}
	if got := byTask["bad"]; len(got) != 2 || got[0] != EventTypeStarted || got[1] != EventTypeFailed {
		t.Fatalf("unexpected events for bad: %v", got)
	}
}

func TestNewDefaultsWorkerCount(t *testing.T) {
	p := New(Options{})
	if p.Workers() != stdruntime.NumCPU() {
		t.Fatalf("workers = %d, want %d", p.Workers(), stdruntime.NumCPU())
	}
}

func TestRunRejectsNilInvocation(t *testing.T) {
	p := New(Options{Workers: 1})
	results := p.Run(context.Background(), []Task{{Name: "empty"}})
	if results[0].Err == nil {
		t.Fatalf("expected error for task without invocation")
	}
}
