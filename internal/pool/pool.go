// Package pool schedules built invocations across a bounded set of
// workers. A pool is bound to the OS context that created it and is
// reused for every run within that context's scope.
package pool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	stdruntime "runtime"
	"sync"
	"time"

	"github.com/crossrun/crossrun/internal/command"
)

// termGracePeriod is how long a timed-out process gets to exit after the
// termination hook before it is killed outright.
const termGracePeriod = 2 * time.Second

// Task pairs a name with a runnable invocation.
type Task struct {
	Name       string
	Invocation *command.Invocation
}

// Result records the outcome of one task.
type Result struct {
	Task     string
	ExitCode int
	Output   string
	Duration time.Duration
	TimedOut bool
	Err      error
}

// Passed reports whether the task completed with a zero exit status.
func (r Result) Passed() bool {
	return r.Err == nil && !r.TimedOut && r.ExitCode == 0
}

// Options configure a pool.
type Options struct {
	// Workers bounds parallelism; values below one select NumCPU.
	Workers int

	// Events receives progress notifications when non-nil. The pool never
	// closes the channel; sends block, so the caller must keep draining
	// until Run returns.
	Events chan<- Event

	// Terminate is invoked with the pid of a task that outlived its
	// timeout, before the process is killed outright. It carries the
	// owning OS context's termination semantics.
	Terminate func(pid int) error
}

// Pool runs tasks with bounded parallelism.
type Pool struct {
	workers int
	events  chan<- Event

	mu        sync.Mutex
	terminate func(pid int) error
}

// New constructs a pool from the provided options.
func New(opts Options) *Pool {
	workers := opts.Workers
	if workers <= 0 {
		workers = stdruntime.NumCPU()
	}
	return &Pool{workers: workers, events: opts.Events, terminate: opts.Terminate}
}

// SetTerminate installs the termination hook invoked for tasks that
// outlive their timeout. The OS context binding an externally supplied
// pool uses this to carry its termination semantics across; a hook
// already present is kept.
func (p *Pool) SetTerminate(fn func(pid int) error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.terminate == nil {
		p.terminate = fn
	}
}

func (p *Pool) terminateHook() func(pid int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.terminate
}

// Workers reports the pool's parallelism bound.
func (p *Pool) Workers() int {
	return p.workers
}

// Run executes all tasks and returns one result per task, in task order.
// Cancelling ctx stops scheduling new tasks; tasks not started by then
// report the context error.
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	results := make([]Result, len(tasks))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = p.runTask(ctx, tasks[idx])
			}
		}()
	}

	next := 0
schedule:
	for ; next < len(tasks); next++ {
		select {
		case jobs <- next:
		case <-ctx.Done():
			break schedule
		}
	}
	close(jobs)
	wg.Wait()

	for ; next < len(tasks); next++ {
		results[next] = Result{Task: tasks[next].Name, Err: ctx.Err()}
	}
	return results
}

func (p *Pool) runTask(ctx context.Context, task Task) Result {
	start := time.Now()
	p.emit(Event{Timestamp: start, Task: task.Name, Type: EventTypeStarted})

	res := p.execute(ctx, task)
	res.Duration = time.Since(start)

	evt := Event{Timestamp: time.Now(), Task: task.Name, Duration: res.Duration, Err: res.Err}
	switch {
	case res.TimedOut:
		evt.Type = EventTypeTimeout
	case res.Passed():
		evt.Type = EventTypePassed
	default:
		evt.Type = EventTypeFailed
		evt.Message = fmt.Sprintf("exit %d", res.ExitCode)
	}
	p.emit(evt)
	return res
}

func (p *Pool) execute(ctx context.Context, task Task) Result {
	res := Result{Task: task.Name}
	inv := task.Invocation
	if inv == nil {
		res.Err = errors.New("task has no invocation")
		return res
	}

	runCtx := ctx
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.Command(inv.Path, inv.Args...)
	configureCmdSysProcAttr(cmd)
	// A descendant may inherit the output pipe and outlive the task's
	// process group; WaitDelay keeps Wait from blocking on it forever.
	cmd.WaitDelay = termGracePeriod
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if len(inv.Env) > 0 {
		env := os.Environ()
		for k, v := range inv.Env {
			env = append(env, k+"="+v)
		}
		cmd.Env = env
	}

	if err := cmd.Start(); err != nil {
		res.Err = fmt.Errorf("start %s: %w", task.Name, err)
		return res
	}

	waitDone := make(chan error, 1)
	go func() {
		waitDone <- cmd.Wait()
	}()

	select {
	case err := <-waitDone:
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				res.ExitCode = exitErr.ExitCode()
			} else {
				res.Err = fmt.Errorf("wait %s: %w", task.Name, err)
			}
		}
	case <-runCtx.Done():
		res.TimedOut = errors.Is(runCtx.Err(), context.DeadlineExceeded)
		res.Err = runCtx.Err()
		pid := cmd.Process.Pid
		if hook := p.terminateHook(); hook != nil {
			_ = hook(pid)
		}
		_ = terminateGroup(pid)
		select {
		case <-waitDone:
		case <-time.After(termGracePeriod):
			_ = killGroup(pid)
			<-waitDone
		}
	}

	res.Output = buf.String()
	return res
}

func (p *Pool) emit(evt Event) {
	if p.events == nil {
		return
	}
	p.events <- evt
}
