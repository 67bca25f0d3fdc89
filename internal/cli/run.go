package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/crossrun/crossrun/internal/cliutil"
	"github.com/crossrun/crossrun/internal/command"
	"github.com/crossrun/crossrun/internal/config"
	"github.com/crossrun/crossrun/internal/metrics"
	"github.com/crossrun/crossrun/internal/oscontext"
	"github.com/crossrun/crossrun/internal/pool"
	"github.com/crossrun/crossrun/internal/tui"
)

func newRunCmd(manifest *string) *cobra.Command {
	var jobs int
	var useTUI bool
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the manifest's tests on the target platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.Load(*manifest)
			if err != nil {
				return err
			}
			if jobs > 0 {
				opts.Jobs = jobs
			}
			if metricsAddr != "" {
				go serveMetrics(metricsAddr)
			}
			return runTests(cmd, opts, useTUI)
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Number of concurrent test processes (overrides manifest)")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Render progress in an interactive terminal view")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")

	return cmd
}

func runTests(cmd *cobra.Command, opts *config.Options, useTUI bool) error {
	events := make(chan pool.Event, 64)
	consumerDone := make(chan error, 1)

	if useTUI {
		view := tui.New(events)
		go func() {
			err := view.Run()
			// Keep draining so the pool never blocks on a quit UI.
			for range events {
			}
			consumerDone <- err
		}()
	} else {
		pretty := term.IsTerminal(int(os.Stdout.Fd()))
		go func() { consumerDone <- cliutil.WriteEvents(cmd.OutOrStdout(), events, pretty) }()
	}

	runPool := pool.New(pool.Options{Workers: opts.Jobs, Events: events})

	metrics.IncContextScope(opts.TargetOS)
	var results []pool.Result
	err := oscontext.With(opts.TargetOS, opts, func(octx oscontext.Context) error {
		tasks, err := buildTasks(cmd, octx, opts)
		if err != nil {
			return err
		}
		results = octx.Pool().Run(cmd.Context(), tasks)
		return nil
	}, oscontext.WithPool(runPool))

	close(events)
	if consumeErr := <-consumerDone; consumeErr != nil && err == nil {
		err = consumeErr
	}
	if err != nil {
		return err
	}
	return summarize(cmd, opts, results)
}

// buildTasks turns manifest entries into runnable invocations through the
// context's command strategy. Android targets additionally push the test
// binary to the device first.
func buildTasks(cmd *cobra.Command, octx oscontext.Context, opts *config.Options) ([]pool.Task, error) {
	strategy := octx.Strategy()

	if androidStrategy, ok := strategy.(*command.Android); ok {
		session := androidStrategy.Session()
		if session == nil {
			return nil, fmt.Errorf("android target has no driver session")
		}
		local := octx.PlatformShell(opts.Shell, nil, opts.Outdir)
		if err := session.Push(cmd.Context(), local, opts.Shell); err != nil {
			return nil, fmt.Errorf("push test binary: %w", err)
		}
	}

	tasks := make([]pool.Task, 0, len(opts.Tests))
	for _, test := range opts.Tests {
		inv, err := strategy.Build(command.Spec{
			Shell:   opts.Shell,
			Args:    test.Args,
			Outdir:  opts.Outdir,
			Env:     opts.Env,
			Timeout: opts.Timeout.Duration,
		})
		if err != nil {
			return nil, fmt.Errorf("build invocation for %s: %w", test.Name, err)
		}
		tasks = append(tasks, pool.Task{Name: test.Name, Invocation: inv})
	}
	return tasks, nil
}

func summarize(cmd *cobra.Command, opts *config.Options, results []pool.Result) error {
	var failed int
	for _, res := range results {
		outcome := "passed"
		switch {
		case res.TimedOut:
			outcome = "timeout"
		case !res.Passed():
			outcome = "failed"
		}
		if outcome != "passed" {
			failed++
		}
		metrics.ObserveTest(opts.TargetOS, outcome, res.Duration)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d tests, %d failed\n", len(results), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d tests failed", failed, len(results))
	}
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
	}
}
