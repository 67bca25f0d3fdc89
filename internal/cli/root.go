// Package cli wires the crossrun command surface.
package cli

import (
	stdcontext "context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the crossrun command tree.
func NewRootCmd() *cobra.Command {
	var manifest string

	root := &cobra.Command{
		Use:   "crossrun",
		Short: "Cross-platform test-binary runner",
	}

	root.PersistentFlags().
		StringVarP(&manifest, "file", "f", "run.yaml", "Path to run manifest")

	root.AddCommand(newRunCmd(&manifest))
	root.AddCommand(newPlanCmd(&manifest))
	root.AddCommand(newPlatformsCmd())
	root.AddCommand(newPsCmd())

	root.SilenceUsage = true
	root.SilenceErrors = true

	return root
}

// Execute runs the CLI entrypoint.
func Execute() {
	ctx, stop := signal.NotifyContext(stdcontext.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	root.SetContext(ctx)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
