package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crossrun/crossrun/internal/config"
	"github.com/crossrun/crossrun/internal/oscontext"
)

// newPlanCmd validates the manifest and prints the platform invocation for
// each test without opening a context scope: path construction is pure, so
// no device or driver is touched.
func newPlanCmd(manifest *string) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Validate the manifest and print planned invocations",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.Load(*manifest)
			if err != nil {
				return err
			}

			octx := oscontext.FactoryFor(opts.TargetOS)()
			fmt.Fprintf(cmd.OutOrStdout(), "target: %s (%s strategy)\n", targetLabel(opts.TargetOS), octx.Strategy().OS())
			fmt.Fprintf(cmd.OutOrStdout(), "jobs: %d, timeout: %s\n", opts.Jobs, opts.Timeout.Duration)
			for _, test := range opts.Tests {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", test.Name, octx.PlatformShell(opts.Shell, test.Args, opts.Outdir))
			}
			return nil
		},
	}
}

func targetLabel(targetOS string) string {
	if targetOS == "" {
		return "default"
	}
	return targetOS
}
