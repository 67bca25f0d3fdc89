package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crossrun/crossrun/internal/oscontext"
)

func newPlatformsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List target OS identifiers and their context variants",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, target := range oscontext.Targets() {
				octx := oscontext.FactoryFor(target)()
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s strategy\n", target, octx.Strategy().OS())
			}
			fallback := oscontext.FactoryFor("")()
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s strategy (any other identifier)\n", "default", fallback.Strategy().OS())
			return nil
		},
	}
}
