package cli

import (
	"fmt"
	stdruntime "runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crossrun/crossrun/internal/oscontext"
)

// newPsCmd exposes the Linux context's process listing for finding test
// processes a previous run left behind.
func newPsCmd() *cobra.Command {
	var match string
	var kill bool

	cmd := &cobra.Command{
		Use:   "ps",
		Short: "List (and optionally terminate) leftover test processes on a Linux host",
		RunE: func(cmd *cobra.Command, args []string) error {
			if stdruntime.GOOS != "linux" {
				return fmt.Errorf("ps requires a linux host")
			}

			octx := oscontext.NewLinux()
			procs, err := octx.ListProcesses()
			if err != nil {
				return fmt.Errorf("list processes: %w", err)
			}

			var failures int
			for _, proc := range procs {
				if !proc.Matches(match) {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%8d  %s  %s\n", proc.PID, proc.Exe, strings.Join(proc.Cmdline, " "))
				if !kill {
					continue
				}
				if err := octx.TerminateProcess(proc); err != nil {
					failures++
					fmt.Fprintf(cmd.ErrOrStderr(), "terminate %d: %v\n", proc.PID, err)
				}
			}
			if failures > 0 {
				return fmt.Errorf("failed to terminate %d processes", failures)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&match, "match", "", "Only show processes whose executable or arguments contain this substring")
	cmd.Flags().BoolVar(&kill, "kill", false, "Send SIGTERM to the matched processes")

	return cmd
}
