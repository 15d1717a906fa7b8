package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/perf-calltree/internal/profile"
	"github.com/perf-calltree/pkg/writer"
)

func newStatsCmd(a *app) *cobra.Command {
	filter := &filterFlags{}
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats <capture>",
		Short: "Print aggregate statistics of a capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProfile(cmd.Context(), cmd, args[0], filter)
			if err != nil {
				return err
			}
			stats := p.Statistics()
			out := cmd.OutOrStdout()

			if asJSON {
				return writer.NewPrettyJSONWriter[profile.Statistics]().Write(stats, out)
			}

			printTitle(out, "Statistics")
			fmt.Fprintf(out, "  Executable:       %s\n", p.Log().ExecutablePath())
			fmt.Fprintf(out, "  Events:           %d\n", stats.EventCount)
			fmt.Fprintf(out, "  Filtered events:  %d\n", stats.FilteredEventCount)
			fmt.Fprintf(out, "  First timestamp:  %d\n", stats.FirstTimestamp)
			fmt.Fprintf(out, "  Last timestamp:   %d\n", stats.LastTimestamp)
			fmt.Fprintf(out, "  Length:           %d ms\n", stats.LengthInMs)
			fmt.Fprintf(out, "  Deepest stack:    %d\n", stats.DeepestStackDepth)
			fmt.Fprintf(out, "  Roots:            %d\n", stats.RootCount)
			fmt.Fprintf(out, "  Nodes:            %d\n", stats.NodeCount)
			return nil
		},
	}
	filter.register(cmd, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print statistics as JSON")
	return cmd
}
