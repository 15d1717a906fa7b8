package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/perf-calltree/internal/view"
)

func newDisasmCmd(a *app) *cobra.Command {
	filter := &filterFlags{}
	cmd := &cobra.Command{
		Use:   "disasm <capture> <sym>[;<sym>...]",
		Short: "Show per-address hits of one call path",
		Long: `Show how the events that executed inside one node are spread over
instruction addresses. The node is addressed by its symbol path from a root,
separated by ';', in the tree shape selected by --inverted/--top-functions.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProfile(cmd.Context(), cmd, args[0], filter)
			if err != nil {
				return err
			}

			d, err := view.NewDisassembly(p, view.ParsePath(args[1]))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printTitle(out, fmt.Sprintf("%s @ %#x (%d events)", d.Symbol, d.Address, d.Total))
			printHeader(out, "ADDRESS     ", "OFFSET  ", "HITS      ", "PERCENT ")
			for _, row := range d.Rows() {
				fmt.Fprintf(out, "  %#-12x +%-8d %10d %8.2f%%\n", row.Address, row.Offset, row.Hits, row.Percent)
			}
			return nil
		},
	}
	filter.register(cmd, true)
	return cmd
}
