package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/perf-calltree/internal/statistics"
)

type topOptions struct {
	filter filterFlags
	topN   int
	sortBy string
	stacks int
}

func newTopCmd(a *app) *cobra.Command {
	opts := &topOptions{}
	cmd := &cobra.Command{
		Use:   "top <capture>",
		Short: "List the hottest functions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(cmd, a, opts, args[0])
		},
	}
	opts.filter.register(cmd, false)
	cmd.Flags().IntVarP(&opts.topN, "top", "n", 15, "Number of functions to list (0 = all)")
	cmd.Flags().StringVar(&opts.sortBy, "sort", "self", "Sort by: self or total")
	cmd.Flags().IntVar(&opts.stacks, "stacks", 0, "Also print the heaviest call paths per function")
	return cmd
}

func runTop(cmd *cobra.Command, a *app, opts *topOptions, path string) error {
	p, err := a.loadProfile(cmd.Context(), cmd, path, &opts.filter)
	if err != nil {
		return err
	}

	// top-functions mode keeps the flat roots; the tree mode feeds call paths
	calc := statistics.NewTopFuncsCalculator(
		statistics.WithTopN(opts.topN),
		statistics.WithSortBy(statistics.ParseSortBy(opts.sortBy)),
		statistics.WithFlatForest(p.ShowTopFunctions()),
	)
	result := calc.Calculate(p.Forest(), p.FilteredEventCount())

	out := cmd.OutOrStdout()
	printTitle(out, fmt.Sprintf("Top functions (%d events)", result.TotalSamples))
	printHeader(out, " # ", "SELF     ", "SELF %  ", "TOTAL    ", "TOTAL % ", "FUNCTION")
	for i, e := range result.TopFuncs {
		fmt.Fprintf(out, "  %3d %10d %8.2f%% %10d %8.2f%%  %s\n",
			i+1, e.SelfSamples, e.SelfPercent, e.TotalSamples, e.TotalPercent, truncateString(e.Name, 80))
	}

	if opts.stacks > 0 {
		callstacks := result.GetTopFuncsCallstacks(opts.stacks)
		for _, e := range result.TopFuncs {
			info, ok := callstacks[e.Name]
			if !ok {
				continue
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  %s %s\n", titleStyle.Render(e.Name), dimStyle.Render(fmt.Sprintf("(%d paths)", info.Count)))
			for _, stack := range info.CallStacks {
				fmt.Fprintf(out, "    %s\n", stack)
			}
		}
	}
	return nil
}
