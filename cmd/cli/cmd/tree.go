package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/perf-calltree/internal/profile"
	"github.com/perf-calltree/internal/view"
	"github.com/perf-calltree/pkg/writer"
)

type treeOptions struct {
	filter     filterFlags
	depth      int
	minPercent float64
	json       bool
}

func newTreeCmd(a *app) *cobra.Command {
	opts := &treeOptions{}
	cmd := &cobra.Command{
		Use:   "tree <capture>",
		Short: "Print the merged call tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, a, opts, args[0])
		},
	}
	opts.filter.register(cmd, true)
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "Maximum depth to print (0 = config or unlimited)")
	cmd.Flags().Float64Var(&opts.minPercent, "min-percent", 0, "Hide nodes below this share of events")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the tree as JSON")
	return cmd
}

func runTree(cmd *cobra.Command, a *app, opts *treeOptions, path string) error {
	p, err := a.loadProfile(cmd.Context(), cmd, path, &opts.filter)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if opts.json {
		return writer.NewPrettyJSONWriter[*view.Document]().Write(view.NewDocument(p), out)
	}

	flatten := view.FlattenOptions{
		MaxDepth:   a.cfg.View.MaxDepth,
		MinPercent: a.cfg.View.MinPercent,
	}
	if cmd.Flags().Changed("depth") {
		flatten.MaxDepth = opts.depth
	}
	if cmd.Flags().Changed("min-percent") {
		flatten.MinPercent = opts.minPercent
	}

	printTree(out, p, view.NewCallTree(p).Flatten(flatten))
	return nil
}

func printTree(w io.Writer, p *profile.Profile, rows []view.Row) {
	filter := p.Filter()
	printTitle(w, fmt.Sprintf("Call tree (%s, %d of %d events)",
		filter.Mode(), p.FilteredEventCount(), p.Log().Len()))

	if filter.ShowPercentages {
		printHeader(w, "TOTAL %  ", "SELF %   ", "FUNCTION")
	} else {
		printHeader(w, "TOTAL    ", "SELF     ", "FUNCTION")
	}

	for _, row := range rows {
		indent := strings.Repeat("  ", row.Depth)
		if filter.ShowPercentages {
			fmt.Fprintf(w, "  %9.2f%% %9.2f%%  %s%s\n", row.TotalPercent, row.SelfPercent, indent, row.Symbol)
		} else {
			fmt.Fprintf(w, "  %10d %10d  %s%s\n", row.TotalCount, row.SelfCount, indent, row.Symbol)
		}
	}
}
