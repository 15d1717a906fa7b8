package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/perf-calltree/internal/view"
	"github.com/perf-calltree/pkg/compression"
	"github.com/perf-calltree/pkg/writer"
)

func newExportCmd(a *app) *cobra.Command {
	filter := &filterFlags{}
	var (
		output      string
		compress    string
		prettyPrint bool
	)
	cmd := &cobra.Command{
		Use:   "export <capture>",
		Short: "Write the call tree as JSON",
		Long: `Write the current call tree, statistics and filter state as JSON.
The output is compressed when the file name ends in .gz, .zst or .lz4,
or when --compress is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProfile(cmd.Context(), cmd, args[0], filter)
			if err != nil {
				return err
			}

			w := writer.NewJSONWriter[*view.Document]()
			if prettyPrint {
				w = writer.NewPrettyJSONWriter[*view.Document]()
			}
			if compress != "" {
				ct, err := parseCompression(compress)
				if err != nil {
					return err
				}
				w = w.WithCompression(ct)
			}

			res, err := w.WriteToFile(view.NewDocument(p), output)
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}
			a.logger.Info("Wrote %s (%d bytes, compression: %s)", res.Path, res.Size, res.Compression)
			return nil
		},
	}
	filter.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "calltree.json", "Output file")
	cmd.Flags().StringVar(&compress, "compress", "", "Compression: gzip, zstd, lz4 or none (default: by extension)")
	cmd.Flags().BoolVar(&prettyPrint, "pretty", false, "Indent the JSON output")
	return cmd
}

func parseCompression(s string) (compression.Type, error) {
	for _, t := range []compression.Type{compression.TypeNone, compression.TypeGzip, compression.TypeZstd, compression.TypeLZ4} {
		if s == t.String() {
			return t, nil
		}
	}
	return compression.TypeNone, fmt.Errorf("unknown compression %q (valid: none, gzip, zstd, lz4)", s)
}
