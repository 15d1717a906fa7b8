// Package cmd implements the calltree command line.
package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/perf-calltree/pkg/config"
	"github.com/perf-calltree/pkg/telemetry"
	"github.com/perf-calltree/pkg/utils"
)

// app holds the state shared by all subcommands of one invocation.
type app struct {
	configPath string
	verbose    bool
	logFormat  string

	cfg      *config.Config
	logger   utils.Logger
	shutdown telemetry.ShutdownFunc
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: &utils.NullLogger{}}

	rootCmd := &cobra.Command{
		Use:   "calltree",
		Short: "Explore call trees of sampled profiles",
		Long: `calltree loads a captured profile and prints aggregated call trees.

Stacks from every event are merged into a forest that can be viewed
top-down, inverted (rooted at the executing function) or as a flat
top-functions table, optionally restricted to a timestamp range.

Supported capture formats:
  - perfcore : JSON event log with symbol table (.json, .perfcore)
  - collapsed: folded stacks, "thread;f1;f2 count" (.collapsed, .folded, .txt)

Captures may be gzip, zstd or lz4 compressed.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: ./calltree.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text or json (overrides config)")

	binName := BinName()
	rootCmd.Example = `  # Print the call tree of a capture
  ` + binName + ` tree ./run.perfcore

  # Inverted tree restricted to a time window
  ` + binName + ` tree ./run.perfcore --inverted --start 1000 --end 2500

  # Hottest functions by self time
  ` + binName + ` top ./stacks.folded -n 20

  # Per-address hits of one call path
  ` + binName + ` disasm ./run.perfcore "main;parse;lex"

  # Export the tree as compressed JSON
  ` + binName + ` export ./run.perfcore -o tree.json.zst`

	rootCmd.AddCommand(
		newTreeCmd(a),
		newTopCmd(a),
		newDisasmCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// BinName returns the base name of the current executable
func BinName() string {
	return filepath.Base(os.Args[0])
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg

	logger := utils.NewLogger(utils.ParseLogLevel(cfg.Log.Level), cfg.Log.Format, cmd.ErrOrStderr())
	utils.SetGlobalLogger(logger)
	a.logger = logger

	shutdown, err := telemetry.Init(cmd.Context(), telemetryConfig(cfg.Telemetry))
	if err != nil {
		a.logger.Warn("Failed to initialize telemetry: %v", err)
	} else {
		a.shutdown = shutdown
	}
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if a.shutdown == nil {
		return nil
	}
	if err := a.shutdown(ctx); err != nil {
		a.logger.Warn("Failed to shut down telemetry: %v", err)
	}
	return nil
}

func telemetryConfig(c config.TelemetryConfig) telemetry.Config {
	return telemetry.Config{
		Enabled:        c.Enabled,
		ServiceName:    c.ServiceName,
		ServiceVersion: Version,
		Endpoint:       c.Endpoint,
		Protocol:       c.Protocol,
		Headers:        telemetry.ParseKeyValuePairs(c.Headers),
		Insecure:       c.Insecure,
		Sampler:        c.Sampler,
		SamplerArg:     c.SamplerArg,
	}
}
