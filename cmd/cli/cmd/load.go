package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/perf-calltree/internal/capture"
	"github.com/perf-calltree/internal/profile"
	"github.com/perf-calltree/pkg/model"
)

// filterFlags are the filter-state flags shared by the viewing commands.
type filterFlags struct {
	inverted     bool
	topFunctions bool
	start        uint64
	end          uint64

	// callerRooted pins the forest to normal orientation for commands that
	// print caller-to-callee paths.
	callerRooted bool
}

func (f *filterFlags) register(cmd *cobra.Command, withModes bool) {
	f.callerRooted = !withModes
	if withModes {
		cmd.Flags().BoolVar(&f.inverted, "inverted", false, "Root the tree at the executing function")
		cmd.Flags().BoolVar(&f.topFunctions, "top-functions", false, "Show one root per function")
	}
	cmd.Flags().Uint64Var(&f.start, "start", 0, "First timestamp to include")
	cmd.Flags().Uint64Var(&f.end, "end", 0, "Last timestamp to include")
}

// state merges the configured view defaults with explicitly set flags.
func (f *filterFlags) state(cmd *cobra.Command, a *app, log *model.EventLog) profile.FilterState {
	view := a.cfg.View
	state := profile.FilterState{
		Inverted:        view.Inverted,
		TopFunctions:    view.TopFunctions,
		ShowPercentages: view.ShowPercentages,
	}
	if cmd.Flags().Changed("inverted") {
		state.Inverted = f.inverted
	}
	if cmd.Flags().Changed("top-functions") {
		state.TopFunctions = f.topFunctions
	}
	if f.callerRooted {
		state.Inverted = false
	}

	startSet, endSet := cmd.Flags().Changed("start"), cmd.Flags().Changed("end")
	if startSet || endSet {
		state.HasRange = true
		state.Start = log.FirstTimestamp()
		state.End = log.LastTimestamp()
		if startSet {
			state.Start = f.start
		}
		if endSet {
			state.End = f.end
		}
	}
	return state
}

// loadProfile reads path and builds its initial forest.
func (a *app) loadProfile(ctx context.Context, cmd *cobra.Command, path string, flags *filterFlags) (*profile.Profile, error) {
	loader := a.cfg.Loader
	opts := []capture.Option{
		capture.WithLogger(a.logger),
		capture.WithStrict(loader.Strict),
		capture.WithMaxLineCount(loader.MaxLineCount),
		capture.WithPlaceholderSymbol(loader.PlaceholderSymbol),
	}
	if loader.Format != "" {
		opts = append(opts, capture.WithFormat(loader.Format))
	}

	log, err := capture.Load(ctx, path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	a.logger.Info("Loaded %d events from %s", log.Len(), path)

	p, err := profile.New(log,
		profile.WithLogger(a.logger),
		profile.WithWorkers(a.cfg.Build.Workers),
		profile.WithFilter(flags.state(cmd, a, log)),
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
