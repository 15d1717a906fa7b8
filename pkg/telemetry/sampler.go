package telemetry

import (
	"strconv"
	"strings"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// createSampler creates a trace sampler based on configuration.
// Unknown or empty sampler names sample everything.
func createSampler(cfg *Config) sdktrace.Sampler {
	name := strings.ToLower(strings.TrimSpace(cfg.Sampler))
	parentBased := strings.HasPrefix(name, "parentbased_")
	name = strings.TrimPrefix(name, "parentbased_")

	var root sdktrace.Sampler
	switch name {
	case "always_off":
		root = sdktrace.NeverSample()
	case "traceidratio":
		root = sdktrace.TraceIDRatioBased(parseRatio(cfg.SamplerArg))
	default:
		root = sdktrace.AlwaysSample()
	}

	if parentBased {
		return sdktrace.ParentBased(root)
	}
	return root
}

// parseRatio parses a sampling ratio clamped to [0, 1].
// Returns 1.0 when the value is empty or not a number.
func parseRatio(s string) float64 {
	ratio, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 1.0
	}
	switch {
	case ratio < 0:
		return 0
	case ratio > 1:
		return 1.0
	default:
		return ratio
	}
}
