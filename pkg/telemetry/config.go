// Package telemetry provides OpenTelemetry tracing for capture loading and tree rebuilds.
package telemetry

import "strings"

// Config holds OpenTelemetry settings. The CLI fills it from the
// telemetry section of the application configuration.
type Config struct {
	// Enabled indicates whether tracing is exported at all.
	Enabled bool

	// ServiceName is reported as service.name, defaults to "perf-calltree".
	ServiceName string

	// ServiceVersion is reported as service.version.
	ServiceVersion string

	// Endpoint is the OTLP collector endpoint.
	Endpoint string

	// Protocol is the OTLP protocol: grpc or http.
	Protocol string

	// Headers are sent with every export request (e.g. Authorization).
	Headers map[string]string

	// Insecure disables TLS towards the collector.
	Insecure bool

	// Sampler is one of always_on, always_off, traceidratio,
	// parentbased_always_on, parentbased_always_off, parentbased_traceidratio.
	Sampler string

	// SamplerArg is the sampler argument (ratio for the traceidratio samplers).
	SamplerArg string

	// ResourceAttrs contains additional resource attributes.
	ResourceAttrs map[string]string
}

// withDefaults returns a copy of cfg with empty fields defaulted.
func (c Config) withDefaults() Config {
	if c.ServiceName == "" {
		c.ServiceName = "perf-calltree"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "unknown"
	}
	if c.Protocol == "" {
		c.Protocol = "grpc"
	}
	return c
}

// ParseKeyValuePairs parses a comma-separated list of key=value pairs.
// Example: "key1=value1,key2=value2" -> map[string]string{"key1": "value1", "key2": "value2"}
func ParseKeyValuePairs(s string) map[string]string {
	result := make(map[string]string)
	if s == "" {
		return result
	}

	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		// Split on first '=' only to allow '=' in values
		idx := strings.Index(pair, "=")
		if idx <= 0 {
			continue
		}

		key := strings.TrimSpace(pair[:idx])
		if key != "" {
			result[key] = strings.TrimSpace(pair[idx+1:])
		}
	}

	return result
}
