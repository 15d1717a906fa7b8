// Package telemetry provides OpenTelemetry tracing for capture loading and tree rebuilds.
//
// Init installs a global TracerProvider when tracing is enabled. Packages
// create spans through Tracer(), which falls back to the no-op provider
// when Init was never called or tracing is disabled.
//
// Usage:
//
//	shutdown, err := telemetry.Init(ctx, telemetry.Config{Enabled: true, Endpoint: "localhost:4317"})
//	if err != nil {
//	    logger.Warn("Failed to initialize telemetry: %v", err)
//	}
//	defer shutdown(ctx)
//
//	ctx, span := telemetry.Tracer().Start(ctx, "capture.Load")
//	defer span.End()
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName is the tracer name used by every span in this module.
const InstrumentationName = "github.com/perf-calltree"

// ShutdownFunc is a function that shuts down the TracerProvider.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(_ context.Context) error {
	return nil
}

// Init initializes OpenTelemetry and sets up the global TracerProvider.
// When cfg.Enabled is false it returns a no-op shutdown function and the
// global provider stays the default no-op one.
func Init(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return noopShutdown, nil
	}
	cfg = cfg.withDefaults()

	res, err := buildResource(ctx, &cfg)
	if err != nil {
		return noopShutdown, err
	}

	exporter, err := createExporter(ctx, &cfg)
	if err != nil {
		return noopShutdown, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(createSampler(&cfg)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// Tracer returns the module tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}
