// Package telemetry installs the OpenTelemetry tracer provider that the
// audit spans are recorded with
package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/ludo-technologies/schemascan/internal/config"
	"github.com/ludo-technologies/schemascan/internal/constants"
	"github.com/ludo-technologies/schemascan/internal/version"
)

// ShutdownFunc flushes buffered spans and stops the exporter
type ShutdownFunc func(ctx context.Context) error

// Setup installs a global tracer provider for the configured exporter.
// Stdout spans are written to out. With the none exporter the global no-op
// provider is left in place and the returned shutdown does nothing.
func Setup(ctx context.Context, cfg *config.TracingConfig, out io.Writer) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }
	if cfg == nil || cfg.Exporter == "" || cfg.Exporter == config.TraceExporterNone {
		return noop, nil
	}

	exporter, err := newExporter(ctx, cfg, out)
	if err != nil {
		return noop, fmt.Errorf("create %s trace exporter: %w", cfg.Exporter, err)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", constants.ToolName),
		attribute.String("service.version", version.Version),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, cfg *config.TracingConfig, out io.Writer) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case config.TraceExporterStdout:
		return stdouttrace.New(stdouttrace.WithWriter(out), stdouttrace.WithPrettyPrint())
	case config.TraceExporterOTLP:
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptracegrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", cfg.Exporter)
	}
}
