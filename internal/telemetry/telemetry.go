package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/irfndi/celebrum-pairs/internal/config"
)

const (
	// Service information
	ServiceName    = "github.com/irfndi/celebrum-pairs"
	ServiceVersion = "1.0.0"
)

// ShutdownFunc flushes and stops the installed providers.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitTracing installs a global TracerProvider according to cfg. When
// telemetry is disabled the global no-op provider stays in place.
func InitTracing(ctx context.Context, cfg config.TelemetryConfig, environment string) (ShutdownFunc, error) {
	if !cfg.Enabled || cfg.TraceExporter == "none" {
		return noopShutdown, nil
	}

	exporter, err := newTraceExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx, cfg, environment)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	ratio := cfg.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

func newTraceExporter(ctx context.Context, cfg config.TelemetryConfig) (sdktrace.SpanExporter, error) {
	switch cfg.TraceExporter {
	case "", "stdout":
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		return exporter, nil
	case "otlp":
		endpoint, err := ParseOTLPEndpoint(cfg.OTLPEndpoint, TracesPath)
		if err != nil {
			return nil, err
		}
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(endpoint.HostPort),
			otlptracehttp.WithURLPath(endpoint.URLPath),
		}
		if endpoint.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
		return exporter, nil
	}
	return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
}

// newResource leaves the schema URL to the SDK detectors so it cannot
// conflict with the semconv package used for the attribute keys.
func newResource(ctx context.Context, cfg config.TelemetryConfig, environment string) (*resource.Resource, error) {
	name := cfg.ServiceName
	if name == "" {
		name = ServiceName
	}
	return resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(name),
			semconv.ServiceVersion(ServiceVersion),
			semconv.DeploymentEnvironment(environment),
		),
	)
}

// Tracer returns the tracer used by the discovery engine.
func Tracer() trace.Tracer {
	return otel.Tracer(ServiceName)
}
