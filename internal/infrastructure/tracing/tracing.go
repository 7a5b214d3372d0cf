package tracing

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config selects the OTLP/HTTP collector. An empty Endpoint disables tracing.
type Config struct {
	Endpoint    string
	ServiceName string
	Environment string
}

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Init installs a global tracer provider exporting over OTLP/HTTP.
// Without an endpoint it returns a no-op shutdown and leaves the default
// (no-op) provider in place.
func Init(ctx context.Context, cfg Config, log zerolog.Logger) (ShutdownFunc, error) {
	if cfg.Endpoint == "" {
		log.Info().Msg("tracing disabled: OTEL_EXPORTER_OTLP_ENDPOINT not set")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info().Str("endpoint", cfg.Endpoint).Msg("tracing initialized")
	return tp.Shutdown, nil
}
