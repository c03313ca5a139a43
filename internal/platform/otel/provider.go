// Package otel configures OpenTelemetry tracing for site processes.
package otel

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	// EnvEndpoint names the OTLP/HTTP collector URL.
	EnvEndpoint = "S2_SITE_OTEL_ENDPOINT"
	// EnvEnabled can be set to "false" to disable tracing even with an endpoint.
	EnvEnabled = "S2_SITE_OTEL_ENABLED"
)

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when S2_SITE_OTEL_ENDPOINT is empty or
// S2_SITE_OTEL_ENABLED is "false", Setup returns a no-op shutdown function and
// leaves the global provider untouched. The trace-context propagator is always
// installed so outbound REST calls carry upstream trace headers.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	otel.SetTextMapPropagator(propagation.TraceContext{})

	if strings.EqualFold(strings.TrimSpace(os.Getenv(EnvEnabled)), "false") {
		return noop, nil
	}
	endpoint := strings.TrimSpace(os.Getenv(EnvEndpoint))
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
