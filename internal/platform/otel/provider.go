// Package otel wires OpenTelemetry tracing for the service binaries.
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
	envEndpoint = "SMALLTOWN_OTEL_ENDPOINT"
	envEnabled  = "SMALLTOWN_OTEL_ENABLED"
)

// Setup initialises tracing for the given service and returns the
// shutdown function that flushes pending spans.
//
// Tracing is opt-in. Without an endpoint, or with the enabled flag set
// to "false", no global provider is registered and shutdown is a no-op,
// so binaries run clean in dev without a collector.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	endpoint, ok := exportTarget()
	if !ok {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// exportTarget reads the collector endpoint from the environment,
// reporting false when tracing should stay off.
func exportTarget() (string, bool) {
	if strings.EqualFold(os.Getenv(envEnabled), "false") {
		return "", false
	}
	endpoint := os.Getenv(envEndpoint)
	return endpoint, endpoint != ""
}
