// Package tracing installs the global OpenTelemetry tracer provider.
package tracing

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type Config struct {
	// Endpoint is a full OTLP/HTTP URL such as http://localhost:4318.
	// Empty disables export.
	Endpoint    string
	ServiceName string
}

type Shutdown func(context.Context) error

// Setup sets the global tracer provider and returns its shutdown hook.
func Setup(ctx context.Context, cfg Config) (Shutdown, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}
	tp := NewProvider(exp, cfg.ServiceName)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// NewProvider batches spans to exp under the given service name.
func NewProvider(exp sdktrace.SpanExporter, service string) *sdktrace.TracerProvider {
	if service == "" {
		service = "idea-validator"
	}
	res := resource.NewSchemaless(attribute.String("service.name", service))
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
}
