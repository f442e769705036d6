// Package tracing wires OpenTelemetry distributed tracing: provider setup,
// propagation, and a traced decorator for the operation store.
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"loreweave-backend/internal/application/ports"
)

// TracerProvider wraps OpenTelemetry tracer provider
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// InitTracing initializes distributed tracing
func InitTracing(serviceName, environment, endpoint string) (*TracerProvider, error) {
	exporter, err := otlptrace.New(
		context.Background(),
		otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(), // Use TLS in production
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.DeploymentEnvironment(environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()), // Adjust sampling in production
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return &TracerProvider{
		provider: tp,
		tracer:   tp.Tracer(serviceName),
	}, nil
}

// Shutdown gracefully shuts down the tracer provider
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	return tp.provider.Shutdown(ctx)
}

// Tracer returns the provider's tracer for manual instrumentation.
func (tp *TracerProvider) Tracer() trace.Tracer {
	return tp.tracer
}

// StartSpan starts a new span
func (tp *TracerProvider) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return tp.tracer.Start(ctx, name, opts...)
}

// TraceOperationStore wraps an operation store so every lifecycle record
// read and write shows up in the dispatch trace.
func TraceOperationStore(store ports.OperationStore, tracer trace.Tracer) ports.OperationStore {
	return &tracedOperationStore{
		inner:  store,
		tracer: tracer,
	}
}

type tracedOperationStore struct {
	inner  ports.OperationStore
	tracer trace.Tracer
}

func (s *tracedOperationStore) Store(ctx context.Context, result *ports.OperationResult) error {
	ctx, span := s.tracer.Start(ctx, "operations.Store",
		trace.WithAttributes(
			attribute.String("operation.id", result.OperationID),
			attribute.String("operation.kind", result.Kind),
			attribute.String("operation.status", string(result.Status)),
		),
	)
	defer span.End()

	err := s.inner.Store(ctx, result)
	if err != nil {
		span.RecordError(err)
	}

	return err
}

func (s *tracedOperationStore) Get(ctx context.Context, operationID string) (*ports.OperationResult, error) {
	ctx, span := s.tracer.Start(ctx, "operations.Get",
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
		),
	)
	defer span.End()

	result, err := s.inner.Get(ctx, operationID)
	if err != nil {
		span.RecordError(err)
	}

	return result, err
}

func (s *tracedOperationStore) Update(ctx context.Context, operationID string, result *ports.OperationResult) error {
	ctx, span := s.tracer.Start(ctx, "operations.Update",
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("operation.status", string(result.Status)),
		),
	)
	defer span.End()

	err := s.inner.Update(ctx, operationID, result)
	if err != nil {
		span.RecordError(err)
	}

	return err
}

func (s *tracedOperationStore) Delete(ctx context.Context, operationID string) error {
	ctx, span := s.tracer.Start(ctx, "operations.Delete",
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
		),
	)
	defer span.End()

	err := s.inner.Delete(ctx, operationID)
	if err != nil {
		span.RecordError(err)
	}

	return err
}

func (s *tracedOperationStore) CleanupExpired(ctx context.Context, olderThan time.Duration) error {
	ctx, span := s.tracer.Start(ctx, "operations.CleanupExpired",
		trace.WithAttributes(
			attribute.String("older_than", olderThan.String()),
		),
	)
	defer span.End()

	err := s.inner.CleanupExpired(ctx, olderThan)
	if err != nil {
		span.RecordError(err)
	}

	return err
}
