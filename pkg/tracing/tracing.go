// Package tracing wires OpenTelemetry tracing.
//
// # Traces and spans
//
// A trace is one request end to end. It is a tree of spans, each span a
// single timed operation with a name, attributes and a status. Spans of
// the same request share a TraceID; each has its own SpanID and points at
// its parent.
//
// Posting a review produces a tree like this:
//
//	Trace: TraceID=4bf92f35...
//	└─ Span: POST /api/v1/reviews     http.route, http.response.status_code
//	   └─ Span: review.add            book.id, review.rating,
//	                                  book.average_rating, book.review_count
//
// When a request is slow, the span with the largest self time is the one
// to look at.
//
// # Setup
//
// InitTracer installs a global TracerProvider exporting over OTLP/gRPC and
// the W3C trace-context propagator. It returns a shutdown func that flushes
// buffered spans; call it before the process exits:
//
//	shutdown, err := tracing.InitTracer("bookreview-api", "localhost:4317")
//	if err != nil {
//		return err
//	}
//	defer shutdown(context.Background())
//
// When tracing is disabled nothing is installed and the otel no-op
// provider stays in place, so StartSpan remains safe to call.
//
// # Creating spans
//
// Use cases open one span per operation and end it with defer:
//
//	ctx, span := tracing.StartSpan(ctx, "review.add")
//	defer span.End()
//	span.SetAttributes(attribute.String("book.id", req.BookID))
//
// Pass the returned ctx down. A child span started from it is attached to
// the parent; a span started from context.Background() starts a new trace.
//
// On failure record the error and mark the span:
//
//	span.RecordError(err)
//	span.SetStatus(codes.Error, "add review")
//
// # Correlating logs
//
// Log lines carry the trace id so a slow request found in the logs can
// be opened in the tracing UI:
//
//	logrus.WithField("trace_id", tracing.ExtractTraceID(ctx)).Info("review added")
//
// ExtractTraceID and ExtractSpanID return "" when ctx carries no valid span.
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope used by application code.
const TracerName = "bookreview"

// InitTracer installs the global provider.
// endpoint is host:port of an OTLP gRPC collector (e.g. localhost:4317).
// The returned shutdown flushes buffered spans and must run before exit.
func InitTracer(serviceName, endpoint string) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 1. exporter; the connection is established lazily
	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	// 2. resource attached to every span
	res, err := resource.New(
		ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	// 3. provider
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	// 4. globals
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}
	return shutdown, nil
}

// StartSpan starts a span under the package tracer. Callers must End it.
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, spanName)
}

// ExtractTraceID returns the hex trace id in ctx, or "" without a recording span.
func ExtractTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// ExtractSpanID returns the hex span id in ctx, or "".
func ExtractSpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}
