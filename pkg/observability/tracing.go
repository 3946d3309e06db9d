package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used for all jarwalk spans.
const TracerName = "github.com/matzehuels/jarwalk"

// Span names.
const (
	SpanResolve  = "maven.resolve"
	SpanVisit    = "maven.visit"
	SpanDownload = "http.download"
)

// StartSpan starts a span on the globally registered tracer provider.
// Without a configured provider the returned span is a no-op.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// StartClientSpan starts a client-kind span for an outgoing request.
func StartClientSpan(ctx context.Context, name, url string) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", url)),
	)
}

// RecordError records err on span and marks it failed. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// InitTracing installs a global tracer provider that hands every finished
// span to exporter synchronously. Call Shutdown on the returned provider
// before exiting.
func InitTracing(exporter sdktrace.SpanExporter, version string) *sdktrace.TracerProvider {
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", "jarwalk"),
			attribute.String("service.version", version),
		)),
	)
	otel.SetTracerProvider(provider)
	return provider
}

// LogFunc receives a message with alternating key/value pairs, matching
// the level methods of charmbracelet/log.Logger.
type LogFunc func(msg any, keyvals ...any)

// LogExporter is a span exporter that writes one log line per span.
type LogExporter struct {
	log LogFunc
}

// NewLogExporter creates an exporter logging through fn.
func NewLogExporter(fn LogFunc) *LogExporter {
	return &LogExporter{log: fn}
}

func (e *LogExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		keyvals := []any{
			"span", s.Name(),
			"duration", s.EndTime().Sub(s.StartTime()).Round(time.Microsecond),
		}
		if s.Status().Code == codes.Error {
			keyvals = append(keyvals, "error", s.Status().Description)
		}
		for _, kv := range s.Attributes() {
			keyvals = append(keyvals, string(kv.Key), kv.Value.Emit())
		}
		e.log("trace", keyvals...)
	}
	return nil
}

func (e *LogExporter) Shutdown(context.Context) error { return nil }
