package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Resolver hooks
	r := NoopResolverHooks{}
	r.OnResolveStart(ctx, "junit:junit:4.13.2")
	r.OnResolveComplete(ctx, "junit:junit:4.13.2", 2, 0, time.Second, nil)
	r.OnDescriptor(ctx, OutcomeFetched)
	r.OnArtifact(ctx, OutcomeLocal)
	r.OnUnresolvedVersion(ctx, "org.example:lib")

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "metadata")
	c.OnCacheMiss(ctx, "metadata")
	c.OnCacheSet(ctx, "metadata", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "repo1.maven.org", "/maven2/junit/junit/maven-metadata.xml")
	h.OnResponse(ctx, "GET", "repo1.maven.org", "/maven2/junit/junit/maven-metadata.xml", 200, time.Second)
	h.OnError(ctx, "GET", "repo1.maven.org", "/maven2/junit/junit/maven-metadata.xml", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Resolver().(NoopResolverHooks); !ok {
		t.Error("Resolver() should return NoopResolverHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customResolver := &testResolverHooks{}
	SetResolverHooks(customResolver)
	if Resolver() != customResolver {
		t.Error("SetResolverHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Resolver().(NoopResolverHooks); !ok {
		t.Error("Reset() should restore NoopResolverHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testResolverHooks{}
	SetResolverHooks(custom)
	SetResolverHooks(nil)

	if Resolver() != custom {
		t.Error("SetResolverHooks(nil) should be ignored")
	}
}

func TestStartSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, span := StartSpan(context.Background(), SpanResolve, attribute.String("maven.root", "a:b:1"))
	_, child := StartClientSpan(ctx, SpanDownload, "https://repo.example/a/b/1/b-1.pom")
	RecordError(child, errors.New("boom"))
	child.End()
	RecordError(span, nil)
	span.End()

	ended := rec.Ended()
	if len(ended) != 2 {
		t.Fatalf("got %d spans, want 2", len(ended))
	}
	if ended[0].Name() != SpanDownload || ended[0].Status().Code != codes.Error {
		t.Errorf("child span = %s/%v, want %s/Error", ended[0].Name(), ended[0].Status().Code, SpanDownload)
	}
	if ended[1].Name() != SpanResolve || ended[1].Status().Code == codes.Error {
		t.Errorf("root span = %s/%v, want %s without error", ended[1].Name(), ended[1].Status().Code, SpanResolve)
	}
	if ended[0].Parent().SpanID() != ended[1].SpanContext().SpanID() {
		t.Error("download span should be a child of the resolve span")
	}
}

type testResolverHooks struct{ NoopResolverHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

func TestInitTracingLogExporter(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var lines [][]any
	exp := NewLogExporter(func(msg any, keyvals ...any) {
		lines = append(lines, append([]any{msg}, keyvals...))
	})
	tp := InitTracing(exp, "test")

	_, span := StartSpan(context.Background(), SpanVisit, attribute.String("maven.coordinate", "g:a:1"))
	RecordError(span, errors.New("boom"))
	span.End()
	if err := tp.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1", len(lines))
	}
	got := map[string]any{}
	kv := lines[0][1:]
	for i := 0; i+1 < len(kv); i += 2 {
		got[kv[i].(string)] = kv[i+1]
	}
	if got["span"] != SpanVisit || got["maven.coordinate"] != "g:a:1" || got["error"] != "boom" {
		t.Errorf("log keyvals = %v", got)
	}
}
