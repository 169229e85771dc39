package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"
)

func setupExporter(t *testing.T) (*tracetest.InMemoryExporter, *sdktrace.TracerProvider) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := NewProvider("reviewinsights-test", sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })
	return exporter, tp
}

func TestHTTPMiddleware_CreatesServerSpan(t *testing.T) {
	exporter, _ := setupExporter(t)

	var traceID, spanID string
	handler := HTTPMiddleware("reviewinsights")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = TraceIDFromContext(r.Context())
		spanID = SpanIDFromContext(r.Context())
		SetSpanAttributes(r.Context(), attribute.Int("reviews.count", 3))
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "POST /api/analyze", span.Name)
	assert.Equal(t, span.SpanContext.TraceID().String(), traceID)
	assert.Equal(t, span.SpanContext.SpanID().String(), spanID)
	assert.Contains(t, span.Attributes, attribute.Int("reviews.count", 3))

	serviceName, ok := span.Resource.Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "reviewinsights-test", serviceName.AsString())
}

func TestIDsWithoutSpan(t *testing.T) {
	assert.Empty(t, TraceIDFromContext(context.Background()))
	assert.Empty(t, SpanIDFromContext(context.Background()))

	// no recording span: must not panic
	SetSpanAttributes(context.Background(), attribute.String("k", "v"))
	RecordError(context.Background(), errors.New("ignored"))
}

func TestRecordError(t *testing.T) {
	exporter, _ := setupExporter(t)

	ctx, span := StartSpan(context.Background(), "ingest.parse", attribute.String("file.name", "a.csv"))
	RecordError(ctx, errors.New("bad file"))
	RecordError(ctx, nil)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "bad file", spans[0].Status.Description)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

func TestRemoteContext(t *testing.T) {
	exporter, _ := setupExporter(t)

	parentCtx, parent := StartSpan(context.Background(), "enqueue")
	traceID := TraceIDFromContext(parentCtx)
	spanID := SpanIDFromContext(parentCtx)
	parent.End()

	ctx := RemoteContext(context.Background(), traceID, spanID)
	_, child := StartSpan(ctx, "worker")
	child.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, traceID, spans[1].SpanContext.TraceID().String())
	assert.Equal(t, spanID, spans[1].Parent.SpanID().String())
	assert.True(t, spans[1].Parent.IsRemote())

	// invalid ids leave the context alone
	assert.Empty(t, TraceIDFromContext(RemoteContext(context.Background(), "nope", "nope")))
}

func TestInitTracer_InstallsPropagator(t *testing.T) {
	tp, err := InitTracer(context.Background(), "reviewinsights-test", "localhost:4317")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(noop.NewTracerProvider())
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator())
	})

	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}
