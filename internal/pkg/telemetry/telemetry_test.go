package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jcmexdev/karma-storefront/internal/pkg/interceptors/constants"
)

func TestLogger_AddsTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug")

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	logger.InfoContext(ctx, "cart updated", "session_id", "s-1")
	span.End()

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, span.SpanContext().TraceID().String(), rec["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), rec["span_id"])
	assert.Equal(t, "s-1", rec["session_id"])
}

func TestLogger_NoSpan(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "info").With("component", "test").Info("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.NotContains(t, rec, "trace_id")
	assert.Equal(t, "test", rec["component"])
}

func TestLogger_LevelFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "verbose")

	logger.Debug("dropped")
	assert.Zero(t, buf.Len())
}

func TestSetupTracer_Disabled(t *testing.T) {
	shutdown, err := SetupTracer(context.Background(), "storefront", "", "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "collector:4317", stripScheme("http://collector:4317"))
	assert.Equal(t, "collector:4317", stripScheme("https://collector:4317"))
	assert.Equal(t, "collector:4317", stripScheme("collector:4317"))
}

func TestLogger_SessionFromContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.WithValue(context.Background(), constants.ContextKeySessionID, "s-9")
	NewLogger(&buf, "info").InfoContext(ctx, "cart viewed")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "s-9", rec["session_id"])
}
