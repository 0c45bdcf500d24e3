package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/cart"
)

func TestNewEntry_CarriesTrace(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "add")
	defer span.End()

	ch := cart.Change{Action: cart.ActionAdd, ProductID: "A", QuantityAfter: 1, PointsDelta: 5, Applied: true}
	e := NewEntry(ctx, "s-1", ch, 5)

	assert.Equal(t, span.SpanContext().TraceID().String(), e.TraceID)
	assert.Equal(t, span.SpanContext().SpanID().String(), e.SpanID)
	assert.Equal(t, "s-1", e.SessionID)
	assert.Equal(t, 5, e.PointsTotal)
	assert.Equal(t, cart.ActionAdd, e.Action)
}

func TestExtractTraceInfo_NoSpan(t *testing.T) {
	assert.Equal(t, TraceInfo{}, ExtractTraceInfo(context.Background()))
}
