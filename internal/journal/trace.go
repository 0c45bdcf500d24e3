package journal

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/cart"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	// TraceID is the W3C trace ID (32 lowercase hex chars), empty without a span.
	TraceID string
	// SpanID is the W3C span ID (16 lowercase hex chars).
	SpanID string
}

// ExtractTraceInfo reads the active OpenTelemetry span from ctx. Both fields
// are empty when ctx carries no valid span.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}

	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an Entry for an applied change with the trace info
// automatically extracted from ctx.
//
//	entry := journal.NewEntry(ctx, sessionID, change, c.TotalPoints())
//	_ = repo.Append(ctx, entry)
func NewEntry(ctx context.Context, sessionID string, change cart.Change, pointsTotal int) *Entry {
	ti := ExtractTraceInfo(ctx)

	return &Entry{
		SessionID:      sessionID,
		Action:         change.Action,
		ProductID:      change.ProductID,
		QuantityBefore: change.QuantityBefore,
		QuantityAfter:  change.QuantityAfter,
		PointsDelta:    change.PointsDelta,
		PointsTotal:    pointsTotal,
		TraceID:        ti.TraceID,
		SpanID:         ti.SpanID,
		RecordedAt:     time.Now().UTC(),
	}
}
