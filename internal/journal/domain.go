// Package journal defines the append-only log of applied cart changes.
//
// Every row records one karma-affecting transition for a shopper session,
// with the points total after the change and the trace that produced it.
// The journal is an audit trail only: carts are never rebuilt from it.
package journal

import (
	"time"

	"github.com/jcmexdev/karma-storefront/internal/storefront/core/domain/cart"
)

// Entry is a single row in the cart journal.
type Entry struct {
	SessionID string

	Action    cart.Action
	ProductID string

	QuantityBefore int
	QuantityAfter  int

	// PointsDelta is the signed karma change; PointsTotal is the cart total after it.
	PointsDelta int
	PointsTotal int

	// TraceID and SpanID come from the span active when the change applied.
	TraceID string
	SpanID  string

	RecordedAt time.Time
}
