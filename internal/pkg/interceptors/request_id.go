package interceptors

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/karma-storefront/internal/pkg/interceptors/constants"
)

const unknownID = "unknown"

// WithRequestID stores the request ID in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.ContextKeyRequestID, id)
}

// WithSessionID stores the shopper session ID in ctx.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, constants.ContextKeySessionID, id)
}

// GetIDFromContext returns the request ID from the context value or the
// incoming gRPC metadata, or "unknown".
func GetIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok && id != "" {
		return id
	}

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(constants.HeaderXRequestId); len(ids) > 0 {
			return ids[0]
		}
	}

	return unknownID
}

// SessionIDFromContext returns the session ID stored by WithSessionID.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(constants.ContextKeySessionID).(string)
	return id
}

// InjectHTTP propagates the request ID and W3C trace context onto an
// outbound HTTP request.
func InjectHTTP(ctx context.Context, h http.Header) {
	if id := GetIDFromContext(ctx); id != unknownID {
		h.Set(constants.HeaderXRequestId, id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(h))
}
