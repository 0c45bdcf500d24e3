package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/karma-storefront/internal/pkg/interceptors"
	"github.com/jcmexdev/karma-storefront/internal/pkg/interceptors/constants"
)

// AttachRequestMeta continues any incoming W3C trace, opens a server span for
// the request and stores the chi request ID where outbound calls pick it up.
// The span is named after the matched route pattern, never the raw path, so
// session and product IDs stay out of span names.
func AttachRequestMeta(next http.Handler) http.Handler {
	tracer := otel.Tracer("storefront/http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		requestID := middleware.GetReqID(ctx)
		ctx = interceptors.WithRequestID(ctx, requestID)

		ctx, span := tracer.Start(ctx, r.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
				attribute.String("request_id", requestID),
			),
		)
		defer span.End()

		w.Header().Set(constants.HeaderXRequestId, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))

		if rctx := chi.RouteContext(ctx); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				span.SetName(r.Method + " " + pattern)
				span.SetAttributes(attribute.String("http.route", pattern))
			}
		}
	})
}

// AttachSessionID copies the {sid} URL parameter into the context.
func AttachSessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := interceptors.WithSessionID(r.Context(), chi.URLParam(r, "sid"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
