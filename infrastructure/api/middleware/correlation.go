package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/helixml/kommit/internal/log"
)

// CorrelationIDHeader carries the correlation ID on requests and responses.
const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationID returns a middleware that stores a correlation ID and chi's
// request ID in the request context, where the logger picks them up. The ID
// comes from the X-Correlation-ID header or is newly generated, and is echoed
// on the response.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		w.Header().Set(CorrelationIDHeader, correlationID)

		ctx := log.WithCorrelationID(r.Context(), correlationID)
		if requestID := middleware.GetReqID(ctx); requestID != "" {
			ctx = log.WithRequestID(ctx, requestID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCorrelationID retrieves the correlation ID from the request context.
func GetCorrelationID(r *http.Request) string {
	return log.CorrelationID(r.Context())
}
