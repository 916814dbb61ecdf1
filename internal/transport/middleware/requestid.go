package middleware

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"

	"github.com/frahmantamala/sakti/pkg/logger"
)

const TraceHeader = "X-Trace-ID"

// RequestID reuses the caller's X-Trace-ID or mints one, echoes it back and
// tags the request logger with it. It runs after chi's RequestID so both ids
// end up on the log line.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "traceID", traceID, "requestID", middleware.GetReqID(r.Context()))
		w.Header().Set(TraceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
