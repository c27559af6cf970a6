package middleware

import (
	"log/slog"
	"net/http"

	"github.com/bhanu79755/Shopbuy/pkg/logger"
)

const SessionIDHeader = "X-Session-ID"

// RequestLogger stores a request-scoped logger in the context, enriched with
// correlation_id, session_id, trace_id and span_id. Mount it after
// RequestLogging and Tracing.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if sid := r.Header.Get(SessionIDHeader); sid != "" {
				ctx = logger.WithSessionID(ctx, sid)
			}
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
