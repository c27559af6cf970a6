package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/bhanu79755/Shopbuy/internal/service"
	"github.com/bhanu79755/Shopbuy/pkg/httputil"
	"github.com/bhanu79755/Shopbuy/pkg/logger"
	"github.com/bhanu79755/Shopbuy/pkg/middleware"
)

type contextKey string

const sessionKey contextKey = "session"

// maxSessionIDLength bounds the X-Session-ID header.
const maxSessionIDLength = 128

// SessionFromHeader resolves the X-Session-ID header to a session, creating
// it on first use. A missing header is rejected with 400.
func SessionFromHeader(store *service.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(middleware.SessionIDHeader))
			if id == "" || len(id) > maxSessionIDLength {
				httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:      "MISSING_SESSION",
						Message:   middleware.SessionIDHeader + " header is required",
						RequestID: logger.CorrelationIDFromContext(r.Context()),
					},
				})
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey, store.Get(id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionFromContext returns the session stored by SessionFromHeader.
func sessionFromContext(ctx context.Context) *service.Session {
	s, _ := ctx.Value(sessionKey).(*service.Session)
	return s
}

// ContentTypeJSON rejects request bodies that declare a non-JSON type.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "UNSUPPORTED_MEDIA_TYPE", Message: "Content-Type must be application/json"},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
