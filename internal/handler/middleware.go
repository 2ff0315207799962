package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/infra/observability"
	"github.com/olives-green/fieldops-bff-go/internal/session"
)

// metricsMiddleware counts and times every request. The operation label
// is the chi route pattern so path parameters do not explode cardinality.
func metricsMiddleware(m *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}
			m.RecordRequestDuration(r.Method+" "+pattern, time.Since(start))
			if ww.Status() >= http.StatusInternalServerError {
				m.IncrRequest("error")
			} else {
				m.IncrRequest("success")
			}
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireRoles guards a route subtree with the session guard. An empty
// role list admits any authenticated caller. Expired and malformed
// tokens get 401 so the client returns to login; a valid session with
// the wrong role gets 403.
func RequireRoles(guard *session.Guard, logger *zap.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision, sess := guard.Decide(bearerToken(r), roles...)
			switch decision {
			case session.Allow:
				next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
			case session.Denied:
				logger.Warn("access denied",
					zap.String("path", r.URL.Path),
					zap.String("user_id", sess.UserID),
					zap.String("role", sess.Role),
				)
				writeError(w, http.StatusForbidden, "access denied")
			default:
				logger.Warn("no usable session",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "authentication required")
			}
		})
	}
}
