// Package session carries the authenticated caller through the request
// context and decides whether a caller may reach a protected route.
// Identity itself lives in the remote user service; this package only
// inspects the JWT it issued.
package session

import "context"

// Session is the authenticated caller attached to a request.
type Session struct {
	Token  string
	UserID string
	Role   string
	Name   string
}

type ctxKey struct{}

// WithSession attaches a session to the context.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached to ctx, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}

// TokenFromContext returns the caller's bearer token for upstream
// propagation. Empty for unauthenticated requests.
func TokenFromContext(ctx context.Context) string {
	if s := FromContext(ctx); s != nil {
		return s.Token
	}
	return ""
}
