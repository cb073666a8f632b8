package middleware

import (
	"context"

	"orgtodo/internal/platform/authz"
)

type contextKey struct{ name string }

var (
	actorKey    = contextKey{"actor"}
	clientIPKey = contextKey{"client_ip"}
)

// WithActor returns a context carrying the authenticated actor.
func WithActor(ctx context.Context, actor *authz.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor returns the actor from context and true if set; otherwise nil, false.
func GetActor(ctx context.Context) (*authz.Actor, bool) {
	v, ok := ctx.Value(actorKey).(*authz.Actor)
	return v, ok
}

// WithClientIP returns a context carrying the client IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// GetClientIP returns the client IP from context, or "" if unset.
func GetClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}
