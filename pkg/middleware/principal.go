package middleware

import (
	"context"
)

// Key type biar aman di context (tidak bentrok)
type principalKey struct{}

var PrincipalContextKey = principalKey{}

// Principal is the authenticated caller attached to the request context
// by the gateway after token verification.
type Principal struct {
	UserID   string
	Username string
	Roles    []string
	IsActive bool
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, PrincipalContextKey, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(PrincipalContextKey).(Principal)
	return p, ok
}

// HasRole reports whether the principal carries the given role.
func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}
