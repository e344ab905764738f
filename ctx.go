package auth

import (
	"context"
)

// Principal is the request-scoped identity derived from a verified token.
// It is never persisted and is discarded at the end of the request.
type Principal struct {
	UserID int64
	Role   UserRole
}

var principalCtxKey = &contextKey{"principal"}

type contextKey struct {
	name string
}

// WithPrincipal sets the Principal in the given context
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// PrincipalFromContext finds the principal from the context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	raw, ok := ctx.Value(principalCtxKey).(*Principal)
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}

// PrincipalFromClaims builds a Principal from a verified claim set
func PrincipalFromClaims(claims AuthClaims) *Principal {
	return &Principal{
		UserID: claims.UserID(),
		Role:   UserRole(claims.Role()),
	}
}
