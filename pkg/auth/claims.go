package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the identity fields extracted from a verified token. Subject is
// the provider-issued user ID and doubles as the account document key.
type Claims struct {
	Subject string
	Email   string
	Name    string
	Raw     jwt.MapClaims
}

type contextKey struct{ name string }

var claimsKey = contextKey{"auth_claims"}

// WithClaims stores verified claims in the context.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext retrieves verified claims stored by the middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// UserIDFromContext returns the authenticated user's ID, or empty when the
// request is unauthenticated.
func UserIDFromContext(ctx context.Context) string {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.Subject
	}
	return ""
}
