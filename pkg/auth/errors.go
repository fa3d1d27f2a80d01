package auth

import "errors"

var (
	// ErrInvalidToken covers signature, expiry, issuer, and audience
	// failures.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrMissingToken means the request carried no bearer token.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrMissingSubject means the token validated but carries no sub claim.
	ErrMissingSubject = errors.New("token missing subject claim")
)
