// Package auth verifies identity-provider JWTs against a JWKS endpoint and
// exposes the verified claims through the request context. The provider's
// subject claim is used verbatim as the account document key, so no local
// user table exists.
package auth
