// Package plan defines the closed set of subscription tiers and their base
// website entitlements.
//
// The catalog is static for the lifetime of the process. Unknown plan types
// resolve to the lowest tier's entitlement; this mirrors the dashboard's
// historical behavior and may mask configuration bugs, so callers should
// check Known and log when the fallback kicks in.
package plan
