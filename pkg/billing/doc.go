// Package billing connects the payment provider to website quota
// reconciliation.
//
// The package is split into three layers:
//
//   - Provider abstracts the payment provider (Stripe). It creates
//     customers, checkout and portal sessions, mutates subscriptions, and
//     verifies webhook payloads into normalized Events.
//   - Reconciler applies entitlement arithmetic to user documents: plan
//     changes, add-on purchases, and webhook-driven subscription updates.
//   - Service orchestrates the two for route handlers, sequencing provider
//     calls with document writes.
//
// Concurrency model: all document updates are read-modify-write against the
// account store with no locking or compare-and-swap. Two concurrent
// operations on the same user race and the later Save wins. Webhook replays
// are idempotent for fields that are overwritten (subscription state, plan
// type, limit recomputation) but NOT for the append-only add-on list, which
// grows once per delivered purchase event.
package billing
