// Package job tracks website generation jobs through a small lifecycle
// state machine: pending -> processing -> complete or failed, with failed
// jobs restartable back to pending.
//
// Workers polling the upstream builder serialize on a per-job Redis lock
// with a TTL, so a crashed worker releases its job automatically instead of
// blocking it forever.
package job
