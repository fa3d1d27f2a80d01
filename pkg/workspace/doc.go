// Package workspace manages collaboration containers: named groups of
// websites shared between collaborators with owner/admin/member roles.
// Invites go out by email and sit in pending status until accepted.
package workspace
