// Package email sends transactional mail through Postmark, with a logging
// sender for development. Message building for specific mails (collaborator
// invites) lives next to the sender so callers pass domain values, not HTML.
package email
