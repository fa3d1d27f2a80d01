// Package account defines the user document and its persistence interface.
//
// The document embeds the billing subscription, the append-only add-on
// purchase list, and the owned websites, mirroring the dashboard's
// Firestore-style single-document-per-user layout.
package account
