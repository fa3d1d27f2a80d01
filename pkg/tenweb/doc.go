// Package tenweb is a thin client for the 10Web hosting and AI generation
// API. It shapes parameters, authenticates with the account API key, and
// passes upstream failures through with their status codes.
package tenweb
