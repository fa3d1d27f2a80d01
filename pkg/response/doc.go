// Package response renders JSON responses and maps domain errors to HTTP
// status codes.
//
// Every failed request produces a body of the form {"error": "..."} with a
// non-2xx status. Handlers wrap domain errors with HTTPError, ValidationError
// or UpstreamError to control the status; anything unrecognized becomes a 500
// with a generic message.
package response
