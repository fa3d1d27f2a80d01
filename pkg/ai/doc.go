// Package ai proxies chat completions to OpenAI for website copy
// suggestions, shaping the accepted parameters and passing upstream
// failures through with their status codes.
package ai
