package ai

import "errors"

var (
	// ErrAPIKeyRequired means the client was constructed without an API key.
	ErrAPIKeyRequired = errors.New("openai API key is required")
	// ErrEmptyPrompt rejects completion requests without a prompt.
	ErrEmptyPrompt = errors.New("prompt is required")
	// ErrNoCompletion means the provider returned no choices.
	ErrNoCompletion = errors.New("no completion returned")
)
