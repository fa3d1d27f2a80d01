package tenweb

import "errors"

// ErrAPIKeyRequired means the client was constructed without an API key.
var ErrAPIKeyRequired = errors.New("10web API key is required")
