package account

import "errors"

var (
	ErrNotFound     = errors.New("account not found")
	ErrMissingID    = errors.New("account ID is required")
	ErrSaveFailed   = errors.New("failed to save account document")
	ErrLookupFailed = errors.New("failed to load account document")
)
