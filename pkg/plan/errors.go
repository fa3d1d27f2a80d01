package plan

import "errors"

var (
	ErrEmptyCatalog        = errors.New("plan catalog must contain at least one tier")
	ErrInvalidCatalog      = errors.New("invalid plan catalog configuration")
	ErrFailedToLoadCatalog = errors.New("failed to load plan catalog")
)
