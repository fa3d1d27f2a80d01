package account

import "context"

// Store defines user document persistence.
//
// Save overwrites the whole document; callers doing read-modify-write get no
// concurrency protection, matching the dashboard's original semantics (last
// write wins).
type Store interface {
	// Get retrieves an account by its auth provider ID.
	// Returns ErrNotFound if no document exists.
	Get(ctx context.Context, id string) (*Account, error)

	// GetByStripeCustomerID resolves an account from a billing customer
	// reference. Returns ErrNotFound when no account carries the reference.
	GetByStripeCustomerID(ctx context.Context, customerID string) (*Account, error)

	// Save creates or replaces the account document.
	Save(ctx context.Context, acc *Account) error
}
