package billing

import "context"

// Provider defines the minimal interface to the payment provider. The
// abstraction keeps Stripe specifics (signature verification, API object
// shapes) out of the reconciliation core and lets tests run against a mock.
type Provider interface {
	// EnsureCustomer finds or creates the provider customer for a user and
	// returns its ID. The user ID is attached as metadata so webhook events
	// can be traced back.
	EnsureCustomer(ctx context.Context, userID, email string) (string, error)

	// CreateCheckoutSession creates a hosted checkout session.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)

	// CreatePortalSession returns a link to the provider's customer portal.
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (*PortalSession, error)

	// UpdateSubscriptionPrice swaps the subscription's single item to the new
	// price, prorating per provider defaults.
	UpdateSubscriptionPrice(ctx context.Context, subscriptionID, newPriceID string) error

	// CancelAtPeriodEnd flags the subscription to end at the current period
	// boundary instead of immediately.
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error

	// ParseWebhook validates the payload signature and returns a normalized
	// event. Must reject spoofed payloads.
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

// CheckoutRequest contains data needed to create a checkout session.
type CheckoutRequest struct {
	CustomerID string
	UserID     string // propagated as client reference for webhook correlation
	PriceID    string
	Quantity   int64
	SuccessURL string
	CancelURL  string
}

// CheckoutSession represents a hosted checkout session.
type CheckoutSession struct {
	ID  string
	URL string
}

// PortalSession represents a customer portal session.
type PortalSession struct {
	URL string
}
