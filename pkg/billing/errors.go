package billing

import "errors"

var (
	// ErrPlanMismatch means the purchase was initiated under a plan the user
	// no longer has; nothing is written.
	ErrPlanMismatch = errors.New("stored plan type does not match the purchase plan type")
	// ErrSamePlan rejects an upgrade to the plan the user is already on.
	ErrSamePlan = errors.New("user is already on the requested plan")
	// ErrNoActiveSubscription means a billing action requires an active
	// provider subscription the user does not have.
	ErrNoActiveSubscription = errors.New("no active subscription on account")
	// ErrMissingCustomer means the account has no provider customer reference.
	ErrMissingCustomer = errors.New("no billing customer attached to account")
	// ErrUnknownPrice means a webhook or checkout referenced a price ID the
	// plan catalog cannot resolve.
	ErrUnknownPrice = errors.New("price ID does not map to a known plan tier")
	// ErrWebhookVerification wraps signature verification failures.
	ErrWebhookVerification = errors.New("webhook signature verification failed")
)
