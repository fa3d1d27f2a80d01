package billing

import (
	"time"

	"github.com/webdashhq/webdash/pkg/plan"
)

// EventKind is the normalized billing lifecycle event type. Provider
// implementations map their specific webhook names to these kinds.
type EventKind string

const (
	EventCheckoutCompleted   EventKind = "checkout_completed"
	EventSubscriptionCreated EventKind = "subscription_created"
	EventSubscriptionUpdated EventKind = "subscription_updated"
	EventSubscriptionDeleted EventKind = "subscription_deleted"
	EventInvoicePaid         EventKind = "invoice_paid"
	EventInvoiceFailed       EventKind = "invoice_failed"
	// EventUnknown marks provider events with no reconciliation routine.
	// They are logged and ignored, never treated as errors.
	EventUnknown EventKind = "unknown"
)

// Event is a normalized billing lifecycle event parsed from a verified
// provider payload.
type Event struct {
	Kind          EventKind
	ProviderEvent string // original provider event name

	UserID         string // internal user ID from checkout metadata, when present
	CustomerID     string // provider's customer ID
	SubscriptionID string

	PriceID           string
	ProductID         string
	Interval          string
	Status            string
	CurrentPeriodEnd  time.Time
	CancelAtPeriodEnd bool

	// PlanType is resolved from PriceID via the plan catalog when possible;
	// empty when the price is not a known tier (e.g. an add-on price).
	PlanType plan.Type
}
