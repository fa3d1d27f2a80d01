package account

import (
	"time"

	"github.com/webdashhq/webdash/pkg/plan"
)

// Account is the user document. The ID is owned by the auth provider and is
// used verbatim as the document key.
type Account struct {
	ID               string    `bson:"_id" json:"id"`
	Email            string    `bson:"email" json:"email"`
	FirstName        string    `bson:"first_name" json:"firstName"`
	LastName         string    `bson:"last_name" json:"lastName"`
	PlanType         plan.Type `bson:"plan_type" json:"planType"`
	WebsiteLimit     int       `bson:"website_limit" json:"websiteLimit"`
	StripeCustomerID string    `bson:"stripe_customer_id,omitempty" json:"-"`

	Subscription Subscription `bson:"subscription" json:"subscription"`

	// AdditionalWebsiteSubscriptions is append-only: one entry per add-on
	// purchase, never removed. The count of active entries is the add-on
	// delta the entitlement calculator reconciles against.
	AdditionalWebsiteSubscriptions []AddOnSubscription `bson:"additional_website_subscriptions,omitempty" json:"additionalWebsiteSubscriptions,omitempty"`

	Websites []Website `bson:"websites,omitempty" json:"websites,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Subscription is the embedded billing subscription state, overwritten in
// place by webhook events.
type Subscription struct {
	Active            bool      `bson:"active" json:"active"`
	SubscriptionID    string    `bson:"subscription_id,omitempty" json:"subscriptionId,omitempty"`
	ProductID         string    `bson:"product_id,omitempty" json:"productId,omitempty"`
	PriceID           string    `bson:"price_id,omitempty" json:"priceId,omitempty"`
	Interval          string    `bson:"interval,omitempty" json:"interval,omitempty"`
	Status            string    `bson:"status,omitempty" json:"status,omitempty"`
	CurrentPeriodEnd  time.Time `bson:"current_period_end,omitempty" json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd bool      `bson:"cancel_at_period_end" json:"cancelAtPeriodEnd"`
}

// AddOnSubscription records a single additional-website purchase.
type AddOnSubscription struct {
	SubscriptionID string    `bson:"subscription_id" json:"subscriptionId"`
	PriceID        string    `bson:"price_id" json:"priceId"`
	Amount         int64     `bson:"amount" json:"amount"`
	Status         string    `bson:"status" json:"status"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
}

// Add-on subscription statuses.
const (
	AddOnStatusActive   = "active"
	AddOnStatusCanceled = "canceled"
)

// ActiveAddOns counts add-on entries still in active status.
func (a *Account) ActiveAddOns() int {
	n := 0
	for _, sub := range a.AdditionalWebsiteSubscriptions {
		if sub.Status == AddOnStatusActive {
			n++
		}
	}
	return n
}

// WebsiteStatus tracks a website through generation.
type WebsiteStatus string

const (
	WebsiteStatusGenerating WebsiteStatus = "generating"
	WebsiteStatusActive     WebsiteStatus = "active"
	WebsiteStatusError      WebsiteStatus = "error"
)

// Website is a site owned by the account, created when a generation job
// completes.
type Website struct {
	ID        string        `bson:"id" json:"id"`
	DomainID  int64         `bson:"domain_id" json:"domainId"`
	Subdomain string        `bson:"subdomain" json:"subdomain"`
	SiteURL   string        `bson:"site_url" json:"siteUrl"`
	Title     string        `bson:"title" json:"title"`
	Status    WebsiteStatus `bson:"status" json:"status"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt"`
}

// FindWebsite returns the website with the given ID.
func (a *Account) FindWebsite(id string) (Website, bool) {
	for _, w := range a.Websites {
		if w.ID == id {
			return w, true
		}
	}
	return Website{}, false
}

// CanCreateWebsite reports whether the account is under its website quota.
func (a *Account) CanCreateWebsite() bool {
	return len(a.Websites) < a.WebsiteLimit
}
