package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/webdashhq/webdash/pkg/plan"
)

// StripeProvider implements Provider using the official Stripe SDK.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
	catalog       *plan.Catalog
}

// NewStripeProvider creates a Stripe-backed Provider.
func NewStripeProvider(secretKey, webhookSecret string, catalog *plan.Catalog) (*StripeProvider, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	if webhookSecret == "" {
		return nil, errors.New("stripe webhook secret is required")
	}
	if catalog == nil {
		return nil, errors.New("plan catalog is required")
	}

	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeProvider{
		api:           api,
		webhookSecret: webhookSecret,
		catalog:       catalog,
	}, nil
}

func (p *StripeProvider) EnsureCustomer(ctx context.Context, userID, email string) (string, error) {
	cust, err := p.api.Customers.New(&stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Email:  stripe.String(email),
		Metadata: map[string]string{
			"user_id": userID,
		},
	})
	if err != nil {
		return "", upstream(err)
	}
	return cust.ID, nil
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	sess, err := p.api.CheckoutSessions.New(&stripe.CheckoutSessionParams{
		Params:            stripe.Params{Context: ctx},
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:          stripe.String(req.CustomerID),
		ClientReferenceID: stripe.String(req.UserID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(quantity),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	})
	if err != nil {
		return nil, upstream(err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (p *StripeProvider) CreatePortalSession(ctx context.Context, customerID, returnURL string) (*PortalSession, error) {
	sess, err := p.api.BillingPortalSessions.New(&stripe.BillingPortalSessionParams{
		Params:    stripe.Params{Context: ctx},
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	})
	if err != nil {
		return nil, upstream(err)
	}
	return &PortalSession{URL: sess.URL}, nil
}

func (p *StripeProvider) UpdateSubscriptionPrice(ctx context.Context, subscriptionID, newPriceID string) error {
	sub, err := p.api.Subscriptions.Get(subscriptionID, &stripe.SubscriptionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return upstream(err)
	}
	if len(sub.Items.Data) == 0 {
		return fmt.Errorf("subscription %s has no items", subscriptionID)
	}

	_, err = p.api.Subscriptions.Update(subscriptionID, &stripe.SubscriptionParams{
		Params: stripe.Params{Context: ctx},
		Items: []*stripe.SubscriptionItemsParams{
			{
				ID:    stripe.String(sub.Items.Data[0].ID),
				Price: stripe.String(newPriceID),
			},
		},
	})
	if err != nil {
		return upstream(err)
	}
	return nil
}

func (p *StripeProvider) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) error {
	_, err := p.api.Subscriptions.Update(subscriptionID, &stripe.SubscriptionParams{
		Params:            stripe.Params{Context: ctx},
		CancelAtPeriodEnd: stripe.Bool(true),
	})
	if err != nil {
		return upstream(err)
	}
	return nil
}

// ParseWebhook verifies the Stripe signature and maps the provider event to
// the normalized Event type. Event kinds without a mapping come back as
// EventUnknown so the reconciler can ignore them.
func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (*Event, error) {
	stripeEvent, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, errors.Join(ErrWebhookVerification, err)
	}

	switch string(stripeEvent.Type) {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(stripeEvent.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session: %w", err)
		}
		event := &Event{
			Kind:          EventCheckoutCompleted,
			ProviderEvent: string(stripeEvent.Type),
			UserID:        sess.ClientReferenceID,
		}
		if sess.Customer != nil {
			event.CustomerID = sess.Customer.ID
		}
		if sess.Subscription != nil {
			event.SubscriptionID = sess.Subscription.ID
		}
		return event, nil

	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(stripeEvent.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("failed to decode subscription: %w", err)
		}
		kind := EventSubscriptionCreated
		switch string(stripeEvent.Type) {
		case "customer.subscription.updated":
			kind = EventSubscriptionUpdated
		case "customer.subscription.deleted":
			kind = EventSubscriptionDeleted
		}

		event := &Event{
			Kind:              kind,
			ProviderEvent:     string(stripeEvent.Type),
			SubscriptionID:    sub.ID,
			Status:            string(sub.Status),
			CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
			CurrentPeriodEnd:  time.Unix(sub.CurrentPeriodEnd, 0).UTC(),
		}
		if sub.Customer != nil {
			event.CustomerID = sub.Customer.ID
		}
		if sub.Items != nil && len(sub.Items.Data) > 0 {
			price := sub.Items.Data[0].Price
			if price != nil {
				event.PriceID = price.ID
				if price.Recurring != nil {
					event.Interval = string(price.Recurring.Interval)
				}
				if price.Product != nil {
					event.ProductID = price.Product.ID
				}
				if tier, ok := p.catalog.TierByPriceID(price.ID); ok {
					event.PlanType = tier.Type
				}
			}
		}
		return event, nil

	case "invoice.paid", "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(stripeEvent.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("failed to decode invoice: %w", err)
		}
		kind := EventInvoicePaid
		if string(stripeEvent.Type) == "invoice.payment_failed" {
			kind = EventInvoiceFailed
		}
		event := &Event{
			Kind:          kind,
			ProviderEvent: string(stripeEvent.Type),
		}
		if inv.Customer != nil {
			event.CustomerID = inv.Customer.ID
		}
		if inv.Subscription != nil {
			event.SubscriptionID = inv.Subscription.ID
		}
		return event, nil

	default:
		return &Event{Kind: EventUnknown, ProviderEvent: string(stripeEvent.Type)}, nil
	}
}

// upstream wraps Stripe API failures, passing the provider's status code
// through when available.
func upstream(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return fmt.Errorf("stripe: %s (status %d): %w", stripeErr.Msg, stripeErr.HTTPStatusCode, err)
	}
	return fmt.Errorf("stripe: %w", err)
}
