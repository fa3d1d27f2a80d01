package billing

import (
	"context"
	"log/slog"

	"github.com/webdashhq/webdash/pkg/account"
	"github.com/webdashhq/webdash/pkg/logger"
	"github.com/webdashhq/webdash/pkg/plan"
)

// Config carries the billing URLs and the add-on price reference.
type Config struct {
	SuccessURL       string `env:"BILLING_SUCCESS_URL,required"`        // SuccessURL is the redirect after successful checkout.
	CancelURL        string `env:"BILLING_CANCEL_URL,required"`         // CancelURL is the redirect when a customer abandons checkout.
	PortalReturnURL  string `env:"BILLING_PORTAL_RETURN_URL,required"`  // PortalReturnURL is the redirect back from the customer portal.
	AddOnPriceID     string `env:"BILLING_ADDON_PRICE_ID"`              // AddOnPriceID is the recurring price for one additional website.
	WebhookSecret    string `env:"STRIPE_WEBHOOK_SECRET,required"`      // WebhookSecret verifies inbound webhook signatures.
	StripeSecretKey  string `env:"STRIPE_SECRET_KEY,required"`          // StripeSecretKey authenticates API calls.
	PlanCatalogPath  string `env:"PLAN_CATALOG_PATH"`                   // PlanCatalogPath optionally overrides the built-in tier catalog.
}

// UpgradeResult reports the outcome of a subscription upgrade cascade.
type UpgradeResult struct {
	OldPlanType     plan.Type `json:"oldPlanType"`
	NewPlanType     plan.Type `json:"newPlanType"`
	OldWebsiteLimit int       `json:"oldWebsiteLimit"`
	NewWebsiteLimit int       `json:"newWebsiteLimit"`
}

// Service orchestrates provider calls with quota reconciliation. A provider
// update followed by a failed document write is logged and surfaced but not
// rolled back; the billing action's availability wins over strict
// consistency between Stripe and the user document.
type Service struct {
	provider   Provider
	reconciler *Reconciler
	store      account.Store
	cfg        Config
	log        *slog.Logger
}

// NewService creates a billing Service. Panics on nil dependencies to fail
// fast during initialization.
func NewService(provider Provider, reconciler *Reconciler, store account.Store, cfg Config, log *slog.Logger) *Service {
	if provider == nil {
		panic("billing: provider is required")
	}
	if reconciler == nil {
		panic("billing: reconciler is required")
	}
	if store == nil {
		panic("billing: account store is required")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{provider: provider, reconciler: reconciler, store: store, cfg: cfg, log: log}
}

// Reconciler exposes the underlying reconciler for direct route handlers.
func (s *Service) Reconciler() *Reconciler {
	return s.reconciler
}

// CreateCheckoutSession prepares a hosted checkout for the given price,
// creating the provider customer on first use.
func (s *Service) CreateCheckoutSession(ctx context.Context, userID, priceID string) (*CheckoutSession, error) {
	acc, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	customerID := acc.StripeCustomerID
	if customerID == "" {
		customerID, err = s.provider.EnsureCustomer(ctx, acc.ID, acc.Email)
		if err != nil {
			return nil, err
		}
		acc.StripeCustomerID = customerID
		if err := s.store.Save(ctx, acc); err != nil {
			// The webhook attaches the reference again on completion.
			s.log.ErrorContext(ctx, "failed to persist customer reference",
				logger.UserID(userID), logger.Error(err), logger.Component("billing"))
		}
	}

	return s.provider.CreateCheckoutSession(ctx, CheckoutRequest{
		CustomerID: customerID,
		UserID:     acc.ID,
		PriceID:    priceID,
		Quantity:   1,
		SuccessURL: s.cfg.SuccessURL,
		CancelURL:  s.cfg.CancelURL,
	})
}

// CreateAddOnCheckoutSession prepares a checkout for one additional website.
func (s *Service) CreateAddOnCheckoutSession(ctx context.Context, userID string) (*CheckoutSession, error) {
	if s.cfg.AddOnPriceID == "" {
		return nil, ErrUnknownPrice
	}
	return s.CreateCheckoutSession(ctx, userID, s.cfg.AddOnPriceID)
}

// CreatePortalSession returns a customer portal link for subscription
// self-management.
func (s *Service) CreatePortalSession(ctx context.Context, userID string) (*PortalSession, error) {
	acc, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if acc.StripeCustomerID == "" {
		return nil, ErrMissingCustomer
	}
	return s.provider.CreatePortalSession(ctx, acc.StripeCustomerID, s.cfg.PortalReturnURL)
}

// UpgradeSubscription swaps the active subscription to the new price and
// cascades the plan change onto the user's quota.
func (s *Service) UpgradeSubscription(ctx context.Context, userID string, newPriceID, newProductID string, newPlan plan.Type) (UpgradeResult, error) {
	acc, err := s.store.Get(ctx, userID)
	if err != nil {
		return UpgradeResult{}, err
	}

	if acc.PlanType == newPlan {
		return UpgradeResult{}, ErrSamePlan
	}
	if !acc.Subscription.Active || acc.Subscription.SubscriptionID == "" {
		return UpgradeResult{}, ErrNoActiveSubscription
	}

	oldPlan := acc.PlanType

	if err := s.provider.UpdateSubscriptionPrice(ctx, acc.Subscription.SubscriptionID, newPriceID); err != nil {
		return UpgradeResult{}, err
	}

	change, err := s.reconciler.ApplyPlanChange(ctx, userID, newPlan, oldPlan)
	if err != nil {
		// Stripe already moved; the quota write is retried by the
		// subscription.updated webhook, so only log here.
		s.log.ErrorContext(ctx, "plan change write failed after provider update",
			logger.UserID(userID), logger.Error(err), logger.Component("billing"))
		return UpgradeResult{}, err
	}

	// Record the new price on the embedded subscription; the authoritative
	// values arrive with the subscription.updated webhook shortly after.
	if acc, err := s.store.Get(ctx, userID); err == nil {
		acc.Subscription.PriceID = newPriceID
		acc.Subscription.ProductID = newProductID
		if err := s.store.Save(ctx, acc); err != nil {
			s.log.ErrorContext(ctx, "failed to record subscription price",
				logger.UserID(userID), logger.Error(err), logger.Component("billing"))
		}
	}

	return UpgradeResult{
		OldPlanType:     oldPlan,
		NewPlanType:     newPlan,
		OldWebsiteLimit: change.OldLimit,
		NewWebsiteLimit: change.NewLimit,
	}, nil
}

// CancelSubscription flags the provider subscription to end at the period
// boundary. The account is reset to the free tier when the deletion webhook
// arrives.
func (s *Service) CancelSubscription(ctx context.Context, userID string) error {
	acc, err := s.store.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !acc.Subscription.Active || acc.Subscription.SubscriptionID == "" {
		return ErrNoActiveSubscription
	}

	if err := s.provider.CancelAtPeriodEnd(ctx, acc.Subscription.SubscriptionID); err != nil {
		return err
	}

	acc.Subscription.CancelAtPeriodEnd = true
	if err := s.store.Save(ctx, acc); err != nil {
		s.log.ErrorContext(ctx, "failed to record cancellation flag",
			logger.UserID(userID), logger.Error(err), logger.Component("billing"))
		return err
	}
	return nil
}

// HandleWebhook verifies and applies an inbound provider webhook payload.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}
	return s.reconciler.ApplyWebhookEvent(ctx, event)
}
