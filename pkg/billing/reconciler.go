package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/webdashhq/webdash/pkg/account"
	"github.com/webdashhq/webdash/pkg/entitlement"
	"github.com/webdashhq/webdash/pkg/logger"
	"github.com/webdashhq/webdash/pkg/plan"
)

// PlanChange reports the quota transition applied by ApplyPlanChange.
type PlanChange struct {
	OldLimit int `json:"oldLimit"`
	NewLimit int `json:"newLimit"`
}

// AddOnPurchase carries the provider references recorded with an
// additional-website purchase.
type AddOnPurchase struct {
	SubscriptionID string
	PriceID        string
	Amount         int64
}

// Reconciler applies entitlement arithmetic against user documents when plan
// or add-on state changes. All writes are plain read-modify-write Save calls;
// concurrent requests for the same user race and the later write wins.
type Reconciler struct {
	store    account.Store
	calc     *entitlement.Calculator
	log      *slog.Logger
	handlers map[EventKind]func(context.Context, *Event) error
}

// NewReconciler creates a Reconciler. Panics on nil dependencies to fail fast
// during initialization.
func NewReconciler(store account.Store, calc *entitlement.Calculator, log *slog.Logger) *Reconciler {
	if store == nil {
		panic("billing: account store is required")
	}
	if calc == nil {
		panic("billing: entitlement calculator is required")
	}
	if log == nil {
		log = slog.Default()
	}

	r := &Reconciler{store: store, calc: calc, log: log}
	r.handlers = map[EventKind]func(context.Context, *Event) error{
		EventCheckoutCompleted:   r.onCheckoutCompleted,
		EventSubscriptionCreated: r.onSubscriptionChanged,
		EventSubscriptionUpdated: r.onSubscriptionChanged,
		EventSubscriptionDeleted: r.onSubscriptionDeleted,
		EventInvoicePaid:         r.onInvoicePaid,
		EventInvoiceFailed:       r.onInvoiceFailed,
	}
	return r
}

// ApplyPlanChange recomputes the user's website limit for a plan switch.
// The add-on count is inferred from the stored limit against oldPlan (the
// stored plan when oldPlan is empty), then carried onto the new plan's base
// entitlement. The resulting limit is never below the new plan's base.
func (r *Reconciler) ApplyPlanChange(ctx context.Context, userID string, newPlan, oldPlan plan.Type) (PlanChange, error) {
	acc, err := r.store.Get(ctx, userID)
	if err != nil {
		return PlanChange{}, err
	}

	if oldPlan == "" {
		oldPlan = acc.PlanType
	}
	r.warnUnknownPlan(oldPlan)
	r.warnUnknownPlan(newPlan)

	additional := r.calc.AdditionalPurchased(acc.WebsiteLimit, oldPlan)
	newLimit := r.calc.NewLimit(newPlan, additional)

	change := PlanChange{OldLimit: acc.WebsiteLimit, NewLimit: newLimit}

	acc.PlanType = newPlan
	acc.WebsiteLimit = newLimit
	if err := r.store.Save(ctx, acc); err != nil {
		return PlanChange{}, err
	}

	r.log.InfoContext(ctx, "plan change applied",
		logger.UserID(userID),
		logger.PlanType(string(newPlan)),
		slog.Int("old_limit", change.OldLimit),
		slog.Int("new_limit", change.NewLimit),
		logger.Component("billing"),
	)
	return change, nil
}

// ApplyAdditionalWebsitePurchase records one add-on purchase: the website
// limit grows by exactly 1 and one entry is appended to the add-on list.
// When the supplied plan type does not match the stored one the purchase was
// initiated by a stale client; ErrPlanMismatch is returned and nothing is
// written.
func (r *Reconciler) ApplyAdditionalWebsitePurchase(ctx context.Context, userID string, planType plan.Type, purchase AddOnPurchase) (int, error) {
	acc, err := r.store.Get(ctx, userID)
	if err != nil {
		return 0, err
	}

	if acc.PlanType != planType {
		return 0, fmt.Errorf("%w: stored %q, got %q", ErrPlanMismatch, acc.PlanType, planType)
	}

	acc.WebsiteLimit++
	acc.AdditionalWebsiteSubscriptions = append(acc.AdditionalWebsiteSubscriptions, account.AddOnSubscription{
		SubscriptionID: purchase.SubscriptionID,
		PriceID:        purchase.PriceID,
		Amount:         purchase.Amount,
		Status:         account.AddOnStatusActive,
		CreatedAt:      time.Now().UTC(),
	})
	if err := r.store.Save(ctx, acc); err != nil {
		return 0, err
	}

	r.log.InfoContext(ctx, "additional website purchased",
		logger.UserID(userID),
		slog.Int("new_limit", acc.WebsiteLimit),
		logger.Component("billing"),
	)
	return acc.WebsiteLimit, nil
}

// ApplyWebhookEvent routes a normalized billing event to its reconciliation
// routine. Unknown event kinds are logged and ignored.
func (r *Reconciler) ApplyWebhookEvent(ctx context.Context, event *Event) error {
	handler, ok := r.handlers[event.Kind]
	if !ok {
		r.log.InfoContext(ctx, "ignoring unhandled billing event",
			logger.EventKind(string(event.Kind)),
			slog.String("provider_event", event.ProviderEvent),
			logger.Component("billing"),
		)
		return nil
	}
	return handler(ctx, event)
}

// onCheckoutCompleted attaches the provider customer reference to the user
// document so later subscription events can be correlated.
func (r *Reconciler) onCheckoutCompleted(ctx context.Context, event *Event) error {
	if event.UserID == "" {
		r.log.WarnContext(ctx, "checkout completed without user reference",
			slog.String("customer_id", event.CustomerID),
			logger.Component("billing"),
		)
		return nil
	}

	acc, err := r.store.Get(ctx, event.UserID)
	if err != nil {
		return err
	}
	acc.StripeCustomerID = event.CustomerID
	return r.store.Save(ctx, acc)
}

// onSubscriptionChanged overwrites the embedded subscription fields with the
// event's metadata. Overwrites make replays of the same event idempotent for
// these fields. A resolvable plan tier differing from the stored one also
// cascades a quota recomputation.
func (r *Reconciler) onSubscriptionChanged(ctx context.Context, event *Event) error {
	acc, err := r.store.GetByStripeCustomerID(ctx, event.CustomerID)
	if err != nil {
		return err
	}

	acc.Subscription = account.Subscription{
		Active:            event.Status == "active" || event.Status == "trialing",
		SubscriptionID:    event.SubscriptionID,
		ProductID:         event.ProductID,
		PriceID:           event.PriceID,
		Interval:          event.Interval,
		Status:            event.Status,
		CurrentPeriodEnd:  event.CurrentPeriodEnd,
		CancelAtPeriodEnd: event.CancelAtPeriodEnd,
	}

	if event.PlanType != "" && event.PlanType != acc.PlanType {
		additional := r.calc.AdditionalPurchased(acc.WebsiteLimit, acc.PlanType)
		acc.PlanType = event.PlanType
		acc.WebsiteLimit = r.calc.NewLimit(event.PlanType, additional)
	}

	return r.store.Save(ctx, acc)
}

// onSubscriptionDeleted handles two cases: deletion of an add-on subscription
// marks the matching append-only entry canceled and recomputes the quota from
// the remaining active entries; deletion of the main subscription resets the
// account to the free tier.
func (r *Reconciler) onSubscriptionDeleted(ctx context.Context, event *Event) error {
	acc, err := r.store.GetByStripeCustomerID(ctx, event.CustomerID)
	if err != nil {
		return err
	}

	for i, addOn := range acc.AdditionalWebsiteSubscriptions {
		if addOn.SubscriptionID == event.SubscriptionID {
			acc.AdditionalWebsiteSubscriptions[i].Status = account.AddOnStatusCanceled
			acc.WebsiteLimit = r.calc.BaseEntitlement(acc.PlanType) + acc.ActiveAddOns()
			return r.store.Save(ctx, acc)
		}
	}

	acc.PlanType = plan.TypeFree
	acc.WebsiteLimit = r.calc.BaseEntitlement(plan.TypeFree)
	acc.Subscription = account.Subscription{
		Active: false,
		Status: "canceled",
	}

	r.log.InfoContext(ctx, "subscription deleted, account reset to free tier",
		logger.UserID(acc.ID),
		logger.Component("billing"),
	)
	return r.store.Save(ctx, acc)
}

func (r *Reconciler) onInvoicePaid(ctx context.Context, event *Event) error {
	acc, err := r.store.GetByStripeCustomerID(ctx, event.CustomerID)
	if err != nil {
		return err
	}
	acc.Subscription.Active = true
	acc.Subscription.Status = "active"
	return r.store.Save(ctx, acc)
}

func (r *Reconciler) onInvoiceFailed(ctx context.Context, event *Event) error {
	acc, err := r.store.GetByStripeCustomerID(ctx, event.CustomerID)
	if err != nil {
		return err
	}
	acc.Subscription.Active = false
	acc.Subscription.Status = "past_due"
	return r.store.Save(ctx, acc)
}

func (r *Reconciler) warnUnknownPlan(t plan.Type) {
	if t != "" && !r.calc.KnownPlan(t) {
		r.log.Warn("unknown plan type, falling back to lowest tier entitlement",
			logger.PlanType(string(t)),
			logger.Component("billing"),
		)
	}
}
