// Package billing exposes the billing HTTP surface: plan changes, add-on
// purchases, checkout/portal sessions, and the Stripe webhook.
package billing

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/webdashhq/webdash/pkg/billing"
	"github.com/webdashhq/webdash/pkg/plan"
)

// Router mounts the authenticated billing routes. The webhook is NOT part of
// this router; mount WebhookHandler separately outside the auth middleware.
func Router(svc *billing.Service, catalog *plan.Catalog, log *slog.Logger) chi.Router {
	h := &handlers{svc: svc, catalog: catalog, log: log}

	r := chi.NewRouter()
	r.Post("/plan-change", h.planChange)
	r.Post("/purchase-additional-website", h.purchaseAdditionalWebsite)
	r.Post("/upgrade-subscription", h.upgradeSubscription)
	r.Post("/cancel-subscription", h.cancelSubscription)
	r.Post("/checkout-session", h.checkoutSession)
	r.Post("/portal-session", h.portalSession)
	return r
}

// WebhookHandler returns the unauthenticated Stripe webhook endpoint.
func WebhookHandler(svc *billing.Service, log *slog.Logger) http.HandlerFunc {
	h := &handlers{svc: svc, log: log}
	return h.webhook
}
