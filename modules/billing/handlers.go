package billing

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/webdashhq/webdash/pkg/account"
	"github.com/webdashhq/webdash/pkg/auth"
	"github.com/webdashhq/webdash/pkg/billing"
	"github.com/webdashhq/webdash/pkg/plan"
	"github.com/webdashhq/webdash/pkg/response"
)

// maxWebhookBody caps webhook payload reads; Stripe events are small.
const maxWebhookBody = 1 << 20

type handlers struct {
	svc     *billing.Service
	catalog *plan.Catalog
	log     *slog.Logger
}

type planChangeRequest struct {
	NewPlanType plan.Type `json:"newPlanType"`
	OldPlanType plan.Type `json:"oldPlanType,omitempty"`
}

func (h *handlers) planChange(w http.ResponseWriter, r *http.Request) {
	var req planChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPlanType == "" {
		response.Error(w, r, h.log, response.Validation("newPlanType is required"))
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	change, err := h.svc.Reconciler().ApplyPlanChange(r.Context(), userID, req.NewPlanType, req.OldPlanType)
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusOK, change)
}

type purchaseRequest struct {
	PlanType       plan.Type `json:"planType"`
	SubscriptionID string    `json:"subscriptionId,omitempty"`
	PriceID        string    `json:"priceId,omitempty"`
	Amount         int64     `json:"amount,omitempty"`
}

func (h *handlers) purchaseAdditionalWebsite(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlanType == "" {
		response.Error(w, r, h.log, response.Validation("planType is required"))
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	newLimit, err := h.svc.Reconciler().ApplyAdditionalWebsitePurchase(r.Context(), userID, req.PlanType, billing.AddOnPurchase{
		SubscriptionID: req.SubscriptionID,
		PriceID:        req.PriceID,
		Amount:         req.Amount,
	})
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusOK, map[string]int{"websiteLimit": newLimit})
}

type upgradeRequest struct {
	NewPlanType plan.Type `json:"newPlanType"`
}

func (h *handlers) upgradeSubscription(w http.ResponseWriter, r *http.Request) {
	var req upgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPlanType == "" {
		response.Error(w, r, h.log, response.Validation("newPlanType is required"))
		return
	}

	tier, ok := h.catalog.Tier(req.NewPlanType)
	if !ok || tier.PriceID == "" {
		response.Error(w, r, h.log, response.Validation("newPlanType does not map to a purchasable tier"))
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	result, err := h.svc.UpgradeSubscription(r.Context(), userID, tier.PriceID, tier.ProductID, req.NewPlanType)
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *handlers) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if err := h.svc.CancelSubscription(r.Context(), userID); err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"cancelAtPeriodEnd": true})
}

type checkoutRequest struct {
	PlanType plan.Type `json:"planType,omitempty"`
	AddOn    bool      `json:"addOn,omitempty"`
}

func (h *handlers) checkoutSession(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, h.log, response.Validation("malformed request body"))
		return
	}

	userID := auth.UserIDFromContext(r.Context())

	var (
		sess *billing.CheckoutSession
		err  error
	)
	if req.AddOn {
		sess, err = h.svc.CreateAddOnCheckoutSession(r.Context(), userID)
	} else {
		tier, ok := h.catalog.Tier(req.PlanType)
		if !ok || tier.PriceID == "" {
			response.Error(w, r, h.log, response.Validation("planType does not map to a purchasable tier"))
			return
		}
		sess, err = h.svc.CreateCheckoutSession(r.Context(), userID, tier.PriceID)
	}
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"sessionId": sess.ID, "url": sess.URL})
}

func (h *handlers) portalSession(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	sess, err := h.svc.CreatePortalSession(r.Context(), userID)
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"url": sess.URL})
}

// webhook is unauthenticated; the Stripe signature is the trust anchor.
func (h *handlers) webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		response.Error(w, r, h.log, response.Validation("failed to read payload"))
		return
	}

	if err := h.svc.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"received": true})
}

// mapError converts billing and account sentinels into their HTTP statuses.
func mapError(err error) error {
	switch {
	case errors.Is(err, account.ErrNotFound):
		return response.NewHTTPError(http.StatusNotFound, "user not found")
	case errors.Is(err, billing.ErrPlanMismatch):
		return response.NewHTTPError(http.StatusBadRequest, billing.ErrPlanMismatch.Error())
	case errors.Is(err, billing.ErrSamePlan):
		return response.NewHTTPError(http.StatusConflict, billing.ErrSamePlan.Error())
	case errors.Is(err, billing.ErrNoActiveSubscription):
		return response.NewHTTPError(http.StatusBadRequest, billing.ErrNoActiveSubscription.Error())
	case errors.Is(err, billing.ErrMissingCustomer):
		return response.NewHTTPError(http.StatusBadRequest, billing.ErrMissingCustomer.Error())
	case errors.Is(err, billing.ErrUnknownPrice):
		return response.NewHTTPError(http.StatusBadRequest, billing.ErrUnknownPrice.Error())
	case errors.Is(err, billing.ErrWebhookVerification):
		return response.NewHTTPError(http.StatusBadRequest, billing.ErrWebhookVerification.Error())
	default:
		return err
	}
}
