package billing_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingmodule "github.com/webdashhq/webdash/modules/billing"
	"github.com/webdashhq/webdash/pkg/account"
	"github.com/webdashhq/webdash/pkg/auth"
	"github.com/webdashhq/webdash/pkg/billing"
	"github.com/webdashhq/webdash/pkg/entitlement"
	"github.com/webdashhq/webdash/pkg/plan"
)

// stubProvider satisfies billing.Provider with canned responses.
type stubProvider struct {
	parseEvent *billing.Event
	parseErr   error
}

func (p *stubProvider) EnsureCustomer(context.Context, string, string) (string, error) {
	return "cus_stub", nil
}

func (p *stubProvider) CreateCheckoutSession(context.Context, billing.CheckoutRequest) (*billing.CheckoutSession, error) {
	return &billing.CheckoutSession{ID: "cs_stub", URL: "https://checkout.test/cs_stub"}, nil
}

func (p *stubProvider) CreatePortalSession(context.Context, string, string) (*billing.PortalSession, error) {
	return &billing.PortalSession{URL: "https://portal.test/s"}, nil
}

func (p *stubProvider) UpdateSubscriptionPrice(context.Context, string, string) error { return nil }
func (p *stubProvider) CancelAtPeriodEnd(context.Context, string) error               { return nil }

func (p *stubProvider) ParseWebhook([]byte, string) (*billing.Event, error) {
	return p.parseEvent, p.parseErr
}

func testCatalog(t *testing.T) *plan.Catalog {
	t.Helper()
	catalog, err := plan.NewCatalog(
		plan.Tier{Type: plan.TypeFree, Name: "Free", BaseWebsites: 1},
		plan.Tier{Type: plan.TypeBusiness, Name: "Business", BaseWebsites: 1, PriceID: "price_biz", ProductID: "prod_biz"},
		plan.Tier{Type: plan.TypeAgency, Name: "Agency", BaseWebsites: 3, PriceID: "price_agency", ProductID: "prod_agency"},
		plan.Tier{Type: plan.TypeEnterprise, Name: "Enterprise", BaseWebsites: 10, PriceID: "price_ent", ProductID: "prod_ent"},
	)
	require.NoError(t, err)
	return catalog
}

func newRouter(t *testing.T, provider billing.Provider) (http.Handler, account.Store) {
	t.Helper()
	store := account.NewMemoryStore()
	catalog := testCatalog(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reconciler := billing.NewReconciler(store, entitlement.NewCalculator(catalog), log)
	svc := billing.NewService(provider, reconciler, store, billing.Config{
		SuccessURL: "https://app.test/done",
		CancelURL:  "https://app.test/cancel",
	}, log)
	return billingmodule.Router(svc, catalog, log), store
}

func doRequest(t *testing.T, handler http.Handler, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{Subject: userID}))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func seed(t *testing.T, store account.Store, acc account.Account) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), &acc))
}

func TestPlanChange(t *testing.T) {
	t.Parallel()

	t.Run("applies and returns limits", func(t *testing.T) {
		t.Parallel()
		router, store := newRouter(t, &stubProvider{})
		seed(t, store, account.Account{ID: "user-1", PlanType: plan.TypeBusiness, WebsiteLimit: 2})

		rec := doRequest(t, router, http.MethodPost, "/plan-change",
			`{"newPlanType":"agency","oldPlanType":"business"}`, "user-1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"oldLimit":2,"newLimit":4}`, rec.Body.String())
	})

	t.Run("missing plan type", func(t *testing.T) {
		t.Parallel()
		router, _ := newRouter(t, &stubProvider{})

		rec := doRequest(t, router, http.MethodPost, "/plan-change", `{}`, "user-1")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		router, _ := newRouter(t, &stubProvider{})

		rec := doRequest(t, router, http.MethodPost, "/plan-change",
			`{"newPlanType":"agency"}`, "ghost")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"user not found"}`, rec.Body.String())
	})
}

func TestPurchaseAdditionalWebsite(t *testing.T) {
	t.Parallel()

	t.Run("stale plan yields 400 and no write", func(t *testing.T) {
		t.Parallel()
		router, store := newRouter(t, &stubProvider{})
		seed(t, store, account.Account{ID: "user-1", PlanType: plan.TypeAgency, WebsiteLimit: 3})

		rec := doRequest(t, router, http.MethodPost, "/purchase-additional-website",
			`{"planType":"business"}`, "user-1")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		acc, err := store.Get(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, 3, acc.WebsiteLimit)
	})

	t.Run("matching plan increments limit", func(t *testing.T) {
		t.Parallel()
		router, store := newRouter(t, &stubProvider{})
		seed(t, store, account.Account{ID: "user-1", PlanType: plan.TypeBusiness, WebsiteLimit: 1})

		rec := doRequest(t, router, http.MethodPost, "/purchase-additional-website",
			`{"planType":"business","subscriptionId":"sub_addon"}`, "user-1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"websiteLimit":2}`, rec.Body.String())
	})
}

func TestUpgradeSubscription(t *testing.T) {
	t.Parallel()

	t.Run("same plan conflicts", func(t *testing.T) {
		t.Parallel()
		router, store := newRouter(t, &stubProvider{})
		seed(t, store, account.Account{
			ID:           "user-1",
			PlanType:     plan.TypeAgency,
			WebsiteLimit: 3,
			Subscription: account.Subscription{Active: true, SubscriptionID: "sub_1"},
		})

		rec := doRequest(t, router, http.MethodPost, "/upgrade-subscription",
			`{"newPlanType":"agency"}`, "user-1")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("free tier is not purchasable", func(t *testing.T) {
		t.Parallel()
		router, _ := newRouter(t, &stubProvider{})

		rec := doRequest(t, router, http.MethodPost, "/upgrade-subscription",
			`{"newPlanType":"free"}`, "user-1")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("upgrades and cascades quota", func(t *testing.T) {
		t.Parallel()
		router, store := newRouter(t, &stubProvider{})
		seed(t, store, account.Account{
			ID:           "user-1",
			PlanType:     plan.TypeBusiness,
			WebsiteLimit: 1,
			Subscription: account.Subscription{Active: true, SubscriptionID: "sub_1"},
		})

		rec := doRequest(t, router, http.MethodPost, "/upgrade-subscription",
			`{"newPlanType":"agency"}`, "user-1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"oldPlanType":"business","newPlanType":"agency","oldWebsiteLimit":1,"newWebsiteLimit":3}`,
			rec.Body.String())
	})
}

func TestWebhook(t *testing.T) {
	t.Parallel()

	t.Run("verification failure yields 400", func(t *testing.T) {
		t.Parallel()
		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		store := account.NewMemoryStore()
		reconciler := billing.NewReconciler(store, entitlement.NewCalculator(testCatalog(t)), log)
		svc := billing.NewService(&stubProvider{parseErr: billing.ErrWebhookVerification}, reconciler, store, billing.Config{}, log)
		handler := billingmodule.WebhookHandler(svc, log)

		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
		req.Header.Set("Stripe-Signature", "bad")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("valid event is applied", func(t *testing.T) {
		t.Parallel()
		log := slog.New(slog.NewTextHandler(io.Discard, nil))
		store := account.NewMemoryStore()
		seed(t, store, account.Account{ID: "user-1"})
		reconciler := billing.NewReconciler(store, entitlement.NewCalculator(testCatalog(t)), log)
		svc := billing.NewService(&stubProvider{parseEvent: &billing.Event{
			Kind:       billing.EventCheckoutCompleted,
			UserID:     "user-1",
			CustomerID: "cus_1",
		}}, reconciler, store, billing.Config{}, log)
		handler := billingmodule.WebhookHandler(svc, log)

		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		acc, err := store.Get(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, "cus_1", acc.StripeCustomerID)
	})
}

func TestCheckoutSession(t *testing.T) {
	t.Parallel()

	router, store := newRouter(t, &stubProvider{})
	seed(t, store, account.Account{ID: "user-1", Email: "u1@test.dev"})

	rec := doRequest(t, router, http.MethodPost, "/checkout-session",
		`{"planType":"business"}`, "user-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sessionId":"cs_stub","url":"https://checkout.test/cs_stub"}`, rec.Body.String())
}
