package account_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountmodule "github.com/webdashhq/webdash/modules/account"
	"github.com/webdashhq/webdash/pkg/account"
	"github.com/webdashhq/webdash/pkg/auth"
	"github.com/webdashhq/webdash/pkg/plan"
)

func newRouter(t *testing.T) (http.Handler, account.Store) {
	t.Helper()
	store := account.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return accountmodule.Router(store, log), store
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string, claims *auth.Claims) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if claims != nil {
		req = req.WithContext(auth.WithClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestProfile(t *testing.T) {
	t.Parallel()

	t.Run("provisions free-tier account on first request", func(t *testing.T) {
		t.Parallel()
		router, store := newRouter(t)

		rec := doRequest(t, router, http.MethodGet, "/profile", "", &auth.Claims{
			Subject: "user-1", Email: "u1@test.dev",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		acc, err := store.Get(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, plan.TypeFree, acc.PlanType)
		assert.Equal(t, 1, acc.WebsiteLimit)
		assert.Equal(t, "u1@test.dev", acc.Email)
	})

	t.Run("returns existing account", func(t *testing.T) {
		t.Parallel()
		router, store := newRouter(t)
		require.NoError(t, store.Save(context.Background(), &account.Account{
			ID: "user-2", PlanType: plan.TypeAgency, WebsiteLimit: 3,
		}))

		rec := doRequest(t, router, http.MethodGet, "/profile", "", &auth.Claims{Subject: "user-2"})
		require.Equal(t, http.StatusOK, rec.Code)

		var got account.Account
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, plan.TypeAgency, got.PlanType)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("patches provided fields only", func(t *testing.T) {
		t.Parallel()
		router, store := newRouter(t)
		require.NoError(t, store.Save(context.Background(), &account.Account{
			ID: "user-1", Email: "old@test.dev", FirstName: "Old",
		}))

		rec := doRequest(t, router, http.MethodPatch, "/profile",
			`{"firstName":"New"}`, &auth.Claims{Subject: "user-1"})
		require.Equal(t, http.StatusOK, rec.Code)

		acc, err := store.Get(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Equal(t, "New", acc.FirstName)
		assert.Equal(t, "old@test.dev", acc.Email)
	})

	t.Run("rejects empty patch", func(t *testing.T) {
		t.Parallel()
		router, _ := newRouter(t)

		rec := doRequest(t, router, http.MethodPatch, "/profile", `{}`, &auth.Claims{Subject: "user-1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects empty email", func(t *testing.T) {
		t.Parallel()
		router, store := newRouter(t)
		require.NoError(t, store.Save(context.Background(), &account.Account{ID: "user-1"}))

		rec := doRequest(t, router, http.MethodPatch, "/profile", `{"email":""}`, &auth.Claims{Subject: "user-1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUsage(t *testing.T) {
	t.Parallel()

	router, store := newRouter(t)
	require.NoError(t, store.Save(context.Background(), &account.Account{
		ID:           "user-1",
		PlanType:     plan.TypeAgency,
		WebsiteLimit: 4,
		Websites:     []account.Website{{ID: "a"}, {ID: "b"}},
		AdditionalWebsiteSubscriptions: []account.AddOnSubscription{
			{SubscriptionID: "sub_1", Status: account.AddOnStatusActive},
			{SubscriptionID: "sub_2", Status: account.AddOnStatusCanceled},
		},
	}))

	rec := doRequest(t, router, http.MethodGet, "/usage", "", &auth.Claims{Subject: "user-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"planType":"agency","websitesUsed":2,"websiteLimit":4,"activeAddOns":1}`, rec.Body.String())
}
