package account

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/webdashhq/webdash/pkg/account"
	"github.com/webdashhq/webdash/pkg/auth"
	"github.com/webdashhq/webdash/pkg/plan"
	"github.com/webdashhq/webdash/pkg/response"
)

type handlers struct {
	store account.Store
	log   *slog.Logger
}

// profile returns the account document, provisioning a free-tier one on
// first sight of a verified subject.
func (h *handlers) profile(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	acc, err := h.store.Get(r.Context(), claims.Subject)
	switch {
	case errors.Is(err, account.ErrNotFound):
		acc = &account.Account{
			ID:           claims.Subject,
			Email:        claims.Email,
			PlanType:     plan.TypeFree,
			WebsiteLimit: plan.Default().BaseEntitlement(plan.TypeFree),
		}
		if err := h.store.Save(r.Context(), acc); err != nil {
			response.Error(w, r, h.log, err)
			return
		}
	case err != nil:
		response.Error(w, r, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, acc)
}

type updateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
}

func (h *handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, h.log, response.Validation("malformed request body"))
		return
	}
	if req.FirstName == nil && req.LastName == nil && req.Email == nil {
		response.Error(w, r, h.log, response.Validation("no fields to update"))
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	acc, err := h.store.Get(r.Context(), userID)
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}

	if req.FirstName != nil {
		acc.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		acc.LastName = *req.LastName
	}
	if req.Email != nil {
		if *req.Email == "" {
			response.Error(w, r, h.log, response.Validation("email cannot be empty"))
			return
		}
		acc.Email = *req.Email
	}

	if err := h.store.Save(r.Context(), acc); err != nil {
		response.Error(w, r, h.log, err)
		return
	}
	response.JSON(w, http.StatusOK, acc)
}

type usageResponse struct {
	PlanType     plan.Type `json:"planType"`
	WebsitesUsed int       `json:"websitesUsed"`
	WebsiteLimit int       `json:"websiteLimit"`
	ActiveAddOns int       `json:"activeAddOns"`
}

func (h *handlers) usage(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	acc, err := h.store.Get(r.Context(), userID)
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}

	response.JSON(w, http.StatusOK, usageResponse{
		PlanType:     acc.PlanType,
		WebsitesUsed: len(acc.Websites),
		WebsiteLimit: acc.WebsiteLimit,
		ActiveAddOns: acc.ActiveAddOns(),
	})
}

func mapError(err error) error {
	if errors.Is(err, account.ErrNotFound) {
		return response.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return err
}
