// Package account exposes the profile and usage HTTP surface.
package account

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/webdashhq/webdash/pkg/account"
)

// Router mounts the authenticated account routes.
func Router(store account.Store, log *slog.Logger) chi.Router {
	h := &handlers{store: store, log: log}

	r := chi.NewRouter()
	r.Get("/profile", h.profile)
	r.Patch("/profile", h.updateProfile)
	r.Get("/usage", h.usage)
	return r
}
