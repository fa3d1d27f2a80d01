// Package workspaces exposes the workspace HTTP surface: CRUD, collaborator
// management, and invitations.
package workspaces

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/webdashhq/webdash/pkg/workspace"
)

// Router mounts the authenticated workspace routes.
func Router(svc *workspace.Service, log *slog.Logger) chi.Router {
	h := &handlers{svc: svc, log: log}

	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Route("/{workspaceID}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Patch("/", h.rename)
		r.Delete("/", h.delete)
		r.Post("/collaborators", h.invite)
		r.Post("/collaborators/accept", h.acceptInvite)
		r.Delete("/collaborators/{userID}", h.removeCollaborator)
	})
	return r
}
