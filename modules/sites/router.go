// Package sites exposes the website generation HTTP surface: start-job,
// job-status, site listing and deletion, and the AI copy proxy. The
// generation pipeline itself lives in Service.
package sites

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// Router mounts the authenticated sites routes.
func Router(svc *Service, log *slog.Logger) chi.Router {
	h := &handlers{svc: svc, log: log}

	r := chi.NewRouter()
	r.Post("/start-job", h.startJob)
	r.Get("/job-status", h.jobStatus)
	r.Get("/", h.listSites)
	r.Delete("/{websiteID}", h.deleteSite)
	r.Post("/ai/completions", h.completions)
	return r
}
