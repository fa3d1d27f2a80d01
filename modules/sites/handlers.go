package sites

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/webdashhq/webdash/pkg/account"
	"github.com/webdashhq/webdash/pkg/ai"
	"github.com/webdashhq/webdash/pkg/auth"
	"github.com/webdashhq/webdash/pkg/job"
	"github.com/webdashhq/webdash/pkg/response"
)

type handlers struct {
	svc *Service
	log *slog.Logger
}

func (h *handlers) startJob(w http.ResponseWriter, r *http.Request) {
	var params StartParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		response.Error(w, r, h.log, response.Validation("malformed request body"))
		return
	}
	if params.JobID == "" {
		response.Error(w, r, h.log, response.Validation("jobId is required"))
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	rec, err := h.svc.StartGeneration(r.Context(), userID, params)
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusAccepted, map[string]string{
		"jobId":     rec.ID,
		"subdomain": rec.Subdomain,
	})
}

func (h *handlers) jobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("jobId")
	if jobID == "" {
		response.Error(w, r, h.log, response.Validation("jobId query parameter is required"))
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	rec, err := h.svc.JobStatus(r.Context(), userID, jobID)
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusOK, rec)
}

func (h *handlers) listSites(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	sites, err := h.svc.ListWebsites(r.Context(), userID)
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	if sites == nil {
		sites = []account.Website{}
	}
	response.JSON(w, http.StatusOK, sites)
}

func (h *handlers) deleteSite(w http.ResponseWriter, r *http.Request) {
	websiteID := chi.URLParam(r, "websiteID")
	userID := auth.UserIDFromContext(r.Context())

	if err := h.svc.DeleteWebsite(r.Context(), userID, websiteID); err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *handlers) completions(w http.ResponseWriter, r *http.Request) {
	var req ai.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, h.log, response.Validation("malformed request body"))
		return
	}

	completion, err := h.svc.Complete(r.Context(), req)
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusOK, completion)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, account.ErrNotFound):
		return response.NewHTTPError(http.StatusNotFound, "user not found")
	case errors.Is(err, job.ErrNotFound):
		return response.NewHTTPError(http.StatusNotFound, job.ErrNotFound.Error())
	case errors.Is(err, job.ErrAlreadyRunning):
		return response.NewHTTPError(http.StatusConflict, job.ErrAlreadyRunning.Error())
	case errors.Is(err, job.ErrAlreadyComplete):
		return response.NewHTTPError(http.StatusConflict, job.ErrAlreadyComplete.Error())
	case errors.Is(err, job.ErrLocked):
		return response.NewHTTPError(http.StatusConflict, job.ErrLocked.Error())
	case errors.Is(err, job.ErrMissingID):
		return response.Validation(job.ErrMissingID.Error())
	case errors.Is(err, ErrWebsiteLimitReached):
		return response.NewHTTPError(http.StatusPaymentRequired, ErrWebsiteLimitReached.Error())
	case errors.Is(err, ErrWebsiteNotFound):
		return response.NewHTTPError(http.StatusNotFound, ErrWebsiteNotFound.Error())
	case errors.Is(err, ai.ErrEmptyPrompt):
		return response.Validation(ai.ErrEmptyPrompt.Error())
	default:
		return err
	}
}
