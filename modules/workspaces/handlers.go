package workspaces

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/webdashhq/webdash/pkg/auth"
	"github.com/webdashhq/webdash/pkg/response"
	"github.com/webdashhq/webdash/pkg/workspace"
)

type handlers struct {
	svc *workspace.Service
	log *slog.Logger
}

type createRequest struct {
	Name string `json:"name"`
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, h.log, response.Validation("malformed request body"))
		return
	}

	claims, _ := auth.ClaimsFromContext(r.Context())
	ws, err := h.svc.Create(r.Context(), claims.Subject, claims.Email, req.Name)
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusCreated, ws)
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	list, err := h.svc.List(r.Context(), userID)
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	if list == nil {
		list = []workspace.Workspace{}
	}
	response.JSON(w, http.StatusOK, list)
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	ws, err := h.svc.Get(r.Context(), userID, chi.URLParam(r, "workspaceID"))
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusOK, ws)
}

func (h *handlers) rename(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, h.log, response.Validation("malformed request body"))
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	ws, err := h.svc.Rename(r.Context(), userID, chi.URLParam(r, "workspaceID"), req.Name)
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusOK, ws)
}

func (h *handlers) delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if err := h.svc.Delete(r.Context(), userID, chi.URLParam(r, "workspaceID")); err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type inviteRequest struct {
	UserID string         `json:"userId"`
	Email  string         `json:"email"`
	Role   workspace.Role `json:"role"`
}

func (h *handlers) invite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.Email == "" {
		response.Error(w, r, h.log, response.Validation("userId and email are required"))
		return
	}
	if req.Role == "" {
		req.Role = workspace.RoleMember
	}

	claims, _ := auth.ClaimsFromContext(r.Context())
	ws, err := h.svc.Invite(r.Context(), claims.Subject, claims.Name, chi.URLParam(r, "workspaceID"), req.UserID, req.Email, req.Role)
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusOK, ws)
}

func (h *handlers) acceptInvite(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	ws, err := h.svc.AcceptInvite(r.Context(), userID, chi.URLParam(r, "workspaceID"))
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusOK, ws)
}

func (h *handlers) removeCollaborator(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	ws, err := h.svc.RemoveCollaborator(r.Context(), userID, chi.URLParam(r, "workspaceID"), chi.URLParam(r, "userID"))
	if err != nil {
		response.Error(w, r, h.log, mapError(err))
		return
	}
	response.JSON(w, http.StatusOK, ws)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, workspace.ErrNotFound):
		return response.NewHTTPError(http.StatusNotFound, workspace.ErrNotFound.Error())
	case errors.Is(err, workspace.ErrMissingName), errors.Is(err, workspace.ErrInvalidRole):
		return response.Validation(err.Error())
	case errors.Is(err, workspace.ErrNotOwner):
		return response.NewHTTPError(http.StatusForbidden, workspace.ErrNotOwner.Error())
	case errors.Is(err, workspace.ErrLastWorkspace),
		errors.Is(err, workspace.ErrCannotRemoveOwner),
		errors.Is(err, workspace.ErrAlreadyCollaborator):
		return response.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, workspace.ErrNoInvite):
		return response.NewHTTPError(http.StatusNotFound, workspace.ErrNoInvite.Error())
	default:
		return err
	}
}
