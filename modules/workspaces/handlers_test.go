package workspaces_test

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

	workspacesmodule "github.com/webdashhq/webdash/modules/workspaces"
	"github.com/webdashhq/webdash/pkg/auth"
	"github.com/webdashhq/webdash/pkg/email"
	"github.com/webdashhq/webdash/pkg/workspace"
)

type noopMailer struct{}

func (noopMailer) Send(context.Context, email.Message) error { return nil }

func newRouter(t *testing.T) (http.Handler, workspace.Store) {
	t.Helper()
	store := workspace.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := workspace.NewService(store, noopMailer{}, workspace.Config{
		InviteAcceptURL: "https://app.test/invites",
	}, log)
	return workspacesmodule.Router(svc, log), store
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

func createWorkspace(t *testing.T, handler http.Handler, ownerID, name string) workspace.Workspace {
	t.Helper()
	rec := doRequest(t, handler, http.MethodPost, "/", `{"name":"`+name+`"}`,
		&auth.Claims{Subject: ownerID, Email: ownerID + "@test.dev"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var ws workspace.Workspace
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ws))
	return ws
}

func TestCreateAndList(t *testing.T) {
	t.Parallel()

	t.Run("creates workspace with owner collaborator", func(t *testing.T) {
		t.Parallel()
		router, _ := newRouter(t)

		ws := createWorkspace(t, router, "owner-1", "Acme")
		assert.Equal(t, "owner-1", ws.OwnerID)
		require.Len(t, ws.Collaborators, 1)
		assert.Equal(t, workspace.RoleOwner, ws.Collaborators[0].Role)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		t.Parallel()
		router, _ := newRouter(t)

		rec := doRequest(t, router, http.MethodPost, "/", `{"name":""}`, &auth.Claims{Subject: "owner-1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list returns empty array not null", func(t *testing.T) {
		t.Parallel()
		router, _ := newRouter(t)

		rec := doRequest(t, router, http.MethodGet, "/", "", &auth.Claims{Subject: "nobody"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestGet(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(t)
	ws := createWorkspace(t, router, "owner-1", "Acme")

	t.Run("member sees the workspace", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/"+ws.ID, "", &auth.Claims{Subject: "owner-1"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("outsider gets 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/"+ws.ID, "", &auth.Claims{Subject: "stranger"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()

	t.Run("last workspace cannot be deleted", func(t *testing.T) {
		t.Parallel()
		router, _ := newRouter(t)
		ws := createWorkspace(t, router, "owner-1", "Only")

		rec := doRequest(t, router, http.MethodDelete, "/"+ws.ID, "", &auth.Claims{Subject: "owner-1"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("deletes when another workspace remains", func(t *testing.T) {
		t.Parallel()
		router, _ := newRouter(t)
		first := createWorkspace(t, router, "owner-1", "First")
		createWorkspace(t, router, "owner-1", "Second")

		rec := doRequest(t, router, http.MethodDelete, "/"+first.ID, "", &auth.Claims{Subject: "owner-1"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"deleted":true}`, rec.Body.String())
	})
}

func TestInviteFlow(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(t)
	ws := createWorkspace(t, router, "owner-1", "Acme")
	owner := &auth.Claims{Subject: "owner-1", Name: "Olivia"}

	t.Run("invite adds pending collaborator", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/"+ws.ID+"/collaborators",
			`{"userId":"user-2","email":"u2@test.dev","role":"member"}`, owner)
		require.Equal(t, http.StatusOK, rec.Code)

		var got workspace.Workspace
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got.Collaborators, 2)
		assert.Equal(t, workspace.StatusPending, got.Collaborators[1].Status)
	})

	t.Run("duplicate invite conflicts", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/"+ws.ID+"/collaborators",
			`{"userId":"user-2","email":"u2@test.dev"}`, owner)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("owner role cannot be granted", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/"+ws.ID+"/collaborators",
			`{"userId":"user-3","email":"u3@test.dev","role":"owner"}`, owner)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invitee accepts", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/"+ws.ID+"/collaborators/accept", "",
			&auth.Claims{Subject: "user-2"})
		require.Equal(t, http.StatusOK, rec.Code)

		var got workspace.Workspace
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, workspace.StatusActive, got.Collaborators[1].Status)
	})

	t.Run("accept without invite yields 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/"+ws.ID+"/collaborators/accept", "",
			&auth.Claims{Subject: "user-9"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRemoveCollaborator(t *testing.T) {
	t.Parallel()

	router, _ := newRouter(t)
	ws := createWorkspace(t, router, "owner-1", "Acme")
	owner := &auth.Claims{Subject: "owner-1", Name: "Olivia"}

	rec := doRequest(t, router, http.MethodPost, "/"+ws.ID+"/collaborators",
		`{"userId":"user-2","email":"u2@test.dev"}`, owner)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("owner cannot be removed", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodDelete, "/"+ws.ID+"/collaborators/owner-1", "", owner)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("owner removes collaborator", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodDelete, "/"+ws.ID+"/collaborators/user-2", "", owner)
		require.Equal(t, http.StatusOK, rec.Code)

		var got workspace.Workspace
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, workspace.StatusInactive, got.Collaborators[1].Status)
	})
}
