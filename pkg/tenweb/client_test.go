package tenweb_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdashhq/webdash/pkg/response"
	"github.com/webdashhq/webdash/pkg/tenweb"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *tenweb.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := tenweb.NewClient(tenweb.Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Region:  "europe-west3-a",
	}, srv.Client())
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	_, err := tenweb.NewClient(tenweb.Config{}, nil)
	assert.ErrorIs(t, err, tenweb.ErrAPIKeyRequired)
}

func TestClient_CreateWebsite(t *testing.T) {
	t.Parallel()

	t.Run("sends key and default region", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/hosting/website", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

			var params tenweb.CreateWebsiteParams
			require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
			assert.Equal(t, "my-site", params.Subdomain)
			assert.Equal(t, "europe-west3-a", params.Region)

			_ = json.NewEncoder(w).Encode(map[string]any{
				"data": map[string]any{"domain_id": 4211, "site_url": "https://my-site.10web.site"},
			})
		})

		site, err := client.CreateWebsite(context.Background(), tenweb.CreateWebsiteParams{
			Subdomain: "my-site",
			SiteTitle: "My Site",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4211), site.DomainID)
		assert.Equal(t, "https://my-site.10web.site", site.SiteURL)
	})

	t.Run("upstream failure passes status through", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":"subdomain already taken"}`))
		})

		_, err := client.CreateWebsite(context.Background(), tenweb.CreateWebsiteParams{Subdomain: "taken"})
		require.Error(t, err)

		var upErr response.UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, http.StatusUnprocessableEntity, upErr.Status)
		assert.Equal(t, "subdomain already taken", upErr.Message)
		assert.Equal(t, "10web", upErr.Service)
	})

	t.Run("unparseable upstream body yields generic message", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>gateway error</html>"))
		})

		_, err := client.CreateWebsite(context.Background(), tenweb.CreateWebsiteParams{Subdomain: "x"})
		var upErr response.UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, "website provider request failed", upErr.Message)
	})
}

func TestClient_GenerationProgress(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ai/generate_site_progress/4211", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"status": "in_progress", "progress": 65},
		})
	})

	progress, err := client.GenerationProgress(context.Background(), 4211)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", progress.Status)
	assert.Equal(t, 65, progress.Progress)
}

func TestClient_DeleteWebsite(t *testing.T) {
	t.Parallel()

	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.DeleteWebsite(context.Background(), 4211))
	assert.Equal(t, "/hosting/websites/4211", gotPath)
}
