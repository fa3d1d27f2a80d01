package tenweb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/webdashhq/webdash/pkg/response"
)

const defaultTimeout = 60 * time.Second

// Config is loaded from the environment by pkg/config.
type Config struct {
	BaseURL string `env:"TENWEB_API_URL" envDefault:"https://api.10web.io"`
	APIKey  string `env:"TENWEB_API_KEY,required"`
	Region  string `env:"TENWEB_REGION" envDefault:"europe-west3-a"` // Region is the hosting zone new sites are provisioned in.
}

// Client calls the 10Web hosting/AI API. Failures carry the upstream status
// code through so route handlers can pass it to the caller.
type Client struct {
	baseURL string
	apiKey  string
	region  string
	client  *http.Client
}

// NewClient creates a 10Web API client.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		region:  cfg.Region,
		client:  httpClient,
	}, nil
}

// CreateWebsiteParams shapes the hosting provision call.
type CreateWebsiteParams struct {
	Subdomain     string `json:"subdomain"`
	Region        string `json:"region,omitempty"`
	SiteTitle     string `json:"site_title"`
	AdminUsername string `json:"admin_username"`
	AdminPassword string `json:"admin_password"`
}

// Website is the provisioned site returned by the hosting API.
type Website struct {
	DomainID int64  `json:"domain_id"`
	SiteURL  string `json:"site_url"`
}

// CreateWebsite provisions an empty WordPress site on the given subdomain.
func (c *Client) CreateWebsite(ctx context.Context, params CreateWebsiteParams) (*Website, error) {
	if params.Region == "" {
		params.Region = c.region
	}

	var out struct {
		Data Website `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/hosting/website", params, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// GenerateParams shapes the AI site generation call.
type GenerateParams struct {
	DomainID            int64  `json:"domain_id"`
	BusinessType        string `json:"business_type"`
	BusinessName        string `json:"business_name"`
	BusinessDescription string `json:"business_description"`
}

// GenerateSite kicks off AI generation on a provisioned site. The call
// returns once generation is accepted; progress is polled separately.
func (c *Client) GenerateSite(ctx context.Context, params GenerateParams) error {
	return c.do(ctx, http.MethodPost, "/ai/generate_site_from_sitemap", params, nil)
}

// Progress is the generation status reported by the AI API.
type Progress struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

// GenerationProgress reports how far along the site generation is.
func (c *Client) GenerationProgress(ctx context.Context, domainID int64) (*Progress, error) {
	var out struct {
		Data Progress `json:"data"`
	}
	path := fmt.Sprintf("/ai/generate_site_progress/%d", domainID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// DeleteWebsite removes a provisioned site.
func (c *Client) DeleteWebsite(ctx context.Context, domainID int64) error {
	path := fmt.Sprintf("/hosting/websites/%d", domainID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return response.UpstreamError{
			Service: "10web",
			Status:  resp.StatusCode,
			Message: upstreamMessage(data),
		}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// upstreamMessage extracts the API's error text, falling back to a generic
// message so raw upstream bodies never reach clients.
func upstreamMessage(data []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return "website provider request failed"
}
