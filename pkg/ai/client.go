package ai

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

const (
	// DefaultModel balances output quality and cost for short copy blocks.
	DefaultModel = "gpt-4o-mini"

	defaultTimeout       = 30 * time.Second
	defaultMaxTokens     = 512
	completionsURLSuffix = "/v1/chat/completions"
)

// Config is loaded from the environment by pkg/config.
type Config struct {
	BaseURL string `env:"OPENAI_API_URL" envDefault:"https://api.openai.com"`
	APIKey  string `env:"OPENAI_API_KEY,required"`
	Model   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
}

// Client proxies chat completions to OpenAI for website copy suggestions.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewClient creates an OpenAI completions client.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   model,
		client:  httpClient,
	}, nil
}

// CompletionRequest is the shaped subset of parameters the proxy accepts.
type CompletionRequest struct {
	Prompt    string `json:"prompt"`
	Context   string `json:"context,omitempty"` // page or section the copy is for
	MaxTokens int    `json:"maxTokens,omitempty"`
}

// Completion is the generated copy suggestion.
type Completion struct {
	Text string `json:"text"`
}

// Complete requests a single copy suggestion for the given prompt.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	if req.Prompt == "" {
		return nil, ErrEmptyPrompt
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 || maxTokens > 2048 {
		maxTokens = defaultMaxTokens
	}

	messages := []chatMessage{
		{Role: "system", Content: "You write concise website copy. Respond with the copy only, no preamble."},
	}
	if req.Context != "" {
		messages = append(messages, chatMessage{Role: "system", Content: "Page context: " + req.Context})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsURLSuffix, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, response.UpstreamError{
			Service: "openai",
			Status:  resp.StatusCode,
			Message: upstreamMessage(data),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, ErrNoCompletion
	}
	return &Completion{Text: parsed.Choices[0].Message.Content}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func upstreamMessage(data []byte) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return "completion provider request failed"
}
