package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/seenimoa/findigest/internal/config"
)

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	name        string
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom base URL. An empty value keeps the
// default, so unset config fields never blank the endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithModel sets the default model. An empty value keeps the default.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the DeepSeek chat completions API.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	c := &Client{
		name:        "deepseek",
		apiKey:      apiKey,
		baseURL:     "https://api.deepseek.com/v1",
		model:       "deepseek-chat",
		temperature: 0.3,
		maxTokens:   4096,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FromConfig creates a client from the loaded configuration.
func FromConfig(cfg config.LLMConfig) (*Client, error) {
	c, err := New(cfg.APIKey, WithBaseURL(cfg.BaseURL), WithModel(cfg.Model))
	if err != nil {
		return nil, err
	}
	if cfg.Temperature > 0 {
		c.temperature = cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		c.maxTokens = cfg.MaxTokens
	}
	if cfg.TimeoutSec > 0 {
		c.httpClient.Timeout = time.Duration(cfg.TimeoutSec) * time.Second
	}
	return c, nil
}

func (c *Client) Name() string { return c.name }

// Ping verifies the API key by listing models.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: invalid API key", ErrNoAPIKey)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrProviderDown, resp.StatusCode)
	}
	return nil
}

// Chat sends a chat completion request.
func (c *Client) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	start := time.Now()
	model := c.model
	if opts != nil && opts.Model != "" {
		model = opts.Model
	}

	body := c.buildRequest(messages, model, opts)
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("llm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderDown, err)
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return nil, err
	}

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("llm: decode response: %w", err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return nil, ErrEmptyResponse
	}

	choice := result.Choices[0]
	return &Response{
		Content:      choice.Message.Content,
		FinishReason: mapFinishReason(choice.FinishReason),
		Model:        result.Model,
		Latency:      time.Since(start),
		Usage: Usage{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
		},
	}, nil
}

// ── Internal Types ──

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
	Model   string       `json:"model"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      wireMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// ── Helpers ──

func (c *Client) buildRequest(messages []Message, model string, opts *ChatOptions) chatRequest {
	r := chatRequest{Model: model}
	r.Messages = make([]wireMessage, len(messages))
	for i, m := range messages {
		r.Messages[i] = wireMessage{Role: string(m.Role), Content: m.Content}
	}

	temperature := c.temperature
	maxTokens := c.maxTokens
	if opts != nil {
		if opts.Temperature > 0 {
			temperature = opts.Temperature
		}
		if opts.MaxTokens > 0 {
			maxTokens = opts.MaxTokens
		}
		r.Stop = opts.Stop
	}
	if temperature > 0 {
		r.Temperature = &temperature
	}
	if maxTokens > 0 {
		r.MaxTokens = &maxTokens
	}
	return r
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr errorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", ErrNoAPIKey, apiErr.Error.Message)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", ErrRateLimit, apiErr.Error.Message)
		case http.StatusBadRequest:
			if strings.Contains(apiErr.Error.Code, "context_length") {
				return fmt.Errorf("%w: %s", ErrContextLength, apiErr.Error.Message)
			}
			if strings.Contains(apiErr.Error.Code, "model_not_found") {
				return fmt.Errorf("%w: %s", ErrInvalidModel, apiErr.Error.Message)
			}
		}
		return fmt.Errorf("llm: API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("llm: HTTP %d: %s", resp.StatusCode, string(body))
}

func mapFinishReason(reason string) FinishReason {
	switch reason {
	case "length":
		return FinishLength
	default:
		return FinishStop
	}
}
