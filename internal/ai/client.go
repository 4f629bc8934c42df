// Package ai proxies household data through an external LLM gateway:
// recipe search, categorization, meal-plan generation, natural-language
// parsing and the other assistant functions. Responses are free text; the
// JSON payload is regex-extracted and parse failures degrade to static
// fallbacks, never hard errors.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Gateway errors distinguished by upstream HTTP status. Handlers map these
// to fixed Swedish user-facing messages with the matching status code.
var (
	ErrRateLimited     = errors.New("ai gateway rate limited")
	ErrPaymentRequired = errors.New("ai gateway credits exhausted")
)

// User-facing messages for gateway failures.
const (
	MsgRateLimited     = "För många förfrågningar just nu. Vänta en stund och försök igen."
	MsgPaymentRequired = "AI-tjänstens krediter är slut. Kontakta administratören."
	MsgGatewayError    = "Något gick fel med AI-tjänsten. Försök igen senare."
)

// Config holds AI gateway configuration from environment variables.
type Config struct {
	URL    string
	APIKey string
	Model  string
}

// Client calls the completion endpoint of the AI gateway.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = "default"
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether a gateway URL is set. Unconfigured instances
// run every function on its fallback path.
func (c *Client) Configured() bool {
	return c.cfg.URL != ""
}

type completionRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type completionResponse struct {
	Completion string `json:"completion"`
	Error      string `json:"error,omitempty"`
}

// Complete sends a prompt and returns the raw completion text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("ai gateway not configured")
	}

	body, err := json.Marshal(completionRequest{Model: c.cfg.Model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	case http.StatusPaymentRequired:
		return "", ErrPaymentRequired
	default:
		return "", fmt.Errorf("gateway returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var cr completionResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if cr.Error != "" {
		return "", fmt.Errorf("gateway error: %s", cr.Error)
	}
	return cr.Completion, nil
}
