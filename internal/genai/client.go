// Package genai is the generative backend boundary: a thin client for an
// OpenAI-compatible chat completions endpoint, configured for
// deterministic sampling and a JSON-schema constrained response.
package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/dt-pm-tools/ticket2task/internal/config"
)

// Client calls the chat completions endpoint.
type Client struct {
	http  *resty.Client
	model string
}

// NewClient creates a backend client from the given config. The config
// must already pass ValidateGenAI.
func NewClient(cfg config.GenAIConfig) *Client {
	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &Client{http: http, model: cfg.Model}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema schemaSpec `json:"json_schema"`
}

type schemaSpec struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends the instruction with the schema constraint and returns
// the raw message content. Sampling temperature is pinned to 0; non-2xx
// responses and empty choice lists are errors.
func (c *Client) Generate(ctx context.Context, instruction string, schema json.RawMessage) ([]byte, error) {
	payload := chatRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []chatMessage{
			{Role: "user", Content: instruction},
		},
		ResponseFormat: &responseFormat{
			Type:       "json_schema",
			JSONSchema: schemaSpec{Name: "task", Strict: true, Schema: schema},
		},
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("generative backend returned %d: %s", resp.StatusCode(), resp.String())
	}

	var chat chatResponse
	if err := json.Unmarshal(resp.Body(), &chat); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("empty choices in backend response")
	}

	return []byte(chat.Choices[0].Message.Content), nil
}
