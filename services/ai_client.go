package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/lifetrack/lifetrack-api/config"
)

// ErrNoAPIKey means no model credential is configured; callers treat it the
// same as a remote failure and serve a fallback payload.
var ErrNoAPIKey = errors.New("ANTHROPIC_API_KEY not set")

// AIClient talks to the Anthropic Messages API. The HTTP client carries an
// explicit timeout; a timed-out call is just the failure branch upstream.
type AIClient struct {
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

type aiRequest struct {
	Model     string      `json:"model"`
	MaxTokens int         `json:"max_tokens"`
	System    string      `json:"system,omitempty"`
	Messages  []aiMessage `json:"messages"`
}

type aiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type aiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model string `json:"model"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func NewAIClient(cfg *config.Config) *AIClient {
	return &AIClient{
		apiKey:     cfg.AnthropicAPIKey,
		model:      cfg.AIModel,
		maxTokens:  cfg.AIMaxTokens,
		httpClient: &http.Client{Timeout: cfg.AITimeout},
	}
}

// Generate sends a single-turn prompt and returns the model's text.
func (c *AIClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	requestBody := aiRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    system,
		Messages: []aiMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		"https://api.anthropic.com/v1/messages",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed aiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	return parsed.Content[0].Text, nil
}
