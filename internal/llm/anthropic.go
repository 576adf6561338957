package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	anthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion = "2023-06-01"
)

// AnthropicModel talks to the Anthropic messages API.
type AnthropicModel struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewAnthropicModel creates a client for the Anthropic API.
func NewAnthropicModel(apiKey, model string) *AnthropicModel {
	return &AnthropicModel{
		apiKey:     apiKey,
		baseURL:    anthropicBaseURL,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *AnthropicModel) Name() string { return fmt.Sprintf("Anthropic(%s)", c.model) }

type anthropicRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// ChatCompletion converts OpenAI-format messages to the Anthropic shape:
// system turns move into the top-level system field.
func (c *AnthropicModel) ChatCompletion(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	reqBody := anthropicRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	}
	for _, m := range messages {
		if m.Role == "system" {
			reqBody.System = m.Content
			continue
		}
		reqBody.Messages = append(reqBody.Messages, m)
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeCall(ProviderAnthropic, c.model, "error", time.Since(start))
		return "", fmt.Errorf("calling anthropic: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observeCall(ProviderAnthropic, c.model, "error", time.Since(start))
		return "", fmt.Errorf("reading anthropic response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		observeCall(ProviderAnthropic, c.model, fmt.Sprintf("http_%d", resp.StatusCode), time.Since(start))
		return "", fmt.Errorf("anthropic API status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		observeCall(ProviderAnthropic, c.model, "error", time.Since(start))
		return "", fmt.Errorf("parsing anthropic response: %w", err)
	}
	observeCall(ProviderAnthropic, c.model, "ok", time.Since(start))
	if len(parsed.Content) == 0 {
		return "", nil
	}
	return parsed.Content[0].Text, nil
}
