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
)

const (
	openaiBaseURL   = "https://api.openai.com/v1"
	deepseekBaseURL = "https://api.deepseek.com/v1"
)

// OpenAICompatModel talks to any endpoint that speaks the OpenAI chat
// completions wire format. DeepSeek is the same protocol on another host.
type OpenAICompatModel struct {
	provider   string
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenAIModel creates a client for the OpenAI API.
func NewOpenAIModel(apiKey, model string) *OpenAICompatModel {
	return &OpenAICompatModel{
		provider:   ProviderOpenAI,
		apiKey:     apiKey,
		baseURL:    openaiBaseURL,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// NewDeepSeekModel creates a client for the DeepSeek API.
func NewDeepSeekModel(apiKey, model string) *OpenAICompatModel {
	return &OpenAICompatModel{
		provider:   ProviderDeepSeek,
		apiKey:     apiKey,
		baseURL:    deepseekBaseURL,
		model:      model,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

func (c *OpenAICompatModel) Name() string {
	switch c.provider {
	case ProviderDeepSeek:
		return fmt.Sprintf("DeepSeek(%s)", c.model)
	default:
		return fmt.Sprintf("OpenAI(%s)", c.model)
	}
}

type chatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	// Omitted when nil so models that only accept the default still work.
	Temperature         *float64 `json:"temperature,omitempty"`
	MaxCompletionTokens int      `json:"max_completion_tokens,omitempty"`
	MaxTokens           int      `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Err struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
		Param   string `json:"param"`
	} `json:"error"`
}

// ChatCompletion calls the chat completions endpoint. Newer models take
// max_completion_tokens and reject max_tokens, older ones the other way
// round; some reject non-default temperatures. On such 400s the call is
// retried once with the other parameter form.
func (c *OpenAICompatModel) ChatCompletion(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	temp := &temperature
	resp, err := c.send(ctx, messages, temp, maxTokens, true)
	if badReq, ok := err.(*badRequestError); ok {
		switch {
		case badReq.code == "unsupported_parameter" && strings.Contains(badReq.param+badReq.message, "max_tokens"):
			resp, err = c.send(ctx, messages, temp, maxTokens, false)
		case badReq.code == "unsupported_value" && strings.Contains(badReq.param+badReq.message, "temperature"):
			resp, err = c.send(ctx, messages, nil, maxTokens, true)
		}
	}
	if err != nil {
		return "", err
	}
	return resp, nil
}

type badRequestError struct {
	message string
	code    string
	param   string
}

func (e *badRequestError) Error() string {
	return fmt.Sprintf("bad request (%s): %s", e.code, e.message)
}

func (c *OpenAICompatModel) send(ctx context.Context, messages []Message, temperature *float64, maxTokens int, useCompletionTokens bool) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	}
	if useCompletionTokens {
		reqBody.MaxCompletionTokens = maxTokens
	} else {
		reqBody.MaxTokens = maxTokens
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeCall(c.provider, c.model, "error", time.Since(start))
		return "", fmt.Errorf("calling %s: %w", c.provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observeCall(c.provider, c.model, "error", time.Since(start))
		return "", fmt.Errorf("reading %s response: %w", c.provider, err)
	}
	if resp.StatusCode == http.StatusBadRequest {
		var apiErr apiError
		_ = json.Unmarshal(body, &apiErr)
		observeCall(c.provider, c.model, "bad_request", time.Since(start))
		return "", &badRequestError{message: apiErr.Err.Message, code: apiErr.Err.Code, param: apiErr.Err.Param}
	}
	if resp.StatusCode != http.StatusOK {
		observeCall(c.provider, c.model, fmt.Sprintf("http_%d", resp.StatusCode), time.Since(start))
		return "", fmt.Errorf("%s API status %d: %s", c.provider, resp.StatusCode, truncate(string(body), 200))
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		observeCall(c.provider, c.model, "error", time.Since(start))
		return "", fmt.Errorf("parsing %s response: %w", c.provider, err)
	}
	observeCall(c.provider, c.model, "ok", time.Since(start))
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
