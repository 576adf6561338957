package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fakeAnthropicServer(t *testing.T, handler http.HandlerFunc) *AnthropicModel {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &AnthropicModel{
		apiKey:     "sk-ant-test",
		baseURL:    srv.URL,
		model:      "claude-opus-4-20250514",
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestAnthropicLiftsSystemMessage(t *testing.T) {
	var gotReq anthropicRequest
	var gotKey, gotVersion string
	c := fakeAnthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte(`{"content":[{"type":"text","text":"hello from claude"}]}`))
	})
	msgs := []Message{
		{Role: "system", Content: "you are terse"},
		{Role: "user", Content: "hi"},
	}
	out, err := c.ChatCompletion(context.Background(), msgs, 0.7, 128)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if out != "hello from claude" {
		t.Fatalf("out=%q", out)
	}
	if gotReq.System != "you are terse" {
		t.Fatalf("system=%q", gotReq.System)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Fatalf("messages=%+v", gotReq.Messages)
	}
	if gotReq.MaxTokens != 128 {
		t.Fatalf("max_tokens=%d", gotReq.MaxTokens)
	}
	if gotKey != "sk-ant-test" || gotVersion != anthropicVersion {
		t.Fatalf("headers: key=%q version=%q", gotKey, gotVersion)
	}
}

func TestAnthropicErrorStatus(t *testing.T) {
	c := fakeAnthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})
	if _, err := c.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "hi"}}, 0.7, 64); err == nil {
		t.Fatal("expected error")
	}
}
