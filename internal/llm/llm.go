package llm

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/rodrigocostacamargos/TalkToEBM/pkg/types"
)

// Message is a single chat turn in the OpenAI wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatModel is the minimal interface a chat backend must implement.
type ChatModel interface {
	// ChatCompletion sends the messages and returns the completion text.
	ChatCompletion(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error)
	// Name identifies the backend, e.g. "DeepSeek(deepseek-chat)".
	Name() string
}

// Provider identifiers used in the catalog.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderDeepSeek  = "deepseek"
)

type catalogEntry struct {
	Provider    string
	DisplayName string
	Speed       string
}

// catalog lists the chat models the describe endpoints accept.
var catalog = map[string]catalogEntry{
	"gpt-5.1":                {Provider: ProviderOpenAI, DisplayName: "GPT-5.1", Speed: "fast"},
	"claude-opus-4-20250514": {Provider: ProviderAnthropic, DisplayName: "Claude Opus 4", Speed: "slow"},
	"deepseek-chat":          {Provider: ProviderDeepSeek, DisplayName: "DeepSeek Chat", Speed: "slow"},
	"deepseek-coder":         {Provider: ProviderDeepSeek, DisplayName: "DeepSeek Coder", Speed: "slow"},
}

// KeyNotConfiguredError reports a provider whose API key env var is unset.
type KeyNotConfiguredError struct {
	Provider string
	EnvVar   string
}

func (e KeyNotConfiguredError) Error() string {
	return fmt.Sprintf("%s API key not configured: set %s", e.Provider, e.EnvVar)
}

// IsKeyNotConfigured reports whether err indicates a missing API key.
func IsKeyNotConfigured(err error) bool {
	_, ok := err.(KeyNotConfiguredError)
	return ok
}

// UnknownModelError reports a model id absent from the catalog.
type UnknownModelError struct{ ID string }

func (e UnknownModelError) Error() string {
	return fmt.Sprintf("unsupported chat model %q", e.ID)
}

// IsUnknownModel reports whether err indicates an unsupported model id.
func IsUnknownModel(err error) bool {
	_, ok := err.(UnknownModelError)
	return ok
}

func openaiKey() string   { return os.Getenv("OPENAI_API_KEY") }
func deepseekKey() string { return os.Getenv("DEEPSEEK_API_KEY") }

func anthropicKey() string {
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		return k
	}
	return os.Getenv("CLAUDE_API_KEY")
}

// Setup builds a client for a catalog model id, reading the provider API
// key from the environment.
func Setup(modelID string) (ChatModel, error) {
	entry, ok := catalog[modelID]
	if !ok {
		return nil, UnknownModelError{ID: modelID}
	}
	switch entry.Provider {
	case ProviderOpenAI:
		k := openaiKey()
		if k == "" {
			return nil, KeyNotConfiguredError{Provider: ProviderOpenAI, EnvVar: "OPENAI_API_KEY"}
		}
		return NewOpenAIModel(k, modelID), nil
	case ProviderAnthropic:
		k := anthropicKey()
		if k == "" {
			return nil, KeyNotConfiguredError{Provider: ProviderAnthropic, EnvVar: "ANTHROPIC_API_KEY"}
		}
		return NewAnthropicModel(k, modelID), nil
	case ProviderDeepSeek:
		k := deepseekKey()
		if k == "" {
			return nil, KeyNotConfiguredError{Provider: ProviderDeepSeek, EnvVar: "DEEPSEEK_API_KEY"}
		}
		return NewDeepSeekModel(k, modelID), nil
	}
	return nil, UnknownModelError{ID: modelID}
}

// CheckKeys reports which provider API keys are configured.
func CheckKeys() map[string]bool {
	return map[string]bool{
		ProviderOpenAI:    openaiKey() != "",
		ProviderAnthropic: anthropicKey() != "",
		ProviderDeepSeek:  deepseekKey() != "",
	}
}

// AvailableModels returns the catalog with per-model availability, sorted
// by model id for stable output.
func AvailableModels() []types.LLMModel {
	keys := CheckKeys()
	out := make([]types.LLMModel, 0, len(catalog))
	for id, e := range catalog {
		out = append(out, types.LLMModel{
			ID:          id,
			Provider:    e.Provider,
			DisplayName: e.DisplayName,
			Speed:       e.Speed,
			Available:   keys[e.Provider],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SeqMessage is one turn of a conversation plan. Assistant turns with
// empty content are completions to be filled by ExecuteSequence; their
// Temperature and MaxTokens control the call.
type SeqMessage struct {
	Role        string
	Content     string
	Temperature float64
	MaxTokens   int
}

// ExecuteSequence walks a planned conversation and fills every empty
// assistant turn by calling the model with the preceding turns as context.
// When cache is non-nil, completions are read from and written to it.
func ExecuteSequence(ctx context.Context, model ChatModel, cache *ResponseCache, msgs []SeqMessage) ([]SeqMessage, error) {
	out := append([]SeqMessage(nil), msgs...)
	for i := range out {
		if out[i].Role != "assistant" || out[i].Content != "" {
			continue
		}
		history := make([]Message, 0, i)
		for _, m := range out[:i] {
			history = append(history, Message{Role: m.Role, Content: m.Content})
		}
		temp := out[i].Temperature
		maxTok := out[i].MaxTokens
		if maxTok == 0 {
			maxTok = 1000
		}
		if cache != nil {
			if resp, ok := cache.Get(model.Name(), history, temp, maxTok); ok {
				out[i].Content = resp
				continue
			}
		}
		resp, err := model.ChatCompletion(ctx, history, temp, maxTok)
		if err != nil {
			return nil, err
		}
		out[i].Content = resp
		if cache != nil && resp != "" {
			cache.Set(model.Name(), history, resp, temp, maxTok)
		}
	}
	return out, nil
}
