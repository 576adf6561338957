package llm

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CacheStats summarizes the contents of a file cache.
type CacheStats struct {
	Count     int   `json:"count"`
	SizeBytes int64 `json:"size_bytes"`
}

// ResponseCache stores chat completions on disk so repeated describe
// requests do not hit the provider API again. Entries expire after TTL.
type ResponseCache struct {
	dir string
	ttl time.Duration
}

// NewResponseCache creates (and mkdirs) a response cache under dir.
func NewResponseCache(dir string, ttl time.Duration) (*ResponseCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ResponseCache{dir: dir, ttl: ttl}, nil
}

type responseEntry struct {
	Model       string    `json:"model"`
	Response    string    `json:"response"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Timestamp   time.Time `json:"timestamp"`
}

func (c *ResponseCache) key(model string, messages []Message, temperature float64, maxTokens int) string {
	return hashKey(map[string]any{
		"model":       model,
		"messages":    messages,
		"temperature": temperature,
		"max_tokens":  maxTokens,
	})
}

// Get returns a cached completion if present and not expired.
func (c *ResponseCache) Get(model string, messages []Message, temperature float64, maxTokens int) (string, bool) {
	path := filepath.Join(c.dir, c.key(model, messages, temperature, maxTokens)+".json")
	b, err := os.ReadFile(path)
	if err != nil {
		observeCache("response", false)
		return "", false
	}
	var e responseEntry
	if err := json.Unmarshal(b, &e); err != nil {
		observeCache("response", false)
		return "", false
	}
	if time.Since(e.Timestamp) > c.ttl {
		_ = os.Remove(path)
		observeCache("response", false)
		return "", false
	}
	observeCache("response", true)
	return e.Response, true
}

// Set stores a completion.
func (c *ResponseCache) Set(model string, messages []Message, response string, temperature float64, maxTokens int) {
	e := responseEntry{
		Model:       model,
		Response:    response,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Timestamp:   time.Now(),
	}
	writeEntry(filepath.Join(c.dir, c.key(model, messages, temperature, maxTokens)+".json"), e)
}

// Clear removes all cached completions.
func (c *ResponseCache) Clear() error { return clearDir(c.dir) }

// Stats reports entry count and total size.
func (c *ResponseCache) Stats() (CacheStats, error) { return dirStats(c.dir) }

// GraphCache stores rendered graph text keyed by a model fingerprint,
// feature index and render parameters. Graph renderings never go stale
// for a given model file, so there is no TTL.
type GraphCache struct {
	dir string
}

// NewGraphCache creates (and mkdirs) a graph text cache under dir.
func NewGraphCache(dir string) (*GraphCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &GraphCache{dir: dir}, nil
}

type graphEntry struct {
	Fingerprint  string `json:"fingerprint"`
	FeatureIndex int    `json:"feature_index"`
	MaxTokens    int    `json:"max_tokens"`
	GraphText    string `json:"graph_text"`
}

func (c *GraphCache) key(fingerprint string, featureIndex, maxTokens int) string {
	return hashKey(map[string]any{
		"fingerprint":   fingerprint,
		"feature_index": featureIndex,
		"max_tokens":    maxTokens,
	})
}

// Get returns cached graph text if present.
func (c *GraphCache) Get(fingerprint string, featureIndex, maxTokens int) (string, bool) {
	b, err := os.ReadFile(filepath.Join(c.dir, c.key(fingerprint, featureIndex, maxTokens)+".json"))
	if err != nil {
		observeCache("graph", false)
		return "", false
	}
	var e graphEntry
	if err := json.Unmarshal(b, &e); err != nil {
		observeCache("graph", false)
		return "", false
	}
	observeCache("graph", true)
	return e.GraphText, true
}

// Set stores rendered graph text.
func (c *GraphCache) Set(fingerprint string, featureIndex, maxTokens int, graphText string) {
	e := graphEntry{
		Fingerprint:  fingerprint,
		FeatureIndex: featureIndex,
		MaxTokens:    maxTokens,
		GraphText:    graphText,
	}
	writeEntry(filepath.Join(c.dir, c.key(fingerprint, featureIndex, maxTokens)+".json"), e)
}

// Clear removes all cached graph renderings.
func (c *GraphCache) Clear() error { return clearDir(c.dir) }

// Stats reports entry count and total size.
func (c *GraphCache) Stats() (CacheStats, error) { return dirStats(c.dir) }

func hashKey(v any) string {
	b, _ := json.Marshal(v)
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

func writeEntry(path string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	// Best effort: a failed cache write only costs a future API call.
	_ = os.WriteFile(path, b, 0o644)
}

func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func dirStats(dir string) (CacheStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return CacheStats{}, err
	}
	var st CacheStats
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		st.Count++
		st.SizeBytes += info.Size()
	}
	return st, nil
}
