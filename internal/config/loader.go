package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr               string `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir          string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	DefaultModel       string `json:"default_model" yaml:"default_model" toml:"default_model"`
	LLMModel           string `json:"llm_model" yaml:"llm_model" toml:"llm_model"`
	Language           string `json:"language" yaml:"language" toml:"language"`
	DatasetDescription string `json:"dataset_description" yaml:"dataset_description" toml:"dataset_description"`
	GraphDescription   string `json:"graph_description" yaml:"graph_description" toml:"graph_description"`
	CacheDir           string `json:"cache_dir" yaml:"cache_dir" toml:"cache_dir"`
	CacheTTLHours      int    `json:"cache_ttl_hours" yaml:"cache_ttl_hours" toml:"cache_ttl_hours"`
	MaxFeatures        int    `json:"max_features" yaml:"max_features" toml:"max_features"`
	MaxQueueDepth      int    `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	MaxInflight        int    `json:"max_inflight" yaml:"max_inflight" toml:"max_inflight"`
	MaxWaitSeconds     int    `json:"max_wait_seconds" yaml:"max_wait_seconds" toml:"max_wait_seconds"`
	DescribeTimeoutSec int    `json:"describe_timeout_seconds" yaml:"describe_timeout_seconds" toml:"describe_timeout_seconds"`
	MaxBodyBytes       int64  `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`

	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
	CORSAllowedMethods []string `json:"cors_allowed_methods" yaml:"cors_allowed_methods" toml:"cors_allowed_methods"`
	CORSAllowedHeaders []string `json:"cors_allowed_headers" yaml:"cors_allowed_headers" toml:"cors_allowed_headers"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// LoadDotEnv reads KEY=VALUE pairs from path and sets them in the process
// environment. Variables that are already set are never overridden, so real
// environment always wins over the .env file. A missing file is not an error.
func LoadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		// Strip a single pair of matching quotes.
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return sc.Err()
}
