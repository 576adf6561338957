// Package ebmctl implements the command tree of the ebmctl utility: local
// inspection of EBM model files and direct LLM describes without a server.
package ebmctl

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rodrigocostacamargos/TalkToEBM/internal/config"
)

// Config carries the persistent flag values shared by all subcommands.
type Config struct {
	ModelsDir string
	CacheDir  string
}

func buildRootCmd() *cobra.Command { return buildRootCmdWith(&Config{ModelsDir: "./models", CacheDir: "./cache"}) }

// buildRootCmdWith constructs the Cobra command tree wired to the fn* actions.
func buildRootCmdWith(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "ebmctl",
		Short:         "Inspect EBM model files and describe them with LLMs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("models-dir", cfg.ModelsDir, "Directory with *.json EBM model files (defaults EBMD_MODELS_DIR or ./models)")
	root.PersistentFlags().String("cache-dir", cfg.CacheDir, "Directory for LLM response caches (defaults EBMD_CACHE_DIR or ./cache)")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if f := cmd.InheritedFlags().Lookup("models-dir"); f != nil && f.Value.String() != "" {
			cfg.ModelsDir = f.Value.String()
		}
		if f := cmd.InheritedFlags().Lookup("cache-dir"); f != nil && f.Value.String() != "" {
			cfg.CacheDir = f.Value.String()
		}
	}

	keysCmd := &cobra.Command{Use: "keys", Short: "Show which provider API keys are configured", RunE: func(cmd *cobra.Command, args []string) error { return fnKeys() }}
	root.AddCommand(keysCmd)

	modelsCmd := &cobra.Command{Use: "models", Short: "List chat models and local EBM model files", RunE: func(cmd *cobra.Command, args []string) error { return fnModels(cfg) }}
	root.AddCommand(modelsCmd)

	featuresCmd := &cobra.Command{Use: "features", Short: "List features of an EBM model file", Example: "  ebmctl features\n  ebmctl features ebm_desempenho"}
	featuresCmd.RunE = func(cmd *cobra.Command, args []string) error {
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		return fnFeatures(cfg, id)
	}
	root.AddCommand(featuresCmd)

	describeCmd := &cobra.Command{Use: "describe", Short: "Describe a feature graph or the whole model with an LLM", Example: "  ebmctl describe --feature 0\n  ebmctl describe --llm gpt-5.1 --language English"}
	describeCmd.Flags().String("model-file", "", "EBM model file id (default: first found)")
	describeCmd.Flags().Int("feature", -1, "Feature index to describe (omit for whole-model description)")
	describeCmd.Flags().String("llm", "deepseek-chat", "Chat model id")
	describeCmd.Flags().String("language", "", "Answer language")
	describeCmd.Flags().String("prompt", "", "Custom question about the graph")
	describeCmd.RunE = func(cmd *cobra.Command, args []string) error {
		modelFile, _ := cmd.Flags().GetString("model-file")
		feature, _ := cmd.Flags().GetInt("feature")
		llmID, _ := cmd.Flags().GetString("llm")
		language, _ := cmd.Flags().GetString("language")
		prompt, _ := cmd.Flags().GetString("prompt")
		return fnDescribe(cfg, modelFile, feature, llmID, language, prompt)
	}
	root.AddCommand(describeCmd)

	cacheCmd := &cobra.Command{Use: "cache", Short: "Manage the on-disk LLM caches", RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("cache requires a subcommand: stats|clear")
	}}
	cacheStats := &cobra.Command{Use: "stats", Short: "Show cache entry counts and sizes", RunE: func(cmd *cobra.Command, args []string) error { return fnCacheStats(cfg) }}
	cacheClear := &cobra.Command{Use: "clear", Short: "Delete all cached responses and graphs", RunE: func(cmd *cobra.Command, args []string) error { return fnCacheClear(cfg) }}
	cacheCmd.AddCommand(cacheStats, cacheClear)
	root.AddCommand(cacheCmd)

	return root
}

// Main is the entry point used by cmd/ebmctl.
func Main() int {
	_ = config.LoadDotEnv(".env")
	cfg := &Config{
		ModelsDir: envOr("EBMD_MODELS_DIR", "./models"),
		CacheDir:  envOr("EBMD_CACHE_DIR", "./cache"),
	}
	root := buildRootCmdWith(cfg)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
