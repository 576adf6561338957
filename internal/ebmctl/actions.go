package ebmctl

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/rodrigocostacamargos/TalkToEBM/internal/describe"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/ebm"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/llm"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/registry"
)

func fnKeys() error {
	keys := llm.CheckKeys()
	providers := make([]string, 0, len(keys))
	for p := range keys {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	for _, p := range providers {
		state := "missing"
		if keys[p] {
			state = "configured"
		}
		fmt.Printf("%-12s %s\n", p, state)
	}
	return nil
}

func fnModels(cfg *Config) error {
	fmt.Println("chat models:")
	for _, m := range llm.AvailableModels() {
		mark := " "
		if m.Available {
			mark = "*"
		}
		fmt.Printf("  %s %-28s %-10s %s\n", mark, m.ID, m.Provider, m.DisplayName)
	}
	files, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", cfg.ModelsDir, err)
	}
	fmt.Printf("EBM model files in %s:\n", cfg.ModelsDir)
	if len(files) == 0 {
		fmt.Println("  (none)")
		return nil
	}
	for _, f := range files {
		fmt.Printf("  %-28s %s\n", f.ID, f.Path)
	}
	return nil
}

func loadModel(cfg *Config, id string) (*ebm.Model, error) {
	files, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", cfg.ModelsDir, err)
	}
	mf, ok := registry.Pick(files, id)
	if !ok {
		if id == "" {
			return nil, fmt.Errorf("no EBM model files in %s", cfg.ModelsDir)
		}
		return nil, fmt.Errorf("model file %q not found in %s", id, cfg.ModelsDir)
	}
	return ebm.Load(mf.Path)
}

func fnFeatures(cfg *Config, id string) error {
	model, err := loadModel(cfg, id)
	if err != nil {
		return err
	}
	fmt.Printf("%-4s %-30s %-12s %s\n", "#", "feature", "type", "importance")
	for i := 0; i < model.FeatureCount(); i++ {
		fmt.Printf("%-4d %-30s %-12s %.4f\n", i, model.FeatureNames[i], model.FeatureTypes[i], model.Importance(i))
	}
	return nil
}

func fnDescribe(cfg *Config, modelFile string, feature int, llmID, language, prompt string) error {
	model, err := loadModel(cfg, modelFile)
	if err != nil {
		return err
	}
	chat, err := llm.Setup(llmID)
	if err != nil {
		return err
	}
	desc := &describe.Describer{}
	if responses, err := llm.NewResponseCache(filepath.Join(cfg.CacheDir, "llm_responses"), 0); err == nil {
		desc.Responses = responses
	}
	if graphs, err := llm.NewGraphCache(filepath.Join(cfg.CacheDir, "graphs")); err == nil {
		desc.Graphs = graphs
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := describe.Options{CustomPrompt: prompt, Language: language}
	var out string
	if feature >= 0 {
		out, err = desc.DescribeGraph(ctx, chat, model, feature, opts)
	} else {
		out, err = desc.DescribeModel(ctx, chat, model, opts)
	}
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func fnCacheStats(cfg *Config) error {
	responses, err := llm.NewResponseCache(filepath.Join(cfg.CacheDir, "llm_responses"), 0)
	if err != nil {
		return err
	}
	graphs, err := llm.NewGraphCache(filepath.Join(cfg.CacheDir, "graphs"))
	if err != nil {
		return err
	}
	rs, err := responses.Stats()
	if err != nil {
		return err
	}
	gs, err := graphs.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("responses: %d entries, %d bytes\n", rs.Count, rs.SizeBytes)
	fmt.Printf("graphs:    %d entries, %d bytes\n", gs.Count, gs.SizeBytes)
	return nil
}

func fnCacheClear(cfg *Config) error {
	responses, err := llm.NewResponseCache(filepath.Join(cfg.CacheDir, "llm_responses"), 0)
	if err != nil {
		return err
	}
	graphs, err := llm.NewGraphCache(filepath.Join(cfg.CacheDir, "graphs"))
	if err != nil {
		return err
	}
	if err := responses.Clear(); err != nil {
		return err
	}
	if err := graphs.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "caches cleared")
	return nil
}
