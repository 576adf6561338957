package ebmctl

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleEBM = `{
  "feature_names": ["var01"],
  "feature_types": ["continuous"],
  "terms": [{"edges": [0, 1, 2], "scores": [-0.5, 0.5], "importance": 0.3}]
}`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sample.json"), []byte(sampleEBM), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return dir
}

func TestLoadModelPicksFirst(t *testing.T) {
	cfg := &Config{ModelsDir: writeSample(t)}
	m, err := loadModel(cfg, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.FeatureCount() != 1 || m.FeatureNames[0] != "var01" {
		t.Fatalf("model=%+v", m)
	}
}

func TestLoadModelUnknownID(t *testing.T) {
	cfg := &Config{ModelsDir: writeSample(t)}
	if _, err := loadModel(cfg, "nope"); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestLoadModelEmptyDir(t *testing.T) {
	cfg := &Config{ModelsDir: t.TempDir()}
	if _, err := loadModel(cfg, ""); err == nil {
		t.Fatal("expected error for empty models dir")
	}
}

func TestBuildRootCmdHasSubcommands(t *testing.T) {
	root := buildRootCmd()
	want := map[string]bool{"keys": false, "models": false, "features": false, "describe": false, "cache": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("missing subcommand %q", name)
		}
	}
}

func TestRootCmdFlags(t *testing.T) {
	cfg := &Config{ModelsDir: "./models", CacheDir: "./cache"}
	root := buildRootCmdWith(cfg)
	root.SetArgs([]string{"features", "--models-dir", writeSample(t)})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if cfg.ModelsDir == "./models" {
		t.Fatal("persistent flag did not update config")
	}
}

func TestCacheStatsAndClear(t *testing.T) {
	cfg := &Config{CacheDir: t.TempDir()}
	if err := fnCacheStats(cfg); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if err := fnCacheClear(cfg); err != nil {
		t.Fatalf("clear: %v", err)
	}
}
