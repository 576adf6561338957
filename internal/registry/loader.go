// Package registry discovers EBM model files on disk.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rodrigocostacamargos/TalkToEBM/pkg/types"
)

// LoadDir scans a directory for *.json EBM model files and builds a catalog
// from filenames. ID is the filename without the .json extension; Path is the
// absolute file path. The result is sorted by ID.
func LoadDir(dir string) ([]types.ModelFile, error) {
	base, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.ModelFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".json") {
			continue
		}
		id := name[:len(name)-len(".json")]
		p := filepath.Join(abs, name)
		models = append(models, types.ModelFile{ID: id, Path: p})
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

// Pick returns the model with the given id, or the first model when id is
// empty. Returns false when nothing matches.
func Pick(models []types.ModelFile, id string) (types.ModelFile, bool) {
	if len(models) == 0 {
		return types.ModelFile{}, false
	}
	if id == "" {
		return models[0], true
	}
	for _, m := range models {
		if m.ID == id {
			return m, true
		}
	}
	return types.ModelFile{}, false
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	if path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
