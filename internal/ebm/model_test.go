package ebm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleModel() *Model {
	return &Model{
		Name:         "evasao-upe",
		Task:         "classification",
		Intercept:    -1.2,
		FeatureNames: []string{"var01", "Curso", "var12"},
		FeatureTypes: []string{TypeContinuous, TypeCategorical, TypeContinuous},
		Terms: []Term{
			{Edges: []float64{0, 1, 2}, Scores: []float64{-0.5, 0.5}, Stddevs: []float64{0.1, 0.1}, Importance: 0.3},
			{Categories: []string{"Pedagogia", "Computacao"}, Scores: []float64{0.2, -0.2}, Importance: 0.9},
			{Edges: []float64{0, 10, 20, 30}, Scores: []float64{0.1, 0.4, -0.8}, Importance: 0.6},
		},
	}
}

func writeModelFile(t *testing.T, m string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "m.ebm.json")
	if err := os.WriteFile(p, []byte(m), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadValidModel(t *testing.T) {
	p := writeModelFile(t, `{
		"intercept": -1.2,
		"feature_names": ["a", "b"],
		"feature_types": ["continuous", "categorical"],
		"terms": [
			{"edges": [0, 1, 2], "scores": [0.1, -0.1], "importance": 0.2},
			{"categories": ["x", "y"], "scores": [0.3, -0.3], "importance": 0.4}
		]
	}`)
	m, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.FeatureCount() != 2 {
		t.Fatalf("feature count=%d", m.FeatureCount())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.ebm.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRejectsBadJSON(t *testing.T) {
	p := writeModelFile(t, "not-json")
	if _, err := Load(p); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateShapeMismatches(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Model)
	}{
		{"no features", func(m *Model) { m.FeatureNames = nil }},
		{"types mismatch", func(m *Model) { m.FeatureTypes = m.FeatureTypes[:1] }},
		{"terms mismatch", func(m *Model) { m.Terms = m.Terms[:1] }},
		{"edges mismatch", func(m *Model) { m.Terms[0].Edges = []float64{0, 1} }},
		{"unsorted edges", func(m *Model) { m.Terms[0].Edges = []float64{2, 1, 0} }},
		{"categories mismatch", func(m *Model) { m.Terms[1].Categories = []string{"only"} }},
		{"unknown type", func(m *Model) { m.FeatureTypes[0] = "ordinal" }},
		{"stddevs mismatch", func(m *Model) { m.Terms[0].Stddevs = []float64{0.1} }},
		{"empty scores", func(m *Model) { m.Terms[2].Scores = nil }},
	}
	for _, tc := range cases {
		m := sampleModel()
		tc.mut(m)
		if err := m.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestTopFeaturesOrdering(t *testing.T) {
	m := sampleModel()
	got := m.TopFeatures(2)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("top features=%v", got)
	}
	all := m.TopFeatures(0)
	if len(all) != 3 {
		t.Fatalf("expected all features, got %v", all)
	}
}

func TestTopFeaturesAbsoluteImportance(t *testing.T) {
	m := sampleModel()
	m.Terms[0].Importance = -2.0
	got := m.TopFeatures(1)
	if got[0] != 0 {
		t.Fatalf("expected negative importance to rank by magnitude, got %v", got)
	}
}

func TestImportancesText(t *testing.T) {
	txt := sampleModel().ImportancesText()
	lines := strings.Split(strings.TrimSpace(txt), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines=%d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "var01: ") {
		t.Fatalf("line=%q", lines[0])
	}
}
