package ebm

import (
	"strings"
	"testing"
)

func TestExtractGraphBounds(t *testing.T) {
	m := sampleModel()
	if _, err := m.ExtractGraph(-1); !IsFeatureRange(err) {
		t.Fatalf("expected range error, got %v", err)
	}
	if _, err := m.ExtractGraph(3); !IsFeatureRange(err) {
		t.Fatalf("expected range error, got %v", err)
	}
	g, err := m.ExtractGraph(2)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if g.FeatureName != "var12" || len(g.Scores) != 3 {
		t.Fatalf("unexpected graph: %+v", g)
	}
}

func TestExtractGraphIsACopy(t *testing.T) {
	m := sampleModel()
	g, _ := m.ExtractGraph(0)
	g.Scores[0] = 99
	if m.Terms[0].Scores[0] == 99 {
		t.Fatal("graph shares score slice with model")
	}
}

func TestGraphTextContinuous(t *testing.T) {
	m := sampleModel()
	g, _ := m.ExtractGraph(0)
	txt := g.Text(0)
	if !strings.Contains(txt, "Feature: var01") || !strings.Contains(txt, "continuous") {
		t.Fatalf("text=%q", txt)
	}
	if !strings.Contains(txt, "Means: {") || !strings.Contains(txt, "StdDevs: {") {
		t.Fatalf("text=%q", txt)
	}
}

func TestGraphTextCategorical(t *testing.T) {
	m := sampleModel()
	g, _ := m.ExtractGraph(1)
	txt := g.Text(0)
	if !strings.Contains(txt, `"Pedagogia": 0.200`) {
		t.Fatalf("text=%q", txt)
	}
}

func TestGraphTextFitsTokenBudget(t *testing.T) {
	// Build a fine-grained graph with a slow ramp so merging can kick in.
	n := 500
	edges := make([]float64, n+1)
	scores := make([]float64, n)
	for i := 0; i <= n; i++ {
		edges[i] = float64(i)
	}
	for i := 0; i < n; i++ {
		scores[i] = float64(i) / float64(n)
	}
	g := Graph{FeatureName: "f", FeatureType: TypeContinuous, Edges: edges, Scores: scores}
	full := g.Text(0)
	budget := 200
	small := g.Text(budget)
	if len(small) >= len(full) {
		t.Fatalf("expected simplification: full=%d small=%d", len(full), len(small))
	}
	if len(small) > budget*approxCharsPerToken {
		t.Fatalf("rendering exceeds budget: %d > %d", len(small), budget*approxCharsPerToken)
	}
}

func TestGraphTextCategoricalTruncates(t *testing.T) {
	n := 200
	cats := make([]string, n)
	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		cats[i] = strings.Repeat("c", 8)
		scores[i] = float64(i)
	}
	g := Graph{FeatureName: "f", FeatureType: TypeCategorical, Categories: cats, Scores: scores}
	small := g.Text(100)
	if len(small) >= len(g.Text(0)) {
		t.Fatal("expected truncation for categorical graph")
	}
}

func TestMergeBinsTolerance(t *testing.T) {
	edges := []float64{0, 1, 2, 3, 4}
	scores := []float64{0.10, 0.11, 0.12, 0.90}
	e, s, _ := mergeBins(edges, scores, nil, 0.05)
	if len(s) != 2 {
		t.Fatalf("expected 2 merged bins, got %d (%v)", len(s), s)
	}
	if e[0] != 0 || e[len(e)-1] != 4 {
		t.Fatalf("merged edges=%v", e)
	}
	// Merged run keeps the outer boundary between runs.
	if e[1] != 3 {
		t.Fatalf("expected run boundary at 3, got %v", e)
	}
}
