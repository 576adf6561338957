package ebm

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Model is the portable form of a trained Explainable Boosting Machine as
// exported from interpret. It carries everything needed to render feature
// graphs as text; training itself happens elsewhere.
type Model struct {
	Name         string  `json:"name,omitempty"`
	Task         string  `json:"task,omitempty"`
	Intercept    float64 `json:"intercept"`
	FeatureNames []string `json:"feature_names"`
	FeatureTypes []string `json:"feature_types"`
	Terms        []Term   `json:"terms"`

	// Optional prompt context baked into the export.
	DatasetDescription string `json:"dataset_description,omitempty"`
	GraphDescription   string `json:"graph_description,omitempty"`
}

// Term holds the learned shape function of a single feature.
// Continuous terms use Edges (len(Scores)+1 boundaries); categorical terms
// use Categories (one per score).
type Term struct {
	Edges      []float64 `json:"edges,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Scores     []float64 `json:"scores"`
	Stddevs    []float64 `json:"stddevs,omitempty"`
	Importance float64   `json:"importance"`
}

const (
	TypeContinuous  = "continuous"
	TypeCategorical = "categorical"
)

// FeatureRangeError reports a feature index outside the model.
type FeatureRangeError struct {
	Index int
	Count int
}

func (e FeatureRangeError) Error() string {
	return fmt.Sprintf("feature index %d out of range (model has %d features)", e.Index, e.Count)
}

// IsFeatureRange reports whether err indicates an out-of-range feature index.
func IsFeatureRange(err error) bool {
	_, ok := err.(FeatureRangeError)
	return ok
}

// Load reads and validates an EBM model file.
func Load(path string) (*Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var m Model
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks structural consistency between names, types and terms.
func (m *Model) Validate() error {
	n := len(m.FeatureNames)
	if n == 0 {
		return fmt.Errorf("no features")
	}
	if len(m.FeatureTypes) != n {
		return fmt.Errorf("feature_types has %d entries, want %d", len(m.FeatureTypes), n)
	}
	if len(m.Terms) != n {
		return fmt.Errorf("terms has %d entries, want %d", len(m.Terms), n)
	}
	for i, t := range m.Terms {
		if len(t.Scores) == 0 {
			return fmt.Errorf("term %d (%s): no scores", i, m.FeatureNames[i])
		}
		switch m.FeatureTypes[i] {
		case TypeContinuous:
			if len(t.Edges) != len(t.Scores)+1 {
				return fmt.Errorf("term %d (%s): %d edges for %d scores", i, m.FeatureNames[i], len(t.Edges), len(t.Scores))
			}
			for j := 1; j < len(t.Edges); j++ {
				if t.Edges[j] < t.Edges[j-1] {
					return fmt.Errorf("term %d (%s): edges not sorted", i, m.FeatureNames[i])
				}
			}
		case TypeCategorical:
			if len(t.Categories) != len(t.Scores) {
				return fmt.Errorf("term %d (%s): %d categories for %d scores", i, m.FeatureNames[i], len(t.Categories), len(t.Scores))
			}
		default:
			return fmt.Errorf("term %d (%s): unknown feature type %q", i, m.FeatureNames[i], m.FeatureTypes[i])
		}
		if len(t.Stddevs) != 0 && len(t.Stddevs) != len(t.Scores) {
			return fmt.Errorf("term %d (%s): %d stddevs for %d scores", i, m.FeatureNames[i], len(t.Stddevs), len(t.Scores))
		}
	}
	return nil
}

// FeatureCount returns the number of features in the model.
func (m *Model) FeatureCount() int { return len(m.FeatureNames) }

// Fingerprint hashes the model structure (names, types, bins, scores).
// Cached graph text keyed by it goes stale only when the model changes.
func (m *Model) Fingerprint() string {
	h := md5.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(m.FeatureNames)
	_ = enc.Encode(m.FeatureTypes)
	_ = enc.Encode(m.Terms)
	return hex.EncodeToString(h.Sum(nil))
}

// Importance returns the stored term importance for a feature.
func (m *Model) Importance(i int) float64 { return m.Terms[i].Importance }

// ImportancesText renders "name: importance" lines for all features,
// in model order.
func (m *Model) ImportancesText() string {
	out := ""
	for i, name := range m.FeatureNames {
		out += fmt.Sprintf("%s: %.2f\n", name, m.Terms[i].Importance)
	}
	return out
}

// TopFeatures returns up to k feature indices sorted by absolute
// importance, most important first. Ties keep model order.
func (m *Model) TopFeatures(k int) []int {
	idx := make([]int, len(m.Terms))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := m.Terms[idx[a]].Importance, m.Terms[idx[b]].Importance
		return abs(ia) > abs(ib)
	})
	if k > 0 && k < len(idx) {
		idx = idx[:k]
	}
	return idx
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
