package ebm

import (
	"fmt"
	"strings"
)

// Graph is the learned shape function of one feature, extracted for
// rendering into an LLM prompt.
type Graph struct {
	FeatureName string
	FeatureType string
	Edges       []float64
	Categories  []string
	Scores      []float64
	Stddevs     []float64
}

// ExtractGraph copies the shape function of feature i out of the model.
func (m *Model) ExtractGraph(i int) (Graph, error) {
	if i < 0 || i >= len(m.Terms) {
		return Graph{}, FeatureRangeError{Index: i, Count: len(m.Terms)}
	}
	t := m.Terms[i]
	return Graph{
		FeatureName: m.FeatureNames[i],
		FeatureType: m.FeatureTypes[i],
		Edges:       append([]float64(nil), t.Edges...),
		Categories:  append([]string(nil), t.Categories...),
		Scores:      append([]float64(nil), t.Scores...),
		Stddevs:     append([]float64(nil), t.Stddevs...),
	}, nil
}

// approxCharsPerToken is the usual rule of thumb for English-ish text.
const approxCharsPerToken = 4

// Text renders the graph for an LLM prompt, keeping the result within
// roughly maxTokens tokens. Continuous graphs are simplified by merging
// adjacent bins whose scores are close, with a tolerance that grows until
// the rendering fits. maxTokens <= 0 renders without simplification.
func (g Graph) Text(maxTokens int) string {
	rendered := g.render(g.Edges, g.Scores, g.Stddevs)
	if maxTokens <= 0 || len(rendered) <= maxTokens*approxCharsPerToken {
		return rendered
	}
	if g.FeatureType != TypeContinuous {
		// Categorical graphs cannot be merged meaningfully; cut the
		// least important categories instead.
		return g.renderTruncatedCategories(maxTokens * approxCharsPerToken)
	}
	lo, hi := minMax(g.Scores)
	span := hi - lo
	for step := 1; step <= 50; step++ {
		tol := span * 0.01 * float64(step)
		edges, scores, stddevs := mergeBins(g.Edges, g.Scores, g.Stddevs, tol)
		rendered = g.render(edges, scores, stddevs)
		if len(rendered) <= maxTokens*approxCharsPerToken {
			return rendered
		}
	}
	return rendered
}

func (g Graph) render(edges, scores, stddevs []float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Feature: %s\nFeature Type: %s\n", g.FeatureName, g.FeatureType)
	if g.FeatureType == TypeContinuous {
		b.WriteString("Means: {")
		for i, s := range scores {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %.3f", interval(edges[i], edges[i+1]), s)
		}
		b.WriteString("}\n")
	} else {
		b.WriteString("Means: {")
		for i, s := range scores {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%q: %.3f", g.Categories[i], s)
		}
		b.WriteString("}\n")
	}
	if len(stddevs) == len(scores) && len(stddevs) > 0 {
		b.WriteString("StdDevs: {")
		for i, s := range stddevs {
			if i > 0 {
				b.WriteString(", ")
			}
			if g.FeatureType == TypeContinuous {
				fmt.Fprintf(&b, "%s: %.3f", interval(edges[i], edges[i+1]), s)
			} else {
				fmt.Fprintf(&b, "%q: %.3f", g.Categories[i], s)
			}
		}
		b.WriteString("}\n")
	}
	return b.String()
}

func (g Graph) renderTruncatedCategories(maxChars int) string {
	scores := append([]float64(nil), g.Scores...)
	cats := append([]string(nil), g.Categories...)
	stddevs := append([]float64(nil), g.Stddevs...)
	for len(scores) > 1 {
		out := Graph{
			FeatureName: g.FeatureName,
			FeatureType: g.FeatureType,
			Categories:  cats,
			Scores:      scores,
			Stddevs:     stddevs,
		}.render(nil, scores, stddevs)
		if len(out) <= maxChars {
			return out
		}
		// Drop the category with the smallest absolute score.
		drop := 0
		for i := range scores {
			if abs(scores[i]) < abs(scores[drop]) {
				drop = i
			}
		}
		scores = append(scores[:drop], scores[drop+1:]...)
		cats = append(cats[:drop], cats[drop+1:]...)
		if len(stddevs) > drop {
			stddevs = append(stddevs[:drop], stddevs[drop+1:]...)
		}
	}
	return Graph{FeatureName: g.FeatureName, FeatureType: g.FeatureType, Categories: cats, Scores: scores, Stddevs: stddevs}.render(nil, scores, stddevs)
}

// mergeBins collapses runs of adjacent bins whose scores stay within tol
// of the run's first score. Merged scores are score-range weighted means.
func mergeBins(edges, scores, stddevs []float64, tol float64) ([]float64, []float64, []float64) {
	if len(scores) == 0 {
		return edges, scores, stddevs
	}
	outEdges := []float64{edges[0]}
	var outScores, outStddevs []float64
	hasStd := len(stddevs) == len(scores)

	runStart := 0
	flush := func(end int) {
		// Width-weighted mean over the run [runStart, end).
		var wsum, ssum, dsum float64
		for i := runStart; i < end; i++ {
			w := edges[i+1] - edges[i]
			if w <= 0 {
				w = 1
			}
			wsum += w
			ssum += scores[i] * w
			if hasStd {
				dsum += stddevs[i] * w
			}
		}
		outScores = append(outScores, ssum/wsum)
		if hasStd {
			outStddevs = append(outStddevs, dsum/wsum)
		}
		outEdges = append(outEdges, edges[end])
	}
	for i := 1; i < len(scores); i++ {
		if abs(scores[i]-scores[runStart]) > tol {
			flush(i)
			runStart = i
		}
	}
	flush(len(scores))
	return outEdges, outScores, outStddevs
}

func interval(lo, hi float64) string {
	return fmt.Sprintf("(%.3f, %.3f]", lo, hi)
}

func minMax(v []float64) (float64, float64) {
	if len(v) == 0 {
		return 0, 0
	}
	lo, hi := v[0], v[0]
	for _, f := range v[1:] {
		if f < lo {
			lo = f
		}
		if f > hi {
			hi = f
		}
	}
	return lo, hi
}
