// Package describe asks a chat model to explain EBM feature graphs and
// whole models in natural language.
package describe

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rodrigocostacamargos/TalkToEBM/internal/ebm"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/llm"
)

// Options tune one describe run. Zero values fall back to defaults.
type Options struct {
	// CustomPrompt replaces the default task description in the prompt.
	CustomPrompt string
	// Language of the final summary. Defaults to DefaultLanguage.
	Language string
	// DatasetDescription and GraphDescription give the model context;
	// when empty, the descriptions stored in the model file are used.
	DatasetDescription string
	GraphDescription   string
	// NumSentences caps the length of the final summary.
	NumSentences int
	// MaxFeatures limits how many graphs a whole-model description
	// analyzes. Defaults to 5.
	MaxFeatures int
	// GraphMaxTokens caps the rendered graph text. Defaults to 1000.
	GraphMaxTokens int
}

const (
	defaultMaxFeatures    = 5
	defaultGraphMaxTokens = 1000

	// Parallel per-feature calls during a whole-model description.
	// Kept low so provider rate limits do not kick in.
	describeWorkers = 3
)

// Describer runs graph and model descriptions against a chat backend,
// consulting the optional caches first.
type Describer struct {
	Responses *llm.ResponseCache
	Graphs    *llm.GraphCache
}

func (o Options) withModelDefaults(m *ebm.Model) Options {
	if o.DatasetDescription == "" {
		o.DatasetDescription = m.DatasetDescription
	}
	if o.GraphDescription == "" {
		o.GraphDescription = m.GraphDescription
	}
	if o.MaxFeatures <= 0 {
		o.MaxFeatures = defaultMaxFeatures
	}
	if o.GraphMaxTokens <= 0 {
		o.GraphMaxTokens = defaultGraphMaxTokens
	}
	return o
}

// graphText renders (or recalls) the prompt text for one feature graph.
func (d *Describer) graphText(m *ebm.Model, featureIndex, maxTokens int) (string, error) {
	fp := m.Fingerprint()
	if d.Graphs != nil {
		if txt, ok := d.Graphs.Get(fp, featureIndex, maxTokens); ok {
			return txt, nil
		}
	}
	g, err := m.ExtractGraph(featureIndex)
	if err != nil {
		return "", err
	}
	txt := g.Text(maxTokens)
	if d.Graphs != nil {
		d.Graphs.Set(fp, featureIndex, maxTokens, txt)
	}
	return txt, nil
}

// DescribeGraph asks the chat model to describe one feature graph using
// chain-of-thought reasoning and returns the final summary.
func (d *Describer) DescribeGraph(ctx context.Context, model llm.ChatModel, m *ebm.Model, featureIndex int, opts Options) (string, error) {
	opts = opts.withModelDefaults(m)
	txt, err := d.graphText(m, featureIndex, opts.GraphMaxTokens)
	if err != nil {
		return "", err
	}
	msgs := graphCoTMessages(txt, opts.NumSentences, opts)
	out, err := llm.ExecuteSequence(ctx, model, d.Responses, msgs)
	if err != nil {
		return "", fmt.Errorf("describe graph %d: %w", featureIndex, err)
	}
	return out[len(out)-1].Content, nil
}

// DescribeModel describes the whole model: the most important feature
// graphs are described concurrently, then a final call condenses them
// together with the feature importances into one summary.
func (d *Describer) DescribeModel(ctx context.Context, model llm.ChatModel, m *ebm.Model, opts Options) (string, error) {
	opts = opts.withModelDefaults(m)
	top := m.TopFeatures(opts.MaxFeatures)

	descriptions := make([]string, len(top))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(describeWorkers)
	for i, featureIndex := range top {
		i, featureIndex := i, featureIndex
		g.Go(func() error {
			// Per-graph summaries stay short; the final summary
			// carries the sentence budget.
			perGraph := opts
			perGraph.NumSentences = summaryGraphSentences
			perGraph.CustomPrompt = ""
			desc, err := d.DescribeGraph(ctx, model, m, featureIndex, perGraph)
			if err != nil {
				return err
			}
			descriptions[i] = desc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	var joined strings.Builder
	for i, featureIndex := range top {
		if i > 0 {
			joined.WriteString("\n\n")
		}
		joined.WriteString(m.FeatureNames[featureIndex])
		joined.WriteString(": ")
		joined.WriteString(descriptions[i])
	}

	msgs := summarizeModelMessages(m.ImportancesText(), joined.String(), opts)
	out, err := llm.ExecuteSequence(ctx, model, d.Responses, msgs)
	if err != nil {
		return "", fmt.Errorf("summarize model: %w", err)
	}
	return out[len(out)-1].Content, nil
}
