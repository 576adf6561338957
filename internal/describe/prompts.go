package describe

import (
	"fmt"
	"strings"

	"github.com/rodrigocostacamargos/TalkToEBM/internal/llm"
)

// DefaultLanguage is used when a request does not name one. The deployed
// model explains student dropout at a Brazilian university.
const DefaultLanguage = "Portuguese (Brazil)"

const (
	defaultGraphSentences = 7
	defaultModelSentences = 30
	summaryGraphSentences = 5
)

const systemPrompt = "You are an expert statistician and data scientist. " +
	"You interpret global explanations produced by a Generalized Additive Model (GAM). " +
	"You answer all questions to the best of your ability, relying on the graphs provided " +
	"and any other information you are given."

// graphPrompt builds the opening user message that presents one feature
// graph to the model.
func graphPrompt(graphText string, opts Options) string {
	var b strings.Builder
	b.WriteString("Below is a graph from a Generalized Additive Model (GAM). ")
	b.WriteString("The graph is the learned contribution of a single feature to the model output, ")
	b.WriteString("given as mean values per input region, with standard deviations where available.\n\n")
	b.WriteString(graphText)
	b.WriteString("\n")
	if opts.DatasetDescription != "" {
		b.WriteString("\nHere is a description of the dataset the model was trained on:\n")
		b.WriteString(opts.DatasetDescription)
		b.WriteString("\n")
	}
	if opts.GraphDescription != "" {
		b.WriteString("\nHere is a description of what the y-axis of the graph means:\n")
		b.WriteString(opts.GraphDescription)
		b.WriteString("\n")
	}
	if opts.CustomPrompt != "" {
		b.WriteString("\n")
		b.WriteString(opts.CustomPrompt)
		b.WriteString("\n")
	} else {
		b.WriteString("\nPlease describe the general pattern of the graph and any surprising or noteworthy aspects.\n")
	}
	return b.String()
}

// graphCoTMessages plans the chain-of-thought conversation for one graph:
// a long free-form analysis first, then a short summary in the target
// language with the requested number of sentences.
func graphCoTMessages(graphText string, numSentences int, opts Options) []llm.SeqMessage {
	if numSentences <= 0 {
		numSentences = defaultGraphSentences
	}
	lang := opts.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	return []llm.SeqMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: graphPrompt(graphText, opts)},
		{Role: "assistant", Temperature: 0.7, MaxTokens: 3000},
		{Role: "user", Content: fmt.Sprintf(
			"Great, now please summarize your analysis in at most %d sentences, in %s. "+
				"Speak about the feature and its effect, not about the graph as an object.",
			numSentences, lang)},
		{Role: "assistant", Temperature: 0.7, MaxTokens: 500},
	}
}

// summarizeModelMessages plans the final conversation that condenses the
// per-feature descriptions into one model summary.
func summarizeModelMessages(importances, graphDescriptions string, opts Options) []llm.SeqMessage {
	numSentences := opts.NumSentences
	if numSentences <= 0 {
		numSentences = defaultModelSentences
	}
	lang := opts.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	var b strings.Builder
	b.WriteString("Below is an overview of a Generalized Additive Model (GAM). ")
	b.WriteString("First the feature importances, then descriptions of the most important feature graphs.\n\n")
	b.WriteString("Feature importances:\n")
	b.WriteString(importances)
	b.WriteString("\nGraph descriptions:\n\n")
	b.WriteString(graphDescriptions)
	b.WriteString("\n")
	if opts.DatasetDescription != "" {
		b.WriteString("\nHere is a description of the dataset the model was trained on:\n")
		b.WriteString(opts.DatasetDescription)
		b.WriteString("\n")
	}
	if opts.GraphDescription != "" {
		b.WriteString("\nHere is a description of what the model output means:\n")
		b.WriteString(opts.GraphDescription)
		b.WriteString("\n")
	}
	if opts.CustomPrompt != "" {
		b.WriteString("\n")
		b.WriteString(opts.CustomPrompt)
		b.WriteString("\n")
	} else {
		b.WriteString("\nPlease give an overall description of what the model has learned.\n")
	}
	return []llm.SeqMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: b.String()},
		{Role: "assistant", Temperature: 0.7, MaxTokens: 3000},
		{Role: "user", Content: fmt.Sprintf(
			"Great, now please summarize the model in at most %d sentences, in %s.",
			numSentences, lang)},
		{Role: "assistant", Temperature: 0.7, MaxTokens: 2000},
	}
}
