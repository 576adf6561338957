// Package explainer is the service layer behind the HTTP API: it owns the
// loaded EBM model, admission control and the bridge to the chat backends.
package explainer

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rodrigocostacamargos/TalkToEBM/internal/describe"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/ebm"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/llm"
	"github.com/rodrigocostacamargos/TalkToEBM/pkg/types"
)

// Config holds the runtime parameters of the explainer.
type Config struct {
	// DefaultLLM is used when a request omits the chat model id.
	DefaultLLM string
	// Language used when a request omits one.
	Language string
	// DatasetDescription and GraphDescription override what the model
	// file carries.
	DatasetDescription string
	GraphDescription   string
	// MaxFeatures analyzed by a whole-model description.
	MaxFeatures int
	// MaxQueueDepth queued describe requests before backpressure.
	MaxQueueDepth int
	// MaxInflight describe requests running at once.
	MaxInflight int
	// MaxWait bounds how long a request waits for a slot.
	MaxWait time.Duration
}

func (c Config) withDefaults() Config {
	if c.DefaultLLM == "" {
		c.DefaultLLM = "deepseek-chat"
	}
	if c.MaxQueueDepth <= 0 {
		c.MaxQueueDepth = 32
	}
	if c.MaxInflight <= 0 {
		c.MaxInflight = 2
	}
	if c.MaxWait <= 0 {
		c.MaxWait = 30 * time.Second
	}
	return c
}

// Explainer implements the Service interface consumed by the HTTP layer.
type Explainer struct {
	cfg       Config
	model     *ebm.Model
	desc      *describe.Describer
	log       zerolog.Logger
	queueCh   chan struct{}
	genCh     chan struct{}
	startTime time.Time

	// setupLLM is replaced in tests.
	setupLLM func(modelID string) (llm.ChatModel, error)
}

// New creates an explainer. model may be nil when no model file was
// found; the service then reports degraded health and rejects describes.
func New(model *ebm.Model, desc *describe.Describer, cfg Config, log zerolog.Logger) *Explainer {
	cfg = cfg.withDefaults()
	return &Explainer{
		cfg:       cfg,
		model:     model,
		desc:      desc,
		log:       log,
		queueCh:   make(chan struct{}, cfg.MaxQueueDepth),
		genCh:     make(chan struct{}, cfg.MaxInflight),
		startTime: time.Now(),
		setupLLM:  llm.Setup,
	}
}

// Ready reports whether the EBM model is loaded.
func (e *Explainer) Ready() bool { return e.model != nil }

// Health builds the GET /api/health payload.
func (e *Explainer) Health() types.HealthResponse {
	h := types.HealthResponse{
		Status:        "healthy",
		ModelLoaded:   e.model != nil,
		UptimeSeconds: int64(time.Since(e.startTime).Seconds()),
	}
	if e.model == nil {
		h.Status = "degraded"
		return h
	}
	h.FeaturesCount = e.model.FeatureCount()
	return h
}

// Features lists the features of the loaded model.
func (e *Explainer) Features() ([]types.Feature, error) {
	if e.model == nil {
		return nil, modelNotLoadedError{}
	}
	out := make([]types.Feature, e.model.FeatureCount())
	for i := range out {
		out[i] = types.Feature{
			Index:      i,
			Name:       e.model.FeatureNames[i],
			Type:       e.model.FeatureTypes[i],
			Importance: e.model.Importance(i),
		}
	}
	return out, nil
}

// LLMModels returns the chat-model catalog with availability flags.
func (e *Explainer) LLMModels() []types.LLMModel { return llm.AvailableModels() }

func (e *Explainer) options(customPrompt, language string) describe.Options {
	lang := language
	if lang == "" {
		lang = e.cfg.Language
	}
	return describe.Options{
		CustomPrompt:       customPrompt,
		Language:           lang,
		DatasetDescription: e.cfg.DatasetDescription,
		GraphDescription:   e.cfg.GraphDescription,
		MaxFeatures:        e.cfg.MaxFeatures,
	}
}

func (e *Explainer) chatModel(modelID string) (llm.ChatModel, error) {
	if modelID == "" {
		modelID = e.cfg.DefaultLLM
	}
	return e.setupLLM(modelID)
}

// DescribeGraph handles POST /api/describe_graph.
func (e *Explainer) DescribeGraph(ctx context.Context, req types.DescribeGraphRequest) (types.DescribeGraphResponse, error) {
	var resp types.DescribeGraphResponse
	if e.model == nil {
		return resp, modelNotLoadedError{}
	}
	featureIndex := 0
	if req.FeatureIndex != nil {
		featureIndex = *req.FeatureIndex
	}
	if featureIndex < 0 || featureIndex >= e.model.FeatureCount() {
		return resp, ebm.FeatureRangeError{Index: featureIndex, Count: e.model.FeatureCount()}
	}
	chat, err := e.chatModel(req.Model)
	if err != nil {
		return resp, err
	}
	release, err := e.begin(ctx)
	if err != nil {
		return resp, err
	}
	defer release()

	start := time.Now()
	e.log.Debug().Int("feature", featureIndex).Str("llm", chat.Name()).Msg("describe graph start")
	desc, err := e.desc.DescribeGraph(ctx, chat, e.model, featureIndex, e.options(req.CustomPrompt, req.Language))
	if err != nil {
		e.log.Debug().Err(err).Dur("dur", time.Since(start)).Msg("describe graph failed")
		return resp, err
	}
	e.log.Debug().Dur("dur", time.Since(start)).Msg("describe graph done")
	return types.DescribeGraphResponse{
		Success:     true,
		Description: desc,
		FeatureName: e.model.FeatureNames[featureIndex],
	}, nil
}

// DescribeModel handles POST /api/describe_model.
func (e *Explainer) DescribeModel(ctx context.Context, req types.DescribeModelRequest) (types.DescribeModelResponse, error) {
	var resp types.DescribeModelResponse
	if e.model == nil {
		return resp, modelNotLoadedError{}
	}
	chat, err := e.chatModel(req.Model)
	if err != nil {
		return resp, err
	}
	release, err := e.begin(ctx)
	if err != nil {
		return resp, err
	}
	defer release()

	start := time.Now()
	e.log.Debug().Str("llm", chat.Name()).Msg("describe model start")
	desc, err := e.desc.DescribeModel(ctx, chat, e.model, e.options(req.CustomPrompt, req.Language))
	if err != nil {
		e.log.Debug().Err(err).Dur("dur", time.Since(start)).Msg("describe model failed")
		return resp, err
	}
	e.log.Debug().Dur("dur", time.Since(start)).Msg("describe model done")
	return types.DescribeModelResponse{Success: true, Description: desc}, nil
}
