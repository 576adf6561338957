package explainer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rodrigocostacamargos/TalkToEBM/internal/describe"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/ebm"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/llm"
	"github.com/rodrigocostacamargos/TalkToEBM/pkg/types"
)

func testModel() *ebm.Model {
	return &ebm.Model{
		FeatureNames: []string{"var01", "Curso"},
		FeatureTypes: []string{ebm.TypeContinuous, ebm.TypeCategorical},
		Terms: []ebm.Term{
			{Edges: []float64{0, 1, 2}, Scores: []float64{-0.5, 0.5}, Importance: 0.3},
			{Categories: []string{"Pedagogia", "Computacao"}, Scores: []float64{0.2, -0.2}, Importance: 0.9},
		},
	}
}

// blockingChat answers after release is closed.
type blockingChat struct {
	release chan struct{}
	once    sync.Once
}

func (b *blockingChat) Name() string { return "blocking" }

func (b *blockingChat) ChatCompletion(ctx context.Context, messages []llm.Message, temperature float64, maxTokens int) (string, error) {
	if b.release != nil {
		select {
		case <-b.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "described", nil
}

func newTestExplainer(model *ebm.Model, chat llm.ChatModel, cfg Config) *Explainer {
	e := New(model, &describe.Describer{}, cfg, zerolog.Nop())
	e.setupLLM = func(string) (llm.ChatModel, error) { return chat, nil }
	return e
}

func intp(i int) *int { return &i }

func TestHealth(t *testing.T) {
	e := newTestExplainer(testModel(), &blockingChat{}, Config{})
	h := e.Health()
	if h.Status != "healthy" || !h.ModelLoaded || h.FeaturesCount != 2 {
		t.Fatalf("health=%+v", h)
	}
	if !e.Ready() {
		t.Fatal("expected ready")
	}
}

func TestHealthDegradedWithoutModel(t *testing.T) {
	e := newTestExplainer(nil, &blockingChat{}, Config{})
	h := e.Health()
	if h.Status != "degraded" || h.ModelLoaded || h.FeaturesCount != 0 {
		t.Fatalf("health=%+v", h)
	}
	if e.Ready() {
		t.Fatal("expected not ready")
	}
}

func TestFeatures(t *testing.T) {
	e := newTestExplainer(testModel(), &blockingChat{}, Config{})
	fs, err := e.Features()
	if err != nil {
		t.Fatalf("features: %v", err)
	}
	if len(fs) != 2 || fs[1].Name != "Curso" || fs[1].Type != ebm.TypeCategorical || fs[1].Importance != 0.9 {
		t.Fatalf("features=%+v", fs)
	}
}

func TestFeaturesWithoutModel(t *testing.T) {
	e := newTestExplainer(nil, &blockingChat{}, Config{})
	if _, err := e.Features(); !IsModelNotLoaded(err) {
		t.Fatalf("expected model-not-loaded, got %v", err)
	}
}

func TestDescribeGraph(t *testing.T) {
	e := newTestExplainer(testModel(), &blockingChat{}, Config{})
	resp, err := e.DescribeGraph(context.Background(), types.DescribeGraphRequest{FeatureIndex: intp(1)})
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if !resp.Success || resp.Description != "described" || resp.FeatureName != "Curso" {
		t.Fatalf("resp=%+v", resp)
	}
}

func TestDescribeGraphOutOfRange(t *testing.T) {
	e := newTestExplainer(testModel(), &blockingChat{}, Config{})
	_, err := e.DescribeGraph(context.Background(), types.DescribeGraphRequest{FeatureIndex: intp(7)})
	if !ebm.IsFeatureRange(err) {
		t.Fatalf("expected range error, got %v", err)
	}
	_, err = e.DescribeGraph(context.Background(), types.DescribeGraphRequest{FeatureIndex: intp(-1)})
	if !ebm.IsFeatureRange(err) {
		t.Fatalf("expected range error, got %v", err)
	}
}

func TestDescribeGraphWithoutModel(t *testing.T) {
	e := newTestExplainer(nil, &blockingChat{}, Config{})
	_, err := e.DescribeGraph(context.Background(), types.DescribeGraphRequest{FeatureIndex: intp(0)})
	if !IsModelNotLoaded(err) {
		t.Fatalf("expected model-not-loaded, got %v", err)
	}
}

func TestDescribeGraphMissingKey(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")
	e := New(testModel(), &describe.Describer{}, Config{}, zerolog.Nop())
	_, err := e.DescribeGraph(context.Background(), types.DescribeGraphRequest{FeatureIndex: intp(0)})
	if !llm.IsKeyNotConfigured(err) {
		t.Fatalf("expected key error, got %v", err)
	}
}

func TestDescribeModel(t *testing.T) {
	e := newTestExplainer(testModel(), &blockingChat{}, Config{})
	resp, err := e.DescribeModel(context.Background(), types.DescribeModelRequest{})
	if err != nil {
		t.Fatalf("describe model: %v", err)
	}
	if !resp.Success || resp.Description == "" {
		t.Fatalf("resp=%+v", resp)
	}
}

func TestDescribeBackpressure(t *testing.T) {
	chat := &blockingChat{release: make(chan struct{})}
	e := newTestExplainer(testModel(), chat, Config{
		MaxQueueDepth: 1,
		MaxInflight:   1,
		MaxWait:       50 * time.Millisecond,
	})

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := e.DescribeGraph(context.Background(), types.DescribeGraphRequest{FeatureIndex: intp(0)})
		done <- err
	}()
	<-started
	// Give the first request time to claim the in-flight slot.
	time.Sleep(20 * time.Millisecond)

	// Fill the queue slot, then one more must get 429.
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.DescribeGraph(context.Background(), types.DescribeGraphRequest{FeatureIndex: intp(0)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	busy := 0
	for err := range errs {
		if IsTooBusy(err) {
			busy++
		}
	}
	if busy == 0 {
		t.Fatal("expected at least one too-busy rejection")
	}

	close(chat.release)
	if err := <-done; err != nil {
		t.Fatalf("first request failed: %v", err)
	}
}

func TestDescribeCanceledContext(t *testing.T) {
	e := newTestExplainer(testModel(), &blockingChat{}, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.DescribeGraph(ctx, types.DescribeGraphRequest{FeatureIndex: intp(0)}); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
