package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rodrigocostacamargos/TalkToEBM/internal/config"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/describe"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/ebm"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/explainer"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/httpapi"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/llm"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/registry"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	// API keys may live in a .env next to the binary; real env always wins.
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("read .env")
	}

	// Flags with environment variable defaults
	addr := flag.String("addr", envOr("EBMD_ADDR", ":5000"), "HTTP listen address, e.g. :5000")
	modelsDir := flag.String("models-dir", envOr("EBMD_MODELS_DIR", "./models"), "Directory to scan for *.json EBM model files")
	defaultModel := flag.String("default-model", os.Getenv("EBMD_DEFAULT_MODEL"), "Model file id to load (default: first found)")
	llmModel := flag.String("llm-model", envOr("EBMD_LLM_MODEL", "deepseek-chat"), "Default chat model id when request omits one")
	language := flag.String("language", os.Getenv("EBMD_LANGUAGE"), "Default answer language when request omits one")
	cacheDir := flag.String("cache-dir", envOr("EBMD_CACHE_DIR", "./cache"), "Directory for LLM response and graph caches")
	configPath := flag.String("config", os.Getenv("EBMD_CONFIG"), "Optional config file (.yaml/.json/.toml); flags override it")
	flag.Parse()

	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	var cfg config.Config
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("load config")
		}
	}
	cfg = mergeConfig(cfg, setFlags, cliValues{
		addr:         *addr,
		modelsDir:    *modelsDir,
		defaultModel: *defaultModel,
		llmModel:     *llmModel,
		language:     *language,
		cacheDir:     *cacheDir,
	})

	// Scan the models directory. A missing model is not fatal: the server
	// starts degraded and /api/health reports it.
	var model *ebm.Model
	files, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", cfg.ModelsDir).Msg("scan models dir")
	} else if mf, ok := registry.Pick(files, cfg.DefaultModel); !ok {
		log.Warn().Str("dir", cfg.ModelsDir).Str("id", cfg.DefaultModel).Msg("no EBM model file found")
	} else if model, err = ebm.Load(mf.Path); err != nil {
		log.Error().Err(err).Str("path", mf.Path).Msg("load EBM model")
		model = nil
	} else {
		log.Info().Str("model", mf.ID).Int("features", model.FeatureCount()).Msg("EBM model loaded")
	}

	ttl := time.Duration(cfg.CacheTTLHours) * time.Hour
	desc := &describe.Describer{}
	if responses, err := llm.NewResponseCache(filepath.Join(cfg.CacheDir, "llm_responses"), ttl); err != nil {
		log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("response cache disabled")
	} else {
		desc.Responses = responses
	}
	if graphs, err := llm.NewGraphCache(filepath.Join(cfg.CacheDir, "graphs")); err != nil {
		log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("graph cache disabled")
	} else {
		desc.Graphs = graphs
	}

	svc := explainer.New(model, desc, explainer.Config{
		DefaultLLM:         cfg.LLMModel,
		Language:           cfg.Language,
		DatasetDescription: cfg.DatasetDescription,
		GraphDescription:   cfg.GraphDescription,
		MaxFeatures:        cfg.MaxFeatures,
		MaxQueueDepth:      cfg.MaxQueueDepth,
		MaxInflight:        cfg.MaxInflight,
		MaxWait:            time.Duration(cfg.MaxWaitSeconds) * time.Second,
	}, log)

	httpapi.SetLogger(log)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetDescribeTimeoutSeconds(int64(cfg.DescribeTimeoutSec))
	if cfg.CORSEnabled || os.Getenv("EBMD_CORS_ORIGINS") != "" {
		origins := cfg.CORSAllowedOrigins
		if v := os.Getenv("EBMD_CORS_ORIGINS"); v != "" {
			origins = splitCSV(v)
		}
		httpapi.SetCORSOptions(true, origins, cfg.CORSAllowedMethods, cfg.CORSAllowedHeaders)
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("models_dir", cfg.ModelsDir).Msg("ebmd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase() // cancels in-flight LLM calls
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown")
	}
}

// cliValues holds the resolved flag values fed into mergeConfig.
type cliValues struct {
	addr         string
	modelsDir    string
	defaultModel string
	llmModel     string
	language     string
	cacheDir     string
}

// mergeConfig layers command-line values over the file config. A flag the
// user passed explicitly always wins; otherwise a non-empty file value is
// kept, and the flag default (built-in or environment) fills the rest.
func mergeConfig(cfg config.Config, setFlags map[string]bool, cli cliValues) config.Config {
	pick := func(name, flagVal, fileVal string) string {
		if setFlags[name] || fileVal == "" {
			return flagVal
		}
		return fileVal
	}
	cfg.Addr = pick("addr", cli.addr, cfg.Addr)
	cfg.ModelsDir = pick("models-dir", cli.modelsDir, cfg.ModelsDir)
	cfg.DefaultModel = pick("default-model", cli.defaultModel, cfg.DefaultModel)
	cfg.LLMModel = pick("llm-model", cli.llmModel, cfg.LLMModel)
	cfg.Language = pick("language", cli.language, cfg.Language)
	cfg.CacheDir = pick("cache-dir", cli.cacheDir, cfg.CacheDir)
	return cfg
}

// splitCSV splits a comma-separated list, trimming spaces and dropping empties.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
