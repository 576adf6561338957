package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rodrigocostacamargos/TalkToEBM/internal/ebm"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/explainer"
	"github.com/rodrigocostacamargos/TalkToEBM/internal/llm"
	"github.com/rodrigocostacamargos/TalkToEBM/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Features() ([]types.Feature, error)
	Health() types.HealthResponse
	LLMModels() []types.LLMModel
	DescribeGraph(ctx context.Context, req types.DescribeGraphRequest) (types.DescribeGraphResponse, error)
	DescribeModel(ctx context.Context, req types.DescribeModelRequest) (types.DescribeModelResponse, error)
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}

	r.Get("/", indexHandler(svc))

	r.Get("/api/features", func(w http.ResponseWriter, r *http.Request) {
		features, err := svc.Features()
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, features)
	})

	r.Get("/api/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.LLMModelsResponse{Models: svc.LLMModels()})
	})

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		h := svc.Health()
		w.Header().Set("Content-Type", "application/json")
		if !h.ModelLoaded {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(h)
	})

	r.Post("/api/describe_graph", func(w http.ResponseWriter, r *http.Request) {
		var req types.DescribeGraphRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if req.FeatureIndex == nil {
			writeJSONError(w, http.StatusBadRequest, "feature_index is required")
			return
		}
		lvl := requestLogLevel(r)
		start := time.Now()
		logStart(r, lvl, "describe_graph")
		ctx, cancel := describeContext(r)
		defer cancel()
		resp, err := svc.DescribeGraph(ctx, req)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := writeServiceError(w, err)
			logEnd(r, lvl, "describe_graph", status, start, err)
			return
		}
		writeJSON(w, resp)
		logEnd(r, lvl, "describe_graph", http.StatusOK, start, nil)
	})

	r.Post("/api/describe_model", func(w http.ResponseWriter, r *http.Request) {
		var req types.DescribeModelRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		lvl := requestLogLevel(r)
		start := time.Now()
		logStart(r, lvl, "describe_model")
		ctx, cancel := describeContext(r)
		defer cancel()
		resp, err := svc.DescribeModel(ctx, req)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := writeServiceError(w, err)
			logEnd(r, lvl, "describe_model", status, start, err)
			return
		}
		writeJSON(w, resp)
		logEnd(r, lvl, "describe_model", http.StatusOK, start, nil)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("no model"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// decodeJSONBody enforces content type and body size, then decodes into v.
// On failure it writes the error response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Oversized bodies surface here too; 400 avoids leaking size details
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// describeContext joins the server base context with the request context
// so shutdown cancels in-flight LLM work, and applies the describe timeout.
func describeContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	if describeTimeout > 0 {
		tctx, tcancel := context.WithTimeout(ctx, time.Duration(describeTimeout)*time.Second)
		return tctx, func() { tcancel(); cancel() }
	}
	return ctx, cancel
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// writeServiceError maps well-known service errors to HTTP status codes
// and writes the JSON error payload. Returns the status used.
func writeServiceError(w http.ResponseWriter, err error) int {
	status := http.StatusInternalServerError
	switch {
	case ebm.IsFeatureRange(err):
		status = http.StatusBadRequest
	case llm.IsUnknownModel(err):
		status = http.StatusBadRequest
	case explainer.IsModelNotLoaded(err):
		status = http.StatusServiceUnavailable
	case llm.IsKeyNotConfigured(err):
		status = http.StatusServiceUnavailable
	case explainer.IsTooBusy(err):
		status = http.StatusTooManyRequests
		IncrementBackpressure("describe")
	default:
		if he, ok := err.(HTTPError); ok {
			status = he.StatusCode()
		}
	}
	writeJSONError(w, status, err.Error())
	return status
}
