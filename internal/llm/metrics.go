package llm

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	llmCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ebmd",
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Total chat completion calls by provider, model and outcome",
		},
		[]string{"provider", "model", "status"},
	)

	llmCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ebmd",
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Duration of chat completion calls in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"provider", "model"},
	)

	cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ebmd",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by cache name and result",
		},
		[]string{"cache", "result"},
	)
)

func init() {
	prometheus.MustRegister(llmCallsTotal, llmCallDuration, cacheLookupsTotal)
}

func observeCall(provider, model, status string, dur time.Duration) {
	llmCallsTotal.WithLabelValues(provider, model, status).Inc()
	llmCallDuration.WithLabelValues(provider, model).Observe(dur.Seconds())
}

func observeCache(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(cache, result).Inc()
}
