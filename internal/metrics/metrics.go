package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/recipe-catalog/backend/internal/llm"
)

const namespace = "recipe_catalog"

// Metrics owns the service's Prometheus collectors and the registry they
// are exposed from.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	llmCompletionsTotal   *prometheus.CounterVec
	llmCompletionDuration *prometheus.HistogramVec
	llmTokensTotal        *prometheus.CounterVec
	llmToolCallsTotal     *prometheus.CounterVec
	llmRounds             prometheus.Histogram
	llmExhaustedTotal     prometheus.Counter

	parseFallbacksTotal *prometheus.CounterVec
	rateLimitedTotal    prometheus.Counter
}

// New registers every collector on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		llmCompletionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_completions_total",
				Help:      "Total number of LLM completion calls",
			},
			[]string{"provider", "status"},
		),
		llmCompletionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_completion_duration_seconds",
				Help:      "LLM completion latency in seconds",
				Buckets:   []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"provider"},
		),
		llmTokensTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_tokens_total",
				Help:      "Tokens consumed by LLM calls",
			},
			[]string{"provider", "kind"},
		),
		llmToolCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_tool_calls_total",
				Help:      "Tool calls requested by the model",
			},
			[]string{"tool", "status"},
		),
		llmRounds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_conversation_rounds",
				Help:      "Model rounds per conversation",
				Buckets:   prometheus.LinearBuckets(1, 1, 8),
			},
		),
		llmExhaustedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_round_limit_reached_total",
				Help:      "Conversations stopped by the tool round limit",
			},
		),

		parseFallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ai_parse_fallbacks_total",
				Help:      "AI answers replaced by a fallback because they could not be read",
			},
			[]string{"operation"},
		),
		rateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_requests_total",
				Help:      "Requests rejected by the AI rate limiter",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest records one served HTTP request. path is the route
// template, not the raw URL.
func (m *Metrics) RecordRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRateLimited counts a request rejected by the rate limiter.
func (m *Metrics) RecordRateLimited() {
	m.rateLimitedTotal.Inc()
}

// RecordFallback counts an AI answer that had to be replaced.
func (m *Metrics) RecordFallback(operation string) {
	m.parseFallbacksTotal.WithLabelValues(operation).Inc()
}

var _ llm.Observer = (*Metrics)(nil)

// ObserveCompletion implements llm.Observer.
func (m *Metrics) ObserveCompletion(provider string, elapsed time.Duration, usage llm.Usage, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.llmCompletionsTotal.WithLabelValues(provider, status).Inc()
	m.llmCompletionDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
	if usage.PromptTokens > 0 {
		m.llmTokensTotal.WithLabelValues(provider, "prompt").Add(float64(usage.PromptTokens))
	}
	if usage.CompletionTokens > 0 {
		m.llmTokensTotal.WithLabelValues(provider, "completion").Add(float64(usage.CompletionTokens))
	}
}

// ObserveToolCall implements llm.Observer.
func (m *Metrics) ObserveToolCall(tool string, isError bool) {
	status := "success"
	if isError {
		status = "error"
	}
	m.llmToolCallsTotal.WithLabelValues(tool, status).Inc()
}

// ObserveRun implements llm.Observer.
func (m *Metrics) ObserveRun(rounds int, exhausted bool) {
	m.llmRounds.Observe(float64(rounds))
	if exhausted {
		m.llmExhaustedTotal.Inc()
	}
}
