// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Turn outcomes recorded by TurnsTotal.
const (
	OutcomeGated    = "gated"
	OutcomeModel    = "model"
	OutcomeDegraded = "degraded"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LLMCompletionDuration tracks model gateway latency.
	LLMCompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_completion_duration_seconds",
			Help:    "Model gateway completion duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "status"},
	)

	// LLMTokensTotal tracks total LLM tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"provider", "direction"},
	)

	// TurnsTotal counts chat turns by how the response was produced.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Chat turns by outcome",
		},
		[]string{"outcome"},
	)

	// ReplyRewritesTotal counts post-processor stages that changed the reply.
	ReplyRewritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_reply_rewrites_total",
			Help: "Reply post-processor rewrites by stage",
		},
		[]string{"stage"},
	)

	// SessionsCreatedTotal tracks chat sessions created.
	SessionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_sessions_created_total",
			Help: "Total chat sessions created",
		},
	)

	// SessionsDeletedTotal tracks chat sessions deleted with their message logs.
	SessionsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_sessions_deleted_total",
			Help: "Total chat sessions deleted",
		},
	)

	// JournalPublishFailures counts turn events that could not be published.
	JournalPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "turn_journal_publish_failures_total",
			Help: "Turn events that failed to publish",
		},
	)

	// CacheLookupsTotal tracks result cache hits and misses.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Result cache lookups",
		},
		[]string{"result"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordCompletion records metrics for a model gateway call.
func RecordCompletion(provider, status string, seconds float64, tokensIn, tokensOut int) {
	LLMCompletionDuration.WithLabelValues(provider, status).Observe(seconds)
	LLMTokensTotal.WithLabelValues(provider, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(provider, "out").Add(float64(tokensOut))
}

// RecordTurn increments the turn counter for an outcome.
func RecordTurn(outcome string) {
	TurnsTotal.WithLabelValues(outcome).Inc()
}

// RecordRewrite increments the rewrite counter for a post-processor stage.
func RecordRewrite(stage string) {
	ReplyRewritesTotal.WithLabelValues(stage).Inc()
}
