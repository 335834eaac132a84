// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LLMRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keywordgen_llm_requests_total",
			Help: "Total number of LLM calls issued, by pipeline stage",
		},
		[]string{"stage"},
	)

	LLMRequestFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keywordgen_llm_request_failures_total",
			Help: "LLM calls that failed after exhausting retries",
		},
		[]string{"stage"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "keywordgen_pipeline_stage_duration_seconds",
			Help: "Duration of each pipeline stage",
		},
		[]string{"stage"},
	)

	KeywordsCollected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keywordgen_keywords_collected_total",
			Help: "Candidate keywords collected before refinement, by source",
		},
		[]string{"source"},
	)
)
