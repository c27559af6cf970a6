package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opInterpret = "interpret_query"
	opSimilar   = "similar_products"
	opRelated   = "related_products"
)

const (
	outcomeOK       = "ok"
	outcomeError    = "error"
	outcomeTimeout  = "timeout"
	outcomeRejected = "rejected"
	outcomeSkipped  = "skipped"
)

var aiCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ai_calls_total",
		Help: "Recommendation service calls by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

var aiCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "ai_call_duration_seconds",
		Help:    "Recommendation service call latency.",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
	},
	[]string{"operation"},
)
