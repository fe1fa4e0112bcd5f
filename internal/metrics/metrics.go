// README: Prometheus collectors for queries, the AI path, and sessions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rideinsight"

var (
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_total",
		Help:      "Questions answered, by intent (or \"ai\").",
	}, []string{"intent"})

	QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_duration_seconds",
		Help:      "Time to answer a question, by answering path.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path"})

	AIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_requests_total",
		Help:      "AI delegate calls by outcome.",
	}, []string{"outcome"})

	AIState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ai_state",
		Help:      "Delegate state of the most recent session: 0 disabled, 1 probing, 2 available, 3 unavailable.",
	})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Open chat sessions.",
	})
)

const (
	PathAI    = "ai"
	PathRules = "rules"

	OutcomeOK = "ok"
)
