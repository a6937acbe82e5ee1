package matcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dagmatch_matcher_runs_total",
		Help: "Pairwise match runs by algorithm",
	}, []string{"algorithm"})

	matchExpansions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dagmatch_matcher_expansions_total",
		Help: "Solution Sets expanded across all runs",
	})

	matchTruncated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dagmatch_matcher_truncated_total",
		Help: "Runs whose frontier cap discarded viable branches",
	})

	matchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dagmatch_matcher_duration_seconds",
		Help:    "Wall time of one pairwise match",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	})
)
