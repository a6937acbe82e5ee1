package sigindex

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	indexBuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dagmatch_sigindex_builds_total",
		Help: "kd-tree builds",
	})

	backoffRounds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dagmatch_sigindex_backoff_rounds",
		Help:    "Epsilon back-off retries per range search",
		Buckets: prometheus.LinearBuckets(0, 1, 10),
	})
)
