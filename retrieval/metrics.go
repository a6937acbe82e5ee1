package retrieval

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dagmatch_retrieval_queries_total",
		Help: "Retrieval queries by outcome",
	}, []string{"outcome"})

	votesCast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dagmatch_retrieval_votes_total",
		Help: "Votes accepted across all queries",
	})

	candidatesReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dagmatch_retrieval_candidates",
		Help:    "Ranked candidates per query",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dagmatch_retrieval_query_duration_seconds",
		Help:    "Wall time of Retriever.Query",
		Buckets: prometheus.DefBuckets,
	})

	reloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dagmatch_engine_reloads_total",
		Help: "Engine index loads by source",
	}, []string{"source"})
)
