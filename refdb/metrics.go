package refdb

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dagmatch_refdb_cache_hits_total",
		Help: "ReadAt calls served from the decoded-DAG cache",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dagmatch_refdb_cache_misses_total",
		Help: "ReadAt calls that decoded a record",
	})
)
