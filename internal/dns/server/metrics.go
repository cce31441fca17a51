package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Package-level metrics, registered against the default registry exactly
// once at process start, matching the teacher's promauto style — a Server
// only ever needs one set of collectors no matter how many *Server values
// get constructed (as tests do).
var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zns_queries_total",
		Help: "DNS requests handled, by opcode.",
	}, []string{"opcode"})

	rcodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zns_responses_total",
		Help: "DNS responses sent, by RCODE.",
	}, []string{"rcode"})

	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zns_cache_hits_total",
		Help: "Query responses served from the response cache.",
	})

	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zns_cache_misses_total",
		Help: "Query responses that missed the response cache.",
	})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "zns_request_duration_seconds",
		Help:    "Time to fully handle one DNS request.",
		Buckets: prometheus.DefBuckets,
	})
)

// metrics is a thin handle onto the package-level collectors, kept as a
// field on Server so the dispatcher's call sites read the same either way
// regardless of how the collectors themselves are wired up.
type metrics struct {
	queriesTotal   *prometheus.CounterVec
	rcodesTotal    *prometheus.CounterVec
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	requestLatency prometheus.Histogram
}

func newMetrics() *metrics {
	return &metrics{
		queriesTotal:   queriesTotal,
		rcodesTotal:    rcodesTotal,
		cacheHits:      cacheHitsTotal,
		cacheMisses:    cacheMissesTotal,
		requestLatency: requestDuration,
	}
}
