package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livix_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "livix_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RankingPasses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livix_ranking_passes_total",
			Help: "Total number of roommate ranking passes by candidate source",
		},
		[]string{"source"},
	)

	RankingCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "livix_ranking_candidates",
			Help:    "Number of candidates scored per ranking pass",
			Buckets: []float64{0, 10, 50, 100, 250, 500, 1000},
		},
	)

	RoommateMatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "livix_roommate_matches_total",
			Help: "Total number of mutual roommate likes",
		},
	)

	ChatSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "livix_chat_subscribers",
			Help: "Number of active chat stream subscribers",
		},
	)
)
