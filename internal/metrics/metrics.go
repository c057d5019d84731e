package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DownlineComputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chitfund_downline_computations_total",
			Help: "Total number of downline computations by cache outcome",
		},
		[]string{"cache"},
	)

	DownlineSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chitfund_downline_size",
			Help:    "Number of members in computed downlines",
			Buckets: prometheus.ExponentialBuckets(1, 3, 10), // 1 to 19683
		},
	)

	ChildQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chitfund_child_queries_total",
			Help: "Total number of batched child lookups against the member store",
		},
		[]string{"status"},
	)

	ReportItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chitfund_report_items_total",
			Help: "Total number of batch report items by status",
		},
		[]string{"status"},
	)

	ReportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chitfund_report_duration_seconds",
			Help:    "Duration of batch report builds in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~82s
		},
	)
)
