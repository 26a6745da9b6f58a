package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Estimator metrics
	EstimateRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitswap_estimate_requests_total",
			Help: "Total number of estimate requests",
		},
		[]string{"pair", "status"},
	)

	EstimateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "splitswap_estimate_duration_seconds",
			Help:    "Estimate duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"pair"},
	)

	EstimateKind = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitswap_estimate_kind_total",
			Help: "Published estimates by kind (single vs multi)",
		},
		[]string{"kind"},
	)

	SplitCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "splitswap_split_candidates",
		Help:    "Number of candidate splits materialized per estimate",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000},
	})

	// Batch executor metrics
	MulticallCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitswap_multicall_calls_total",
		Help: "Total number of individual calls submitted through aggregate3",
	})

	MulticallRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitswap_multicall_retries_total",
		Help: "Total number of sub-batch retry attempts",
	})

	MulticallSubBatchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitswap_multicall_subbatch_failures_total",
		Help: "Sub-batches that exhausted all retries",
	})

	// Executor metrics
	SwapSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitswap_swap_submissions_total",
			Help: "Swap transactions submitted, by outcome",
		},
		[]string{"status"},
	)

	ApprovalSubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitswap_approval_submissions_total",
		Help: "ERC20 approval transactions submitted",
	})

	// Price oracle metrics
	PriceUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitswap_price_updates_total",
			Help: "Price oracle refreshes by status",
		},
		[]string{"status"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitswap_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "splitswap_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
