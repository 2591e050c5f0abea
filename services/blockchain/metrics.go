package blockchain

import (
	"sync"

	"github.com/bsv-blockchain/ritcoin/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusBlockchainLength        prometheus.Gauge
	prometheusBlockchainApplyBlock    prometheus.Counter
	prometheusBlockchainTxAccepted    prometheus.Counter
	prometheusBlockchainTxRejected    prometheus.Counter
	prometheusBlockchainTxEvicted     prometheus.Counter
	prometheusBlockchainChainsAdopted prometheus.Counter
	prometheusBlockchainVerifyChain   prometheus.Histogram
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusBlockchainLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ritcoin",
			Subsystem: "blockchain",
			Name:      "length",
			Help:      "Number of blocks in the local chain",
		},
	)

	prometheusBlockchainApplyBlock = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ritcoin",
			Subsystem: "blockchain",
			Name:      "apply_block",
			Help:      "Number of blocks appended to the local chain",
		},
	)

	prometheusBlockchainTxAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ritcoin",
			Subsystem: "blockchain",
			Name:      "tx_accepted",
			Help:      "Number of transactions accepted into the pending pool",
		},
	)

	prometheusBlockchainTxRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ritcoin",
			Subsystem: "blockchain",
			Name:      "tx_rejected",
			Help:      "Number of transactions rejected on submission",
		},
	)

	prometheusBlockchainTxEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ritcoin",
			Subsystem: "blockchain",
			Name:      "tx_evicted",
			Help:      "Number of pending transactions dropped while building a block",
		},
	)

	prometheusBlockchainChainsAdopted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ritcoin",
			Subsystem: "blockchain",
			Name:      "chains_adopted",
			Help:      "Number of times a longer peer chain replaced the local chain",
		},
	)

	prometheusBlockchainVerifyChain = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ritcoin",
			Subsystem: "blockchain",
			Name:      "verify_chain",
			Help:      "Histogram of full chain verification time",
			Buckets:   util.MetricsBucketsMilliSeconds,
		},
	)
}
