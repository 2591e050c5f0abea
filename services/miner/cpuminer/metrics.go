package cpuminer

import (
	"sync"

	"github.com/bsv-blockchain/ritcoin/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusBlockMined    prometheus.Histogram
	prometheusHashesTried   prometheus.Counter
	prometheusMineCancelled prometheus.Counter
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusBlockMined = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ritcoin",
			Subsystem: "miner",
			Name:      "block_mined",
			Help:      "Histogram of proof-of-work search duration",
			Buckets:   util.MetricsBucketsSeconds,
		},
	)

	prometheusHashesTried = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ritcoin",
			Subsystem: "miner",
			Name:      "hashes_tried",
			Help:      "Number of block header hashes computed",
		},
	)

	prometheusMineCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ritcoin",
			Subsystem: "miner",
			Name:      "mine_cancelled",
			Help:      "Number of proof-of-work searches abandoned",
		},
	)
}
