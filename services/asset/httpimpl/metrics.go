package httpimpl

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusAssetHTTPGetChain          *prometheus.CounterVec
	prometheusAssetHTTPGetChainLength    *prometheus.CounterVec
	prometheusAssetHTTPGetNodes          *prometheus.CounterVec
	prometheusAssetHTTPSubmitTransaction *prometheus.CounterVec
	prometheusAssetHTTPGetBalance        *prometheus.CounterVec
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func newRequestCounter(name, help string) *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ritcoin",
			Subsystem: "asset",
			Name:      name,
			Help:      help,
		},
		[]string{
			"function",
			"operation",
		},
	)
}

func _initPrometheusMetrics() {
	prometheusAssetHTTPGetChain = newRequestCounter("http_get_chain", "Number of chain snapshot requests")
	prometheusAssetHTTPGetChainLength = newRequestCounter("http_get_chain_length", "Number of chain length requests")
	prometheusAssetHTTPGetNodes = newRequestCounter("http_get_nodes", "Number of peer list requests")
	prometheusAssetHTTPSubmitTransaction = newRequestCounter("http_submit_transaction", "Number of submitted transactions")
	prometheusAssetHTTPGetBalance = newRequestCounter("http_get_balance", "Number of balance requests")
}
