package drips

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus metrics the clients report into.
// Optional: clients constructed without one record nothing.
type Metrics struct {
	// Contract interface metrics
	ContractCalls    *prometheus.CounterVec
	ContractFailures *prometheus.CounterVec

	// Subgraph collaborator metrics
	SubgraphQueries  *prometheus.CounterVec
	SubgraphFailures *prometheus.CounterVec
}

// NewMetrics initializes and registers Prometheus metrics
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(nil)
}

// NewMetricsWithRegistry initializes and registers Prometheus metrics with a custom registry
func NewMetricsWithRegistry(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		ContractCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "drips_contract_calls_total",
			Help: "Number of contract interface invocations by method",
		}, []string{"chainID", "method"}),
		ContractFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "drips_contract_failures_total",
			Help: "Number of failed contract interface invocations by method",
		}, []string{"chainID", "method"}),
		SubgraphQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "drips_subgraph_queries_total",
			Help: "Number of subgraph queries by operation",
		}, []string{"chainID", "operation"}),
		SubgraphFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "drips_subgraph_failures_total",
			Help: "Number of failed subgraph queries by operation",
		}, []string{"chainID", "operation"}),
	}
}

// observeCall bumps the call counter and, when err is non-nil, the failure
// counter. Safe on a nil receiver so clients can skip metrics wiring.
func (m *Metrics) observeCall(chainID uint32, method string, err error) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"chainID": strconv.FormatUint(uint64(chainID), 10), "method": method}
	m.ContractCalls.With(labels).Inc()
	if err != nil {
		m.ContractFailures.With(labels).Inc()
	}
}

// observeSubgraph bumps the subgraph query counters.
func (m *Metrics) observeSubgraph(chainID uint32, operation string, err error) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"chainID": strconv.FormatUint(uint64(chainID), 10), "operation": operation}
	m.SubgraphQueries.With(labels).Inc()
	if err != nil {
		m.SubgraphFailures.With(labels).Inc()
	}
}
