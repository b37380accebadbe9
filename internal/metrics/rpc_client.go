package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "evm_rpc_client",
		Name:      "operations_total",
		Help:      "Count of node JSON-RPC attempts.",
	}, []string{"operation", "network", "status"})
	rpcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "evm_rpc_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of node JSON-RPC attempts.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "network", "status"})
	rpcRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "evm_rpc_client",
		Name:      "retries_total",
		Help:      "Count of JSON-RPC calls retried after a transport failure.",
	}, []string{"operation", "network"})
)

// RPCClient tracks metrics for JSON-RPC calls to the node.
type RPCClient struct {
	network model.Network
}

// NewRPCClient constructs a metrics collector for RPC calls.
func NewRPCClient(network model.Network) *RPCClient {
	if network == "" {
		network = "unknown"
	}
	return &RPCClient{network: network}
}

// Observe records a single RPC attempt outcome and duration.
func (m RPCClient) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	rpcRequestsTotal.WithLabelValues(operation, string(m.network), status).Inc()
	rpcRequestDuration.WithLabelValues(operation, string(m.network), status).Observe(time.Since(started).Seconds())
}

// ObserveRetry records that an RPC call is about to be retried.
func (m RPCClient) ObserveRetry(operation string) {
	rpcRetriesTotal.WithLabelValues(operation, string(m.network)).Inc()
}
