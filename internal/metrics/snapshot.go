// Package metrics exposes application metrics collectors.
package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-balances/internal/account/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	snapshotPhaseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "balance_snapshot",
		Name:      "phase_total",
		Help:      "Count of completed snapshot phases (scan, resolve, export).",
	}, []string{"phase", "network", "status"})

	snapshotPhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "balance_snapshot",
		Name:      "phase_duration_seconds",
		Help:      "Duration of snapshot phases.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 12), // 1s..~48d
	}, []string{"phase", "network", "status"})

	snapshotPhaseItems = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "balance_snapshot",
		Name:      "phase_items",
		Help:      "Number of items handled by the last run of a phase.",
	}, []string{"phase", "network"})

	snapshotScanHeightDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "balance_snapshot",
		Name:      "scan_height_duration_seconds",
		Help:      "Duration of fetching and extracting a single block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	snapshotResolveAccountDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "balance_snapshot",
		Name:      "resolve_account_duration_seconds",
		Help:      "Duration of resolving balance and code for a single address.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	snapshotProgress = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "balance_snapshot",
		Name:      "progress_items",
		Help:      "Items completed so far in the running phase.",
	}, []string{"phase", "network"})

	snapshotMissingFieldsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "balance_snapshot",
		Name:      "missing_address_fields_total",
		Help:      "Count of miner/from/to fields absent from scanned blocks.",
	}, []string{"network"})
)

// Snapshot tracks metrics for the balance snapshot pipeline.
type Snapshot struct {
	network model.Network
}

// NewSnapshot constructs a Snapshot collector with sane defaults.
func NewSnapshot(network model.Network) *Snapshot {
	if network == "" {
		network = "unknown"
	}
	return &Snapshot{network: network}
}

// ObservePhase records the outcome of a whole phase.
func (m Snapshot) ObservePhase(phase string, err error, items int, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	snapshotPhaseTotal.WithLabelValues(phase, string(m.network), status).Inc()
	snapshotPhaseDuration.WithLabelValues(phase, string(m.network), status).
		Observe(time.Since(started).Seconds())
	snapshotPhaseItems.WithLabelValues(phase, string(m.network)).Set(float64(items))
}

// ObserveScanHeight records fetching and extracting one block.
func (m Snapshot) ObserveScanHeight(err error, _ uint64, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	snapshotScanHeightDuration.WithLabelValues(string(m.network), status).
		Observe(time.Since(started).Seconds())
}

// ObserveResolveAccount records resolving one address.
func (m Snapshot) ObserveResolveAccount(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	snapshotResolveAccountDuration.WithLabelValues(string(m.network), status).
		Observe(time.Since(started).Seconds())
}

// SetProgress publishes how many items of a phase are done.
func (m Snapshot) SetProgress(phase string, done uint64) {
	snapshotProgress.WithLabelValues(phase, string(m.network)).Set(float64(done))
}

// ObserveMissingFields counts absent address fields.
func (m Snapshot) ObserveMissingFields(n int) {
	snapshotMissingFieldsTotal.WithLabelValues(string(m.network)).Add(float64(n))
}
