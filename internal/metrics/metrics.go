// Package metrics exposes the classifier pipeline's Prometheus surface
// (SPEC_FULL.md §A.6): counters for blocks processed and failed, a counter
// for recoverable per-transaction errors, and a histogram of
// block-processing latency. Adapted from the teacher's
// core/system_health_logging.go registry-plus-gauges-and-counters pattern,
// generalized from node health gauges to pipeline throughput counters.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry wraps a dedicated prometheus.Registry so the classifier's
// metrics never collide with whatever else shares the process (the
// teacher's HealthLogger does the same rather than using the global
// default registry).
type Registry struct {
	registry *prometheus.Registry

	blocksProcessed      prometheus.Counter
	blocksFailed         prometheus.Counter
	recoverableTxErrors  prometheus.Counter
	blockProcessDuration prometheus.Histogram
}

// New builds and registers the classifier's metric set.
func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		blocksProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "solmev_blocks_processed_total",
			Help: "Blocks successfully assembled and labelled.",
		}),
		blocksFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "solmev_blocks_failed_total",
			Help: "Blocks that failed with a fatal error (spec §7: MissingBlockTime and friends).",
		}),
		recoverableTxErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "solmev_recoverable_transaction_errors_total",
			Help: "Per-transaction and per-instruction errors recovered locally without failing the block.",
		}),
		blockProcessDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "solmev_block_process_duration_seconds",
			Help:    "Wall-clock time to assemble and label one block.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(r.blocksProcessed, r.blocksFailed, r.recoverableTxErrors, r.blockProcessDuration)
	return r
}

// Registry returns the underlying prometheus.Registry for a /metrics handler.
func (r *Registry) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveBlockSuccess records a successfully processed block and its
// processing duration.
func (r *Registry) ObserveBlockSuccess(d time.Duration) {
	r.blocksProcessed.Inc()
	r.blockProcessDuration.Observe(d.Seconds())
}

// ObserveBlockFailure records a block that failed with a fatal error.
func (r *Registry) ObserveBlockFailure() {
	r.blocksFailed.Inc()
}

// ObserveRecoverableError records a per-transaction or per-instruction
// error recovered locally (spec §7).
func (r *Registry) ObserveRecoverableError() {
	r.recoverableTxErrors.Inc()
}
