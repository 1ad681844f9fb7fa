// Package metrics promotes the teacher's hand-rolled, mutex-guarded
// ProcessorMetrics counters (account-balance-processor/go/server/server.go)
// to real Prometheus instrumentation. Recorder never owns global
// registration state: callers pass their own *prometheus.Registry, the
// same way the teacher threads a metrics struct through its server
// rather than relying on the package-level default registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder wraps the counters and histograms the ledger engine and
// oracle gates report against.
type Recorder struct {
	executeOutcomes *prometheus.CounterVec
	gateEvaluations *prometheus.CounterVec
	executeLatency  prometheus.Histogram
}

// NewRecorder constructs a Recorder and registers its collectors
// against registry. Registering the same metric name twice against one
// registry returns the AlreadyRegisteredError from the second call;
// callers sharing a registry across Recorders should construct one
// Recorder and reuse it.
func NewRecorder(registry *prometheus.Registry) (*Recorder, error) {
	r := &Recorder{
		executeOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attestor_ledger_execute_total",
			Help: "Count of ledger Engine.Execute calls by outcome.",
		}, []string{"outcome", "reason"}),
		gateEvaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attestor_gate_evaluations_total",
			Help: "Count of arbitrage-freedom gate evaluations by gate id and result.",
		}, []string{"gate", "result"}),
		executeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "attestor_ledger_execute_latency_seconds",
			Help:    "Latency of ledger Engine.Execute calls.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{r.executeOutcomes, r.gateEvaluations, r.executeLatency} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RecordExecuteApplied records a transaction that was newly applied.
func (r *Recorder) RecordExecuteApplied() {
	r.executeOutcomes.WithLabelValues("applied", "").Inc()
}

// RecordExecuteAlreadyApplied records a transaction short-circuited by
// idempotency.
func (r *Recorder) RecordExecuteAlreadyApplied() {
	r.executeOutcomes.WithLabelValues("already_applied", "").Inc()
}

// RecordExecuteRejected records a transaction that Execute refused to
// apply, labelled by the reason (e.g. "unregistered_account",
// "conservation_violation").
func (r *Recorder) RecordExecuteRejected(reason string) {
	r.executeOutcomes.WithLabelValues("rejected", reason).Inc()
}

// ObserveExecuteLatency records the duration of one Execute call in
// seconds.
func (r *Recorder) ObserveExecuteLatency(seconds float64) {
	r.executeLatency.Observe(seconds)
}

// RecordGateEvaluation records one gate's pass/fail outcome, labelled
// by its id (e.g. "AF-YC-04", "AF-VS-02").
func (r *Recorder) RecordGateEvaluation(gate string, passed bool) {
	result := "fail"
	if passed {
		result = "pass"
	}
	r.gateEvaluations.WithLabelValues(gate, result).Inc()
}
