package flow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus metrics for workflow execution.
//
// All metrics are namespaced "flowdag":
//
//	inflight_runs            gauge     runs currently executing
//	runs_total               counter   finished runs, by outcome
//	                                   (completed / rejected / canceled)
//	node_latency_ms          histogram node execution time, by node type
//	                                   and terminal status
//	node_failures_total      counter   failed nodes, by error code
//	checkpoint_writes_total  counter   checkpoint appends, by outcome
//
// Pass nil wherever a *Metrics is accepted to disable collection; every
// method is a no-op on a nil receiver.
type Metrics struct {
	inflightRuns     prometheus.Gauge
	runsTotal        *prometheus.CounterVec
	nodeLatency      *prometheus.HistogramVec
	nodeFailures     *prometheus.CounterVec
	checkpointWrites *prometheus.CounterVec
}

// NewMetrics registers the engine metrics with the given registry
// (prometheus.DefaultRegisterer when nil).
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		inflightRuns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "flowdag",
			Name:      "inflight_runs",
			Help:      "Number of workflow runs currently executing",
		}),
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowdag",
			Name:      "runs_total",
			Help:      "Finished workflow runs by outcome",
		}, []string{"outcome"}),
		nodeLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flowdag",
			Name:      "node_latency_ms",
			Help:      "Node execution duration in milliseconds",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		}, []string{"node_type", "status"}),
		nodeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowdag",
			Name:      "node_failures_total",
			Help:      "Failed node executions by error code",
		}, []string{"code"}),
		checkpointWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowdag",
			Name:      "checkpoint_writes_total",
			Help:      "Checkpoint append attempts by outcome",
		}, []string{"outcome"}),
	}
}

// RunStarted increments the in-flight gauge.
func (m *Metrics) RunStarted() {
	if m == nil {
		return
	}
	m.inflightRuns.Inc()
}

// RunFinished decrements the in-flight gauge and counts the outcome.
func (m *Metrics) RunFinished(outcome string) {
	if m == nil {
		return
	}
	m.inflightRuns.Dec()
	m.runsTotal.WithLabelValues(outcome).Inc()
}

// NodeExecuted records one node's duration and terminal status.
func (m *Metrics) NodeExecuted(nodeType NodeType, status Status, d time.Duration) {
	if m == nil {
		return
	}
	m.nodeLatency.WithLabelValues(string(nodeType), string(status)).
		Observe(float64(d.Milliseconds()))
}

// NodeFailed counts a node failure by error code.
func (m *Metrics) NodeFailed(code Code) {
	if m == nil {
		return
	}
	m.nodeFailures.WithLabelValues(string(code)).Inc()
}

// CheckpointWrite counts a checkpoint append attempt.
func (m *Metrics) CheckpointWrite(ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.checkpointWrites.WithLabelValues(outcome).Inc()
}
