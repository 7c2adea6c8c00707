// Package metrics provides run-level counters for a scan.
// Counters are atomic so probes on different goroutines can record freely.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds scan counters.
type Metrics struct {
	// RPC metrics
	rpcCallsTotal   atomic.Int64
	rpcErrorsTotal  atomic.Int64
	rpcLatencyNanos atomic.Int64

	// Target metrics
	targetsTotal  atomic.Int64
	targetsFailed atomic.Int64

	// Findings recorded across all targets
	findingsTotal atomic.Int64
}

// Global is the process-wide metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordRPCCall records one RPC exchange with its duration and outcome.
func (m *Metrics) RecordRPCCall(duration time.Duration, err error) {
	m.rpcCallsTotal.Add(1)
	m.rpcLatencyNanos.Add(duration.Nanoseconds())

	if err != nil {
		m.rpcErrorsTotal.Add(1)
	}
}

// RecordTarget records one scanned target.
func (m *Metrics) RecordTarget(failed bool) {
	m.targetsTotal.Add(1)
	if failed {
		m.targetsFailed.Add(1)
	}
}

// RecordFindings adds n recorded balances.
func (m *Metrics) RecordFindings(n int) {
	m.findingsTotal.Add(int64(n))
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	RPCCallsTotal   int64   `json:"rpc_calls_total"`
	RPCErrorsTotal  int64   `json:"rpc_errors_total"`
	RPCLatencyAvgMs float64 `json:"rpc_latency_avg_ms"`
	TargetsTotal    int64   `json:"targets_total"`
	TargetsFailed   int64   `json:"targets_failed"`
	FindingsTotal   int64   `json:"findings_total"`
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		RPCCallsTotal:   m.rpcCallsTotal.Load(),
		RPCErrorsTotal:  m.rpcErrorsTotal.Load(),
		RPCLatencyAvgMs: m.RPCLatencyAvgMs(),
		TargetsTotal:    m.targetsTotal.Load(),
		TargetsFailed:   m.targetsFailed.Load(),
		FindingsTotal:   m.findingsTotal.Load(),
	}
}

// RPCCallsTotal returns the total number of RPC calls made.
func (m *Metrics) RPCCallsTotal() int64 {
	return m.rpcCallsTotal.Load()
}

// RPCErrorsTotal returns the total number of failed RPC calls.
func (m *Metrics) RPCErrorsTotal() int64 {
	return m.rpcErrorsTotal.Load()
}

// RPCLatencyAvgMs returns the average RPC latency in milliseconds.
// Returns 0 if no calls have been made.
func (m *Metrics) RPCLatencyAvgMs() float64 {
	calls := m.rpcCallsTotal.Load()
	if calls == 0 {
		return 0
	}
	nanos := m.rpcLatencyNanos.Load()
	return float64(nanos) / float64(calls) / 1e6
}

// Reset resets all metrics to zero.
func (m *Metrics) Reset() {
	m.rpcCallsTotal.Store(0)
	m.rpcErrorsTotal.Store(0)
	m.rpcLatencyNanos.Store(0)
	m.targetsTotal.Store(0)
	m.targetsFailed.Store(0)
	m.findingsTotal.Store(0)
}
