package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	scanerr "github.com/mrz1836/evmscan/pkg/errors"
)

func TestMetrics_RecordRPCCall(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	m.RecordRPCCall(100*time.Millisecond, nil)
	assert.Equal(t, int64(1), m.RPCCallsTotal())
	assert.Equal(t, int64(0), m.RPCErrorsTotal())

	m.RecordRPCCall(50*time.Millisecond, scanerr.ErrNetworkError)
	assert.Equal(t, int64(2), m.RPCCallsTotal())
	assert.Equal(t, int64(1), m.RPCErrorsTotal())
}

func TestMetrics_RecordTarget(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	m.RecordTarget(false)
	m.RecordTarget(true)
	m.RecordFindings(3)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.TargetsTotal)
	assert.Equal(t, int64(1), snap.TargetsFailed)
	assert.Equal(t, int64(3), snap.FindingsTotal)
}

func TestMetrics_RPCLatencyAvg(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	// No calls
	assert.InDelta(t, 0.0, m.RPCLatencyAvgMs(), 0.001)

	// Two calls: 100ms and 200ms = 150ms avg
	m.RecordRPCCall(100*time.Millisecond, nil)
	m.RecordRPCCall(200*time.Millisecond, nil)

	assert.InDelta(t, 150.0, m.RPCLatencyAvgMs(), 1.0)
	assert.InDelta(t, 150.0, m.Snapshot().RPCLatencyAvgMs, 1.0)
}

func TestMetrics_Reset(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	m.RecordRPCCall(time.Millisecond, nil)
	m.RecordTarget(false)
	m.RecordFindings(1)

	m.Reset()

	assert.Equal(t, Snapshot{}, m.Snapshot())
}

func TestGlobal(t *testing.T) {
	assert.NotNil(t, Global)
}
