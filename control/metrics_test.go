package control_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ipc/control"
)

func TestMetricsSnapshot(t *testing.T) {
	m := control.NewMetrics(nil)
	m.AlertsSent.Add(3)
	m.Dropped(control.DropClosed, 2)
	m.Dropped(control.DropClosed, 0)
	m.SetQueueDepth(4, 7)

	snap := m.GetSnapshot()
	assert.Equal(t, 3.0, snap["ipc_alerts_sent_total"])
	assert.Equal(t, 2.0, snap["ipc_alerts_dropped_total{reason=closed}"])
	assert.Equal(t, 7.0, snap["ipc_queue_depth{slot=4}"])
}

func TestMetricsHostRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := control.NewMetrics(reg)
	m.WriteBlocked.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.WriteBlocked))
	n, err := testutil.GatherAndCount(reg, "ipc_write_blocked_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Panics(t, func() { control.NewMetrics(reg) }, "duplicate registration")
}
