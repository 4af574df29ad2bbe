// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus metrics for alert traffic on one IPC context.
// Collectors live in a private registry so Snapshot works without any
// global state; a host may additionally register them on its own registry.

package control

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Drop reasons used as the "reason" label of AlertsDropped.
const (
	DropQueueFull  = "queue_full"
	DropOldest     = "drop_oldest"
	DropBrokenPipe = "broken_pipe"
	DropClosed     = "closed"
	DropNoHandler  = "no_handler"
)

// Metrics holds all IPC collectors.
type Metrics struct {
	AlertsSent     prometheus.Counter
	AlertsReceived prometheus.Counter
	AlertsDropped  *prometheus.CounterVec
	WriteBlocked   prometheus.Counter
	DstMismatch    prometheus.Counter
	FatalIO        *prometheus.CounterVec
	QueueDepth     *prometheus.GaugeVec

	registry *prometheus.Registry
}

// NewMetrics creates the collectors. When reg is non-nil they are also
// registered there and, as with promauto, a duplicate registration panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AlertsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ipc",
			Name:      "alerts_sent_total",
			Help:      "Alert frames fully written to a peer pipe.",
		}),
		AlertsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ipc",
			Name:      "alerts_received_total",
			Help:      "Alert frames read from the inbound pipe.",
		}),
		AlertsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ipc",
			Name:      "alerts_dropped_total",
			Help:      "Alert frames discarded before delivery.",
		}, []string{"reason"}),
		WriteBlocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ipc",
			Name:      "write_blocked_total",
			Help:      "Writes that hit EAGAIN and were deferred to the reactor.",
		}),
		DstMismatch: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ipc",
			Name:      "dst_mismatch_total",
			Help:      "Alerts received whose destination slot is not this process.",
		}),
		FatalIO: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ipc",
			Name:      "fatal_io_total",
			Help:      "Pipe bindings torn down after an unrecoverable error.",
		}, []string{"side"}),
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ipc",
			Name:      "queue_depth",
			Help:      "Frames waiting in a peer's write queue.",
		}, []string{"slot"}),
		registry: prometheus.NewRegistry(),
	}

	cs := m.collectors()
	m.registry.MustRegister(cs...)
	if reg != nil {
		reg.MustRegister(cs...)
	}
	return m
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.AlertsSent, m.AlertsReceived, m.AlertsDropped,
		m.WriteBlocked, m.DstMismatch, m.FatalIO, m.QueueDepth,
	}
}

// Dropped adds n to the drop counter for reason.
func (m *Metrics) Dropped(reason string, n int) {
	if n > 0 {
		m.AlertsDropped.WithLabelValues(reason).Add(float64(n))
	}
}

// SetQueueDepth records the pending frame count for slot.
func (m *Metrics) SetQueueDepth(slot, depth int) {
	m.QueueDepth.WithLabelValues(strconv.Itoa(slot)).Set(float64(depth))
}

// GetSnapshot returns current values keyed by metric name, with labels
// appended as name{k=v,...}.
func (m *Metrics) GetSnapshot() map[string]float64 {
	out := make(map[string]float64)
	families, err := m.registry.Gather()
	if err != nil {
		return out
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			key := mf.GetName()
			if labels := metric.GetLabel(); len(labels) > 0 {
				parts := make([]string, 0, len(labels))
				for _, lp := range labels {
					parts = append(parts, lp.GetName()+"="+lp.GetValue())
				}
				key += "{" + strings.Join(parts, ",") + "}"
			}
			switch {
			case metric.GetCounter() != nil:
				out[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				out[key] = metric.GetGauge().GetValue()
			}
		}
	}
	return out
}
