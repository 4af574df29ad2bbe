// File: ipc/options.go
// Author: momentics <momentics@gmail.com>

package ipc

import (
	"go.uber.org/zap"

	"github.com/momentics/hioload-ipc/api"
	"github.com/momentics/hioload-ipc/control"
)

// Option configures a Context at creation.
type Option func(*options)

type options struct {
	cfg      control.Config
	reactor  api.Reactor
	assigner api.SlotAssigner
	log      *zap.Logger
	metrics  *control.Metrics
}

// WithConfig applies cfg. New replaces fields that fail Validate with
// their defaults and logs a warning.
func WithConfig(cfg control.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithReactor sets the host reactor used by Start.
func WithReactor(r api.Reactor) Option {
	return func(o *options) { o.reactor = r }
}

// WithSlotAssigner sets how Open maps workers to slots.
// Defaults to SequentialAssigner.
func WithSlotAssigner(a api.SlotAssigner) Option {
	return func(o *options) { o.assigner = a }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics sets the metrics sink. Defaults to an unregistered set.
func WithMetrics(m *control.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithQueuePolicy bounds every peer's write queue to limit frames.
func WithQueuePolicy(p control.QueuePolicy, limit int) Option {
	return func(o *options) {
		o.cfg.QueuePolicy = p
		o.cfg.QueueLimit = limit
	}
}

// WithLoopback dispatches every sent alert to the local handler instead
// of writing it to a pipe.
func WithLoopback(on bool) Option {
	return func(o *options) { o.cfg.Loopback = on }
}
