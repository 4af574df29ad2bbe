// File: ipc/context.go
// Author: momentics <momentics@gmail.com>
//
// IPC context: slot table, dispatch handler and lifecycle.

package ipc

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/momentics/hioload-ipc/api"
	"github.com/momentics/hioload-ipc/control"
	"github.com/momentics/hioload-ipc/core/protocol"
)

// noCopy triggers go vet's copylocks check on accidental copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Context is the per-process IPC state. Create it with New, provision
// pipes with Open in the parent, then Start it in each worker.
type Context struct {
	_ noCopy

	slots   []slot
	handler api.AlertHandler
	self    int
	started bool
	closed  bool

	reactor  api.Reactor
	assigner api.SlotAssigner
	log      *zap.Logger
	metrics  *control.Metrics

	policy   control.QueuePolicy
	limit    int
	loopback bool

	rbuf [protocol.FrameSize]byte
}

// New allocates a context with every slot inactive.
func New(opts ...Option) *Context {
	o := options{cfg: control.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.metrics == nil {
		o.metrics = control.NewMetrics(nil)
	}
	if o.assigner == nil {
		o.assigner = SequentialAssigner{}
	}
	log := o.log.Named("ipc")
	cfg := o.cfg
	if err := cfg.Validate(); err != nil {
		cfg = repairConfig(cfg)
		log.Warn("invalid ipc config, using defaults for rejected fields",
			zap.Error(err), zap.Int("max_processes", cfg.MaxProcesses),
			zap.String("queue_policy", string(cfg.QueuePolicy)), zap.Int("queue_limit", cfg.QueueLimit))
	}
	nslots := cfg.MaxProcesses

	c := &Context{
		slots:    make([]slot, nslots),
		self:     -1,
		reactor:  o.reactor,
		assigner: o.assigner,
		log:      log,
		metrics:  o.metrics,
		policy:   cfg.QueuePolicy,
		limit:    cfg.QueueLimit,
		loopback: cfg.Loopback,
	}
	for i := range c.slots {
		c.slots[i].init(i)
	}
	c.log.Debug("created ipc context", zap.Int("max_processes", nslots))
	return c
}

// repairConfig replaces every field group Validate rejects with its
// default. Loopback is kept as given.
func repairConfig(cfg control.Config) control.Config {
	def := control.Default()
	if cfg.MaxProcesses < 1 || cfg.MaxProcesses > protocol.MaxProcesses {
		cfg.MaxProcesses = def.MaxProcesses
	}
	queue := def
	queue.QueuePolicy, queue.QueueLimit = cfg.QueuePolicy, cfg.QueueLimit
	if queue.Validate() != nil {
		cfg.QueuePolicy, cfg.QueueLimit = def.QueuePolicy, def.QueueLimit
	}
	cfg.Log = def.Log
	return cfg
}

// SetHandler registers the dispatch callback. A later call replaces it.
func (c *Context) SetHandler(h api.AlertHandler) {
	c.handler = h
}

// Self returns the slot passed to Start, or -1 before Start.
func (c *Context) Self() int { return c.self }

// Active reports whether slot has a provisioned pipe pair.
func (c *Context) Active(slot int) bool {
	return slot >= 0 && slot < len(c.slots) && c.slots[slot].active
}

// Pending returns the number of frames queued for slot.
func (c *Context) Pending(slot int) int {
	if slot < 0 || slot >= len(c.slots) {
		return 0
	}
	return c.slots[slot].queue.len()
}

// Close releases every reactor binding, discards queued frames and closes
// all pipe ends. It is idempotent.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var err error
	for i := range c.slots {
		s := &c.slots[i]
		if !s.active {
			continue
		}
		c.unbind(s)
		if n := s.queue.reset(); n > 0 {
			c.metrics.Dropped(control.DropClosed, n)
			c.metrics.SetQueueDepth(s.index, 0)
			c.log.Debug("discarded queued alerts", zap.Int("peer", s.index), zap.Int("frames", n))
		}
		err = multierr.Append(err, s.closePipe())
	}
	c.log.Debug("closed ipc context")
	return err
}

// Destroy closes the context and drops the slot table. The context must
// not be used afterwards.
func (c *Context) Destroy() {
	if err := c.Close(); err != nil {
		c.log.Warn("close failed during destroy", zap.Error(err))
	}
	c.slots = nil
	c.handler = nil
}

func (c *Context) dispatch(a protocol.Alert) {
	if c.handler == nil {
		c.metrics.Dropped(control.DropNoHandler, 1)
		c.log.Debug("no alert handler, dropping", zap.Int32("src", a.Src), zap.Uint32("code", a.Code))
		return
	}
	c.handler.HandleAlert(int(a.Src), a.Code, a.Payload)
}
