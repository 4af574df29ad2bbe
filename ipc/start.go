// File: ipc/start.go
// Author: momentics <momentics@gmail.com>
//
// Reactor binding for a started worker.

package ipc

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/momentics/hioload-ipc/api"
)

// Start binds the context to this worker's identity. The inbound pipe of
// self is registered for read readiness; the outbound pipe of every other
// active slot is registered with write interest disarmed until a write
// would block.
func (c *Context) Start(self int) error {
	switch {
	case c.closed:
		return api.ErrClosed
	case c.started:
		return api.ErrAlreadyStarted
	case self < 0 || self >= len(c.slots):
		return fmt.Errorf("%w: self %d", api.ErrUnknownSlot, self)
	}
	if c.loopback {
		c.self, c.started = self, true
		c.log = c.log.With(zap.Int("slot", self))
		c.log.Info("ipc started in loopback mode")
		return nil
	}
	if c.reactor == nil {
		return api.ErrNoReactor
	}
	if !c.slots[self].active {
		return fmt.Errorf("%w: self %d has no pipe", api.ErrUnknownSlot, self)
	}

	c.self = self
	peers := 0
	for i := range c.slots {
		s := &c.slots[i]
		if !s.active {
			continue
		}
		if err := c.bind(s); err != nil {
			c.unbindAll()
			c.self = -1
			return err
		}
		if i != self {
			peers++
		}
	}
	c.started = true
	c.log = c.log.With(zap.Int("slot", self))
	c.log.Info("ipc started", zap.Int("peers", peers))
	return nil
}

func (c *Context) bind(s *slot) error {
	var err error
	if s.index == c.self {
		err = c.reactor.Register(uintptr(s.rfd), api.EventRead, c.onReadable)
		if err == nil {
			s.bound, s.side = s.rfd, sideRead
		}
	} else {
		err = c.reactor.Register(uintptr(s.wfd), 0, c.writeHandler(s))
		if err == nil {
			s.bound, s.side = s.wfd, sideWrite
		}
	}
	if err != nil {
		return fmt.Errorf("ipc: bind slot %d: %w", s.index, err)
	}
	return nil
}

func (c *Context) unbind(s *slot) {
	if s.bound == invalidFD {
		return
	}
	if err := c.reactor.Unregister(uintptr(s.bound)); err != nil {
		c.log.Debug("unregister failed", zap.Int("peer", s.index), zap.Error(err))
	}
	s.bound, s.side, s.armed = invalidFD, sideNone, false
}

func (c *Context) unbindAll() {
	for i := range c.slots {
		c.unbind(&c.slots[i])
	}
}
