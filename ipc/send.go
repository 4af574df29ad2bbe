// File: ipc/send.go
// Author: momentics <momentics@gmail.com>
//
// Alert send path and the per-peer writer.

package ipc

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-ipc/api"
	"github.com/momentics/hioload-ipc/control"
	"github.com/momentics/hioload-ipc/core/protocol"
	"github.com/momentics/hioload-ipc/pool"
)

// Send queues an alert for dst and attempts delivery right away. Contract
// violations are rejected before any I/O. Once queued the alert is either
// delivered in order or discarded when the peer's pipe breaks; pipe
// failures are logged, never returned.
func (c *Context) Send(dst int, code uint32, payload []byte) error {
	switch {
	case c.closed:
		return api.ErrClosed
	case !c.started:
		return api.ErrNotStarted
	case dst < 0 || dst >= len(c.slots):
		return fmt.Errorf("%w: %d", api.ErrUnknownSlot, dst)
	}
	a := protocol.Alert{Src: int32(c.self), Dst: int32(dst), Code: code, Payload: payload}
	if err := protocol.Validate(a); err != nil {
		return err
	}

	if c.loopback {
		c.metrics.AlertsSent.Inc()
		c.dispatch(a)
		return nil
	}

	s := &c.slots[dst]
	if !s.active {
		return fmt.Errorf("%w: %d has no pipe", api.ErrUnknownSlot, dst)
	}
	if s.broken {
		c.metrics.Dropped(control.DropBrokenPipe, 1)
		c.log.Debug("peer pipe broken, dropping alert", zap.Int("peer", dst), zap.Uint32("code", code))
		return nil
	}

	if err := c.makeRoom(s); err != nil {
		return err
	}
	f := pool.GetFrame()
	if err := protocol.EncodeAlert(a, f[:]); err != nil {
		pool.PutFrame(f)
		return err
	}
	s.queue.push(f)
	c.log.Debug("queued alert", zap.Int("peer", dst), zap.Uint32("code", code), zap.Int("pending", s.queue.len()))

	c.drain(s)
	return nil
}

// makeRoom applies the queue policy when s is at its limit.
func (c *Context) makeRoom(s *slot) error {
	if c.limit <= 0 || s.queue.len() < c.limit {
		return nil
	}
	switch c.policy {
	case control.PolicyReject:
		c.metrics.Dropped(control.DropQueueFull, 1)
		return fmt.Errorf("%w: slot %d has %d pending", api.ErrQueueFull, s.index, s.queue.len())
	case control.PolicyDropOldest:
		pool.PutFrame(s.queue.pop())
		c.metrics.Dropped(control.DropOldest, 1)
		c.log.Debug("queue full, dropped oldest alert", zap.Int("peer", s.index))
	}
	return nil
}

// drain writes queued frames to the peer until the queue is empty or the
// pipe is full.
func (c *Context) drain(s *slot) {
	for s.queue.len() > 0 {
		f := s.queue.peek()
		n, err := unix.Write(s.wfd, f[:])
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			c.metrics.WriteBlocked.Inc()
			c.metrics.SetQueueDepth(s.index, s.queue.len())
			c.armWrite(s, true)
			return
		case err != nil:
			c.writeFailed(s, err)
			return
		case n != protocol.FrameSize:
			c.writeFailed(s, fmt.Errorf("%w: wrote %d of %d bytes", api.ErrShortFrame, n, protocol.FrameSize))
			return
		}
		pool.PutFrame(s.queue.pop())
		c.metrics.AlertsSent.Inc()
	}
	c.metrics.SetQueueDepth(s.index, 0)
	c.armWrite(s, false)
}

func (c *Context) writeHandler(s *slot) api.FDCallback {
	return func(_ uintptr, events api.FDEventType) {
		if s.side != sideWrite {
			return
		}
		if events&api.EventError != 0 && s.queue.len() == 0 {
			c.writeFailed(s, unix.EPIPE)
			return
		}
		c.drain(s)
	}
}

func (c *Context) armWrite(s *slot, on bool) {
	if s.armed == on || s.side != sideWrite {
		return
	}
	var ev api.FDEventType
	if on {
		ev = api.EventWrite
	}
	if err := c.reactor.Arm(uintptr(s.bound), ev); err != nil {
		c.log.Error("failed to change write interest", zap.Int("peer", s.index), zap.Bool("on", on), zap.Error(err))
		return
	}
	s.armed = on
}

// writeFailed tears down the outbound binding for good. Frames still
// queued are discarded.
func (c *Context) writeFailed(s *slot, err error) {
	dropped := s.queue.reset()
	c.log.Error("write to peer pipe failed, connection broken",
		zap.Int("peer", s.index), zap.Int("dropped", dropped), zap.Error(err))
	c.metrics.FatalIO.WithLabelValues("write").Inc()
	c.metrics.Dropped(control.DropBrokenPipe, dropped)
	c.metrics.SetQueueDepth(s.index, 0)
	s.broken = true
	c.unbind(s)
}
