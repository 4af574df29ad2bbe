// File: ipc/registry.go
// Author: momentics <momentics@gmail.com>
//
// Pipe registry: one nonblocking pipe per worker slot, provisioned before
// any worker is spawned.

package ipc

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-ipc/api"
)

const invalidFD = -1

type bindSide uint8

const (
	sideNone bindSide = iota
	sideRead
	sideWrite
)

// slot is the descriptor of one process slot. rfd is the inbound end
// (read by the slot's owner), wfd the outbound end (written by peers).
type slot struct {
	index  int
	rfd    int
	wfd    int
	active bool

	bound  int // fd registered with the reactor, or invalidFD
	side   bindSide
	armed  bool
	broken bool

	queue *writeQueue
}

func (s *slot) init(index int) {
	*s = slot{
		index: index,
		rfd:   invalidFD,
		wfd:   invalidFD,
		bound: invalidFD,
		queue: newWriteQueue(),
	}
}

// openPipe creates the slot's pipe and makes both ends nonblocking and
// close-on-exec. On failure no descriptor is left open.
func (s *slot) openPipe() error {
	p, err := newPipe()
	if err != nil {
		return api.NewError(api.ErrCodeResourceExhausted, "pipe() failed").
			WithContext("slot", s.index).Wrap(err)
	}
	s.rfd, s.wfd = p[0], p[1]
	s.active = true
	return nil
}

func setupFD(fd int) error {
	if err := unix.SetNonblock(fd, true); err != nil {
		return fmt.Errorf("set nonblocking: %w", err)
	}
	unix.CloseOnExec(fd)
	return nil
}

func closeFD(fd *int) error {
	if *fd == invalidFD {
		return nil
	}
	err := unix.Close(*fd)
	*fd = invalidFD
	return err
}

// closePipe closes both ends and marks the slot inactive.
func (s *slot) closePipe() error {
	err := multierr.Append(closeFD(&s.rfd), closeFD(&s.wfd))
	s.active = false
	s.broken = false
	if err != nil {
		return fmt.Errorf("ipc: close slot %d: %w", s.index, err)
	}
	return nil
}

// Open ensures every slot the assigner yields for workers 0..workers-1 has
// an active pipe. Slots that are already active are left untouched, so
// Open may be called again with a growing count. Any failure is returned;
// the slot being provisioned, or bound after Start, stays inactive.
func (c *Context) Open(workers int) error {
	if c.closed {
		return api.ErrClosed
	}
	if workers < 0 || workers > len(c.slots) {
		return fmt.Errorf("%w: %d workers, limit %d", api.ErrTooManyProcesses, workers, len(c.slots))
	}
	for i := 0; i < workers; i++ {
		idx, err := c.assigner.Assign(i)
		if err != nil {
			return fmt.Errorf("ipc: assign slot for worker %d: %w", i, err)
		}
		if idx < 0 || idx >= len(c.slots) {
			return fmt.Errorf("%w: worker %d assigned slot %d", api.ErrUnknownSlot, i, idx)
		}
		s := &c.slots[idx]
		if s.active {
			continue
		}
		if err := s.openPipe(); err != nil {
			c.log.Error("failed to provision pipe", zap.Int("peer", idx), zap.Error(err))
			return err
		}
		c.log.Debug("provisioned pipe", zap.Int("worker", i), zap.Int("peer", idx),
			zap.Int("rfd", s.rfd), zap.Int("wfd", s.wfd))
		if c.started && !c.loopback {
			if err := c.bind(s); err != nil {
				if cerr := s.closePipe(); cerr != nil {
					c.log.Warn("failed to release unbound pipe", zap.Int("peer", idx), zap.Error(cerr))
				}
				return err
			}
		}
	}
	return nil
}
