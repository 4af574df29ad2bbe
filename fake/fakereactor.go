// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package fake

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-ipc/api"
)

// Reactor is a single-goroutine api.Reactor for tests. It keeps
// registrations in a map and either fires callbacks on demand (Fire) or
// polls the armed descriptors once with poll(2) (Poll).
type Reactor struct {
	regs map[uintptr]*registration
}

type registration struct {
	events api.FDEventType
	cb     api.FDCallback
}

// NewReactor returns an empty fake reactor.
func NewReactor() *Reactor {
	return &Reactor{regs: make(map[uintptr]*registration)}
}

func (r *Reactor) Register(fd uintptr, events api.FDEventType, cb api.FDCallback) error {
	if _, ok := r.regs[fd]; ok {
		return fmt.Errorf("fake: fd %d already registered", fd)
	}
	r.regs[fd] = &registration{events: events, cb: cb}
	return nil
}

func (r *Reactor) Arm(fd uintptr, events api.FDEventType) error {
	reg, ok := r.regs[fd]
	if !ok {
		return fmt.Errorf("fake: fd %d not registered", fd)
	}
	reg.events = events
	return nil
}

func (r *Reactor) Unregister(fd uintptr) error {
	if _, ok := r.regs[fd]; !ok {
		return fmt.Errorf("fake: fd %d not registered", fd)
	}
	delete(r.regs, fd)
	return nil
}

// Registered reports whether fd currently has a callback.
func (r *Reactor) Registered(fd uintptr) bool {
	_, ok := r.regs[fd]
	return ok
}

// Interest returns the armed event mask of fd.
func (r *Reactor) Interest(fd uintptr) api.FDEventType {
	if reg, ok := r.regs[fd]; ok {
		return reg.events
	}
	return 0
}

// Len returns the number of registrations.
func (r *Reactor) Len() int { return len(r.regs) }

// Fire invokes the callback of fd regardless of its interest set.
func (r *Reactor) Fire(fd uintptr, events api.FDEventType) bool {
	reg, ok := r.regs[fd]
	if !ok {
		return false
	}
	reg.cb(fd, events)
	return true
}

// Poll runs one poll(2) pass over armed descriptors, in fd order, and
// fires the ready ones. It returns the number of callbacks invoked.
func (r *Reactor) Poll(timeoutMs int) (int, error) {
	fds := make([]unix.PollFd, 0, len(r.regs))
	for fd, reg := range r.regs {
		var ev int16
		if reg.events&api.EventRead != 0 {
			ev |= unix.POLLIN
		}
		if reg.events&api.EventWrite != 0 {
			ev |= unix.POLLOUT
		}
		if ev != 0 {
			fds = append(fds, unix.PollFd{Fd: int32(fd), Events: ev})
		}
	}
	if len(fds) == 0 {
		return 0, nil
	}
	sort.Slice(fds, func(i, j int) bool { return fds[i].Fd < fds[j].Fd })

	n, err := unix.Poll(fds, timeoutMs)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, fmt.Errorf("fake: poll: %w", err)
	}
	if n == 0 {
		return 0, nil
	}

	fired := 0
	for _, pfd := range fds {
		if pfd.Revents == 0 {
			continue
		}
		var ev api.FDEventType
		if pfd.Revents&unix.POLLIN != 0 {
			ev |= api.EventRead
		}
		if pfd.Revents&unix.POLLOUT != 0 {
			ev |= api.EventWrite
		}
		if pfd.Revents&(unix.POLLERR|unix.POLLHUP) != 0 {
			ev |= api.EventError
		}
		if r.Fire(uintptr(pfd.Fd), ev) {
			fired++
		}
	}
	return fired, nil
}
