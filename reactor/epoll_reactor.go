//go:build linux

// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor - Linux epoll implementation.

package reactor

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-ipc/api"
)

const maxEvents = 128

// Epoll implements api.Reactor using level-triggered Linux epoll.
// Callbacks run on the goroutine that calls Poll.
type Epoll struct {
	epfd      int
	callbacks sync.Map // map[uintptr]api.FDCallback
	events    [maxEvents]unix.EpollEvent
	log       *zap.Logger
}

// NewEpoll creates a new epoll reactor. A nil logger disables logging.
func NewEpoll(log *zap.Logger) (*Epoll, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Epoll{epfd: epfd, log: log}, nil
}

func epollMask(events api.FDEventType) uint32 {
	var m uint32
	if events&api.EventRead != 0 {
		m |= unix.EPOLLIN
	}
	if events&api.EventWrite != 0 {
		m |= unix.EPOLLOUT
	}
	return m
}

// Register adds a file descriptor to the epoll watch list.
func (r *Epoll) Register(fd uintptr, events api.FDEventType, cb api.FDCallback) error {
	ev := unix.EpollEvent{Events: epollMask(events), Fd: int32(fd)}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, int(fd), &ev); err != nil {
		return fmt.Errorf("epoll ctl add fd %d: %w", fd, err)
	}
	r.callbacks.Store(fd, cb)
	return nil
}

// Arm replaces the interest set of a registered descriptor.
func (r *Epoll) Arm(fd uintptr, events api.FDEventType) error {
	ev := unix.EpollEvent{Events: epollMask(events), Fd: int32(fd)}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_MOD, int(fd), &ev); err != nil {
		return fmt.Errorf("epoll ctl mod fd %d: %w", fd, err)
	}
	return nil
}

// Unregister removes a file descriptor from the epoll watch list.
func (r *Epoll) Unregister(fd uintptr) error {
	r.callbacks.Delete(fd)
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, int(fd), nil); err != nil {
		return fmt.Errorf("epoll ctl del fd %d: %w", fd, err)
	}
	return nil
}

// Poll waits up to timeoutMs for readiness and runs the callbacks of ready
// descriptors. timeoutMs < 0 blocks indefinitely. It returns the number of
// callbacks invoked.
func (r *Epoll) Poll(timeoutMs int) (int, error) {
	if timeoutMs < 0 {
		timeoutMs = -1
	}
	n, err := unix.EpollWait(r.epfd, r.events[:], timeoutMs)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return 0, nil
		}
		return 0, fmt.Errorf("epoll wait: %w", err)
	}

	fired := 0
	for i := 0; i < n; i++ {
		ev := r.events[i]
		fd := uintptr(ev.Fd)

		// A callback earlier in this batch may have unregistered fd.
		val, ok := r.callbacks.Load(fd)
		if !ok {
			continue
		}

		var eventType api.FDEventType
		if ev.Events&unix.EPOLLIN != 0 {
			eventType |= api.EventRead
		}
		if ev.Events&unix.EPOLLOUT != 0 {
			eventType |= api.EventWrite
		}
		if ev.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
			eventType |= api.EventError
		}

		r.invoke(val.(api.FDCallback), fd, eventType)
		fired++
	}
	return fired, nil
}

// invoke keeps the loop alive when a callback panics.
func (r *Epoll) invoke(cb api.FDCallback, fd uintptr, events api.FDEventType) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("reactor callback panicked", zap.Uintptr("fd", fd), zap.Any("panic", p))
		}
	}()
	cb(fd, events)
}

// Close releases the epoll file descriptor.
func (r *Epoll) Close() error {
	return unix.Close(r.epfd)
}
