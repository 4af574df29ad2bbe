// File: ipc/inherit.go
// Author: momentics <momentics@gmail.com>
//
// Handing provisioned pipes to spawned workers. Go processes cannot fork,
// so the parent passes every pipe end to each child as inherited
// descriptors, and the child rebuilds the same slot table from them.

package ipc

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/momentics/hioload-ipc/api"
)

// LayoutEnv is the environment variable conventionally used to pass a
// Layout to a child process.
const LayoutEnv = "IPC_LAYOUT"

// Layout lists the slots whose pipe ends are passed to a child, in the
// order of the descriptor pairs.
type Layout []int

// String encodes the layout as comma-separated slot numbers.
func (l Layout) String() string {
	parts := make([]string, len(l))
	for i, s := range l {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

// ParseLayout decodes the output of Layout.String.
func ParseLayout(s string) (Layout, error) {
	if s == "" {
		return Layout{}, nil
	}
	parts := strings.Split(s, ",")
	l := make(Layout, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("ipc: bad layout entry %q: %w", p, err)
		}
		l[i] = n
	}
	return l, nil
}

// Handoff returns the descriptors of every active slot as (read, write)
// pairs together with their Layout. The descriptors stay owned by c; a
// spawner passes them to children (e.g. syscall.ProcAttr.Files) and
// closes c once all workers are running.
func (c *Context) Handoff() ([]uintptr, Layout) {
	var (
		fds    []uintptr
		layout Layout
	)
	for i := range c.slots {
		s := &c.slots[i]
		if !s.active {
			continue
		}
		fds = append(fds, uintptr(s.rfd), uintptr(s.wfd))
		layout = append(layout, s.index)
	}
	return fds, layout
}

// Adopt takes ownership of inherited descriptor pairs: fds[2i] and
// fds[2i+1] become the read and write end of slot layout[i]. Every
// descriptor is switched to nonblocking, close-on-exec mode.
func (c *Context) Adopt(fds []uintptr, layout Layout) error {
	switch {
	case c.closed:
		return api.ErrClosed
	case c.started:
		return api.ErrAlreadyStarted
	case len(fds) != 2*len(layout):
		return fmt.Errorf("ipc: %d descriptors for %d slots", len(fds), len(layout))
	}
	// Nothing is activated until every entry has been checked.
	seen := make(map[int]struct{}, len(layout))
	for i, idx := range layout {
		if idx < 0 || idx >= len(c.slots) {
			return fmt.Errorf("%w: layout entry %d", api.ErrUnknownSlot, idx)
		}
		if _, dup := seen[idx]; dup || c.slots[idx].active {
			return fmt.Errorf("%w: %d", api.ErrSlotInUse, idx)
		}
		seen[idx] = struct{}{}
		for _, fd := range fds[2*i : 2*i+2] {
			if err := setupFD(int(fd)); err != nil {
				return api.NewError(api.ErrCodeInternal, "inherited pipe setup failed").
					WithContext("slot", idx).WithContext("fd", int(fd)).Wrap(err)
			}
		}
	}
	for i, idx := range layout {
		s := &c.slots[idx]
		s.rfd, s.wfd, s.active = int(fds[2*i]), int(fds[2*i+1]), true
	}
	c.log.Debug("adopted inherited pipes", zap.Stringer("layout", layout))
	return nil
}

// Inherit adopts descriptor pairs numbered consecutively from firstFD, the
// way they appear in a child started with them after stdio.
func (c *Context) Inherit(firstFD int, layout Layout) error {
	fds := make([]uintptr, 2*len(layout))
	for i := range fds {
		fds[i] = uintptr(firstFD + i)
	}
	return c.Adopt(fds, layout)
}
