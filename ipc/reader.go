// File: ipc/reader.go
// Author: momentics <momentics@gmail.com>
//
// Inbound pipe reader and alert dispatch.

package ipc

import (
	"errors"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-ipc/api"
	"github.com/momentics/hioload-ipc/core/protocol"
)

// onReadable drains the inbound pipe one frame per read until it would
// block. EOF, a short frame or any other read error unbinds the pipe.
func (c *Context) onReadable(_ uintptr, _ api.FDEventType) {
	if c.closed || c.self < 0 {
		return
	}
	s := &c.slots[c.self]
	for s.side == sideRead {
		n, err := unix.Read(s.rfd, c.rbuf[:])
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			return
		case err != nil:
			c.readFailed(s, err)
			return
		case n == 0:
			c.readFailed(s, io.EOF)
			return
		}

		a, err := protocol.DecodeAlert(c.rbuf[:n])
		if err != nil {
			c.readFailed(s, err)
			return
		}
		c.metrics.AlertsReceived.Inc()
		if int(a.Dst) != c.self {
			// Delivered anyway; a mismatch points at skewed slot provisioning.
			c.metrics.DstMismatch.Inc()
			c.log.Warn("alert addressed to another slot, dispatching anyway",
				zap.Int32("src", a.Src), zap.Int32("dst", a.Dst), zap.Uint32("code", a.Code))
		}
		c.dispatch(a)
		if c.closed {
			return
		}
	}
}

func (c *Context) readFailed(s *slot, err error) {
	if errors.Is(err, io.EOF) {
		c.log.Warn("inbound pipe closed by all writers")
	} else {
		c.log.Error("inbound pipe read failed", zap.Error(err))
	}
	c.metrics.FatalIO.WithLabelValues("read").Inc()
	c.unbind(s)
}
