//go:build !linux

// File: reactor/reactor_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package reactor

import (
	"go.uber.org/zap"

	"github.com/momentics/hioload-ipc/api"
)

// Epoll is unavailable on this platform.
type Epoll struct{}

// NewEpoll returns api.ErrUnsupported on platforms without epoll.
func NewEpoll(*zap.Logger) (*Epoll, error) {
	return nil, api.ErrUnsupported
}

func (*Epoll) Register(uintptr, api.FDEventType, api.FDCallback) error { return api.ErrUnsupported }
func (*Epoll) Arm(uintptr, api.FDEventType) error { return api.ErrUnsupported }
func (*Epoll) Unregister(uintptr) error { return api.ErrUnsupported }
func (*Epoll) Poll(int) (int, error) { return 0, api.ErrUnsupported }
func (*Epoll) Close() error { return nil }
