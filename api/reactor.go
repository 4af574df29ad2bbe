// File: api/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Defines the abstract interface for the host event reactor that drives
// alert pipes (epoll on Linux, or a manual fake in tests).

package api

// FDEventType is a bit set of readiness conditions.
type FDEventType uint8

const (
	EventRead FDEventType = 1 << iota
	EventWrite
	EventError
)

// FDCallback is invoked on the reactor goroutine when fd becomes ready.
type FDCallback func(fd uintptr, events FDEventType)

// Reactor defines the readiness-notification loop this library plugs into.
// All methods are called from the reactor goroutine.
type Reactor interface {
	// Register associates fd with cb. Only the interest bits in events
	// are armed; a zero mask registers the fd disarmed.
	Register(fd uintptr, events FDEventType, cb FDCallback) error

	// Arm replaces the interest set of an already registered fd.
	Arm(fd uintptr, events FDEventType) error

	// Unregister removes fd from the interest set and drops its callback.
	Unregister(fd uintptr) error
}
