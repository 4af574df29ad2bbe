// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides a poll-mode readiness reactor implementing api.Reactor.
// On Linux it is backed by level-triggered epoll; other platforms get a stub
// constructor returning api.ErrUnsupported.
package reactor
