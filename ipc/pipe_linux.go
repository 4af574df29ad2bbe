//go:build linux

// File: ipc/pipe_linux.go
// Author: momentics <momentics@gmail.com>

package ipc

import "golang.org/x/sys/unix"

// newPipe creates a pipe with both ends nonblocking and close-on-exec
// atomically, so a concurrent ForkExec never inherits it.
func newPipe() ([2]int, error) {
	var p [2]int
	err := unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC)
	return p, err
}
