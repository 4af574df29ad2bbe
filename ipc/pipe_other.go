//go:build !linux

// File: ipc/pipe_other.go
// Author: momentics <momentics@gmail.com>

package ipc

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// newPipe falls back to pipe(2) plus fcntl where pipe2 is unavailable.
// ForkLock keeps the descriptors out of children forked in between.
func newPipe() ([2]int, error) {
	var p [2]int
	syscall.ForkLock.RLock()
	defer syscall.ForkLock.RUnlock()
	if err := unix.Pipe(p[:]); err != nil {
		return p, err
	}
	for _, fd := range p {
		if err := setupFD(fd); err != nil {
			closeFD(&p[0])
			closeFD(&p[1])
			return [2]int{invalidFD, invalidFD}, err
		}
	}
	return p, nil
}
