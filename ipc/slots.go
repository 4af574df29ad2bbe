// File: ipc/slots.go
// Author: momentics <momentics@gmail.com>
//
// Slot assigners shipped with the registry.

package ipc

import (
	"fmt"

	"github.com/momentics/hioload-ipc/api"
	"github.com/momentics/hioload-ipc/core/protocol"
)

// SequentialAssigner gives worker i slot i.
type SequentialAssigner struct{}

// Assign implements api.SlotAssigner.
func (SequentialAssigner) Assign(worker int) (int, error) {
	if worker < 0 || worker >= protocol.MaxProcesses {
		return -1, fmt.Errorf("%w: worker %d", api.ErrTooManyProcesses, worker)
	}
	return worker, nil
}

// FirstFreeAssigner predicts the slots of a spawner that scans its process
// table linearly and takes the first free entry for every new process.
// Entries at or beyond Limit are considered free.
type FirstFreeAssigner struct {
	// Occupied reports whether the host already uses slot.
	Occupied func(slot int) bool
	// Limit is one past the highest slot the host has ever handed out.
	Limit int
}

// Assign implements api.SlotAssigner.
func (a FirstFreeAssigner) Assign(worker int) (int, error) {
	if worker < 0 {
		return -1, fmt.Errorf("%w: worker %d", api.ErrUnknownSlot, worker)
	}
	s := 0
	for i := 0; ; i++ {
		for s < a.Limit && a.Occupied != nil && a.Occupied(s) {
			s++
		}
		if i == worker {
			break
		}
		s++
	}
	if s >= protocol.MaxProcesses {
		return -1, fmt.Errorf("%w: worker %d needs slot %d", api.ErrTooManyProcesses, worker, s)
	}
	return s, nil
}
