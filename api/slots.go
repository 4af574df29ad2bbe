// File: api/slots.go
// Author: momentics <momentics@gmail.com>
//
// Slot assignment contract between the host process manager and the
// pipe registry.

package api

// SlotAssigner maps the i-th expected worker to the process slot the host
// will give it when it is spawned. Pipes are provisioned per slot, so the
// answer has to agree with the host's own bookkeeping.
type SlotAssigner interface {
	Assign(worker int) (slot int, err error)
}
