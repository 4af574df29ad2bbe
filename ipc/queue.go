// File: ipc/queue.go
// Author: momentics <momentics@gmail.com>
//
// Per-peer FIFO of encoded frames waiting for a writable pipe.

package ipc

import (
	"github.com/eapache/queue"

	"github.com/momentics/hioload-ipc/pool"
)

// writeQueue holds encoded frames in send order. A frame is owned by the
// queue from push until pop, when ownership passes to the writer.
type writeQueue struct {
	q *queue.Queue
}

func newWriteQueue() *writeQueue {
	return &writeQueue{q: queue.New()}
}

func (w *writeQueue) push(f *pool.Frame) { w.q.Add(f) }

func (w *writeQueue) peek() *pool.Frame { return w.q.Peek().(*pool.Frame) }

func (w *writeQueue) pop() *pool.Frame { return w.q.Remove().(*pool.Frame) }

func (w *writeQueue) len() int { return w.q.Length() }

// reset releases every pending frame and returns how many were dropped.
func (w *writeQueue) reset() int {
	n := 0
	for w.q.Length() > 0 {
		pool.PutFrame(w.pop())
		n++
	}
	return n
}
