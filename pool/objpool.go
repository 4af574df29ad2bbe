// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package pool

import (
	"sync"

	"github.com/momentics/hioload-ipc/core/protocol"
)

// ObjectPool is a generic object pool.
type ObjectPool[T any] interface {
	Get() T
	Put(T)
}

// SyncPool wraps sync.Pool for generic usage.
type SyncPool[T any] struct {
	pool *sync.Pool
}

// NewSyncPool creates a new SyncPool with a creator function.
func NewSyncPool[T any](creator func() T) *SyncPool[T] {
	return &SyncPool[T]{
		pool: &sync.Pool{New: func() any { return creator() }},
	}
}

func (sp *SyncPool[T]) Get() T {
	return sp.pool.Get().(T)
}

func (sp *SyncPool[T]) Put(obj T) {
	sp.pool.Put(obj)
}

// Frame is one encoded alert.
type Frame = [protocol.FrameSize]byte

var frames ObjectPool[*Frame] = NewSyncPool(func() *Frame { return new(Frame) })

// GetFrame returns a frame buffer. Its contents are unspecified; encoding
// overwrites every byte.
func GetFrame() *Frame { return frames.Get() }

// PutFrame returns f to the pool. f must not be used afterwards.
func PutFrame(f *Frame) {
	if f != nil {
		frames.Put(f)
	}
}
