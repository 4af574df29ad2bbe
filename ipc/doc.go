// Package ipc
// Author: momentics <momentics@gmail.com>
//
// Inter-process alert delivery between sibling worker processes.
//
// A parent provisions one nonblocking pipe per worker slot (Open) before
// any worker runs, then hands every pipe end to each spawned worker
// (Handoff / Inherit). Each worker binds its own inbound pipe for reading
// and every peer's outbound pipe for writing into its reactor (Start).
// Send enqueues a fixed-size frame for the peer and drains the queue
// immediately; frames left over when the pipe is full are written when the
// reactor reports the pipe writable again. The inbound pipe is drained on
// every read readiness and each frame is passed to the registered
// api.AlertHandler.
//
// A Context is owned by the reactor goroutine. None of its methods are safe
// for concurrent use.
package ipc
