// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Implements the fixed-size alert frame exchanged over inter-process pipes.
//
// Every frame is exactly FrameSize bytes, so a single read or write moves
// one whole alert and no delimiter is needed. FrameSize stays below
// PIPE_BUF, which makes each write atomic with respect to other writers on
// the same pipe.
//
// Includes:
//   - Frame layout constants
//   - Encode/decode into caller-owned buffers
//   - Caller contract validation (payload capacity, self-addressing)
package protocol
