// Package pool
// Author: momentics <momentics@gmail.com>
//
// Reusable fixed-size frame buffers. A frame is taken from the pool when
// an alert is queued and returned once the writer has put it on the wire,
// or when the queue holding it is discarded.
package pool
