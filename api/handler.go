// File: api/handler.go
// Package api defines the alert dispatch contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// AlertHandler receives every alert read from the process's inbound pipe.
// It runs inline on the reactor goroutine and must not block. The payload
// slice is only valid for the duration of the call.
type AlertHandler interface {
	HandleAlert(src int, code uint32, payload []byte)
}

// AlertHandlerFunc adapts a plain function to AlertHandler.
type AlertHandlerFunc func(src int, code uint32, payload []byte)

// HandleAlert calls f(src, code, payload).
func (f AlertHandlerFunc) HandleAlert(src int, code uint32, payload []byte) {
	f(src, code, payload)
}
