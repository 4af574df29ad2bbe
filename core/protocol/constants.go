// Package protocol
// Author: momentics <momentics@gmail.com>
//
// Alert wire protocol constants

package protocol

const (
	// FrameSize is the size of every alert on the wire.
	FrameSize = 256

	// HeaderSize covers src, dst, code, payload length and reserved bytes.
	HeaderSize = 16

	// PayloadCapacity is the fixed payload block. A payload must be
	// strictly shorter than this.
	PayloadCapacity = FrameSize - HeaderSize

	// MaxProcesses bounds slot numbers: valid slots are 0..MaxProcesses-1.
	MaxProcesses = 1024
)

// Header field offsets.
const (
	offSrc      = 0
	offDst      = 4
	offCode     = 8
	offLen      = 12
	offReserved = 14
	offPayload  = HeaderSize
)
