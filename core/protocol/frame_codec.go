// File: core/protocol/frame_codec.go
// Package protocol implements the fixed-size alert frame codec.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/momentics/hioload-ipc/api"
)

// Alert is the decoded form of one frame.
type Alert struct {
	Src     int32
	Dst     int32
	Code    uint32
	Payload []byte
}

// Validate enforces the sender-side contract: no self-addressed alerts and
// a payload strictly below PayloadCapacity.
func Validate(a Alert) error {
	if a.Src == a.Dst {
		return api.ErrSelfAddressed
	}
	if len(a.Payload) >= PayloadCapacity {
		return fmt.Errorf("%w: %d bytes, capacity %d", api.ErrPayloadTooLarge, len(a.Payload), PayloadCapacity)
	}
	return nil
}

// EncodeAlert writes a into buf, which must be exactly FrameSize bytes.
// Unused payload bytes are zeroed.
func EncodeAlert(a Alert, buf []byte) error {
	if len(buf) != FrameSize {
		return fmt.Errorf("%w: encode buffer is %d bytes", api.ErrShortFrame, len(buf))
	}
	if err := Validate(a); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(buf[offSrc:], uint32(a.Src))
	binary.LittleEndian.PutUint32(buf[offDst:], uint32(a.Dst))
	binary.LittleEndian.PutUint32(buf[offCode:], a.Code)
	binary.LittleEndian.PutUint16(buf[offLen:], uint16(len(a.Payload)))
	binary.LittleEndian.PutUint16(buf[offReserved:], 0)
	n := copy(buf[offPayload:], a.Payload)
	clear(buf[offPayload+n:])
	return nil
}

// DecodeAlert parses one frame. The returned payload aliases buf.
func DecodeAlert(buf []byte) (Alert, error) {
	if len(buf) != FrameSize {
		return Alert{}, fmt.Errorf("%w: got %d of %d bytes", api.ErrShortFrame, len(buf), FrameSize)
	}
	n := int(binary.LittleEndian.Uint16(buf[offLen:]))
	if n >= PayloadCapacity {
		return Alert{}, fmt.Errorf("%w: payload length %d", api.ErrCorruptFrame, n)
	}
	return Alert{
		Src:     int32(binary.LittleEndian.Uint32(buf[offSrc:])),
		Dst:     int32(binary.LittleEndian.Uint32(buf[offDst:])),
		Code:    binary.LittleEndian.Uint32(buf[offCode:]),
		Payload: buf[offPayload : offPayload+n],
	}, nil
}
