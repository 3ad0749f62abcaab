package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WebSocket frame opcodes
const (
	OpcodeContinuation = 0x0
	OpcodeText         = 0x1
	OpcodeBinary       = 0x2
	OpcodeClose        = 0x8
	OpcodePing         = 0x9
	OpcodePong         = 0xA
)

// maxControlPayload is the RFC6455 payload limit for control frames.
const maxControlPayload = 125

// Frame represents a WebSocket frame
type Frame struct {
	FIN     bool
	RSV1    bool
	RSV2    bool
	RSV3    bool
	Opcode  byte
	Masked  bool
	Length  uint64
	MaskKey [4]byte
	Payload []byte
	Raw     []byte // Original frame bytes for debugging
}

// ReadFrame reads a WebSocket frame from the reader. maxPayload bounds the
// declared payload length; a frame over the limit fails with ErrFrameTooLarge
// before any payload is read. A maxPayload of zero or less disables the cap.
func ReadFrame(r io.Reader, maxPayload int) (*Frame, error) {
	frame := &Frame{}

	// Read first two bytes
	header := make([]byte, 2)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("failed to read frame header: %w", err)
	}

	frame.Raw = append(frame.Raw, header...)

	// Parse first byte: FIN, RSV1-3, Opcode
	frame.FIN = (header[0] & 0x80) != 0
	frame.RSV1 = (header[0] & 0x40) != 0
	frame.RSV2 = (header[0] & 0x20) != 0
	frame.RSV3 = (header[0] & 0x10) != 0
	frame.Opcode = header[0] & 0x0F

	// Parse second byte: Mask, Payload length
	frame.Masked = (header[1] & 0x80) != 0
	payloadLen := uint64(header[1] & 0x7F)

	// Extended payload length
	if payloadLen == 126 {
		extLen := make([]byte, 2)
		if _, err := io.ReadFull(r, extLen); err != nil {
			return nil, fmt.Errorf("failed to read extended length: %w", err)
		}
		frame.Raw = append(frame.Raw, extLen...)
		frame.Length = uint64(binary.BigEndian.Uint16(extLen))
	} else if payloadLen == 127 {
		extLen := make([]byte, 8)
		if _, err := io.ReadFull(r, extLen); err != nil {
			return nil, fmt.Errorf("failed to read extended length: %w", err)
		}
		frame.Raw = append(frame.Raw, extLen...)
		frame.Length = binary.BigEndian.Uint64(extLen)
	} else {
		frame.Length = payloadLen
	}

	// Enforce the payload cap before allocating anything
	if maxPayload > 0 && frame.Length > uint64(maxPayload) {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFrameTooLarge, frame.Length, maxPayload)
	}

	// Read mask key if present (client-to-server frames must be masked)
	if frame.Masked {
		if _, err := io.ReadFull(r, frame.MaskKey[:]); err != nil {
			return nil, fmt.Errorf("failed to read mask key: %w", err)
		}
		frame.Raw = append(frame.Raw, frame.MaskKey[:]...)
	}

	// Read payload
	if frame.Length > 0 {
		payload := make([]byte, frame.Length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("failed to read payload: %w", err)
		}
		frame.Raw = append(frame.Raw, payload...)

		// Unmask payload if masked
		if frame.Masked {
			frame.Payload = maskPayload(payload, frame.MaskKey)
		} else {
			frame.Payload = payload
		}
	}

	return frame, nil
}

// ValidateClient checks the constraints on a client-to-server frame:
// no fragmentation, mandatory masking, an accepted opcode, and the control
// frame size limit.
func (f *Frame) ValidateClient() error {
	if !f.FIN {
		return ErrFragmentedFrame
	}
	if !f.Masked {
		return ErrUnmaskedFrame
	}
	switch f.Opcode {
	case OpcodeText, OpcodeClose, OpcodePing, OpcodePong:
	default:
		return fmt.Errorf("%w: %s", ErrBadOpcode, f.OpcodeString())
	}
	if f.IsControl() && f.Length > maxControlPayload {
		return fmt.Errorf("%w: %d bytes", ErrControlTooLarge, f.Length)
	}
	return nil
}

// IsControl reports whether the frame carries a control opcode.
func (f *Frame) IsControl() bool {
	return f.Opcode&0x8 != 0
}

// EncodeFrame serializes a server-to-client frame: FIN set, unmasked, with
// the 7/16/64-bit length encoding chosen from the payload size.
func EncodeFrame(opcode byte, payload []byte) []byte {
	n := len(payload)

	var header []byte
	switch {
	case n < 126:
		header = []byte{0x80 | opcode, byte(n)}
	case n <= 0xFFFF:
		header = []byte{0x80 | opcode, 126, 0, 0}
		binary.BigEndian.PutUint16(header[2:4], uint16(n))
	default:
		header = []byte{0x80 | opcode, 127, 0, 0, 0, 0, 0, 0, 0, 0}
		binary.BigEndian.PutUint64(header[2:10], uint64(n))
	}

	return append(header, payload...)
}

// EncodeMaskedFrame serializes a client-to-server frame with the given mask
// key. The mask bit is set and the payload is stored masked.
func EncodeMaskedFrame(opcode byte, payload []byte, maskKey [4]byte) []byte {
	n := len(payload)

	var header []byte
	switch {
	case n < 126:
		header = []byte{0x80 | opcode, 0x80 | byte(n)}
	case n <= 0xFFFF:
		header = []byte{0x80 | opcode, 0x80 | 126, 0, 0}
		binary.BigEndian.PutUint16(header[2:4], uint16(n))
	default:
		header = []byte{0x80 | opcode, 0x80 | 127, 0, 0, 0, 0, 0, 0, 0, 0}
		binary.BigEndian.PutUint64(header[2:10], uint64(n))
	}

	header = append(header, maskKey[:]...)
	return append(header, maskPayload(payload, maskKey)...)
}

// WriteFrame writes an unmasked server frame to w.
func WriteFrame(w io.Writer, opcode byte, payload []byte) error {
	if _, err := w.Write(EncodeFrame(opcode, payload)); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// maskPayload applies the XOR mask to a payload. Masking and unmasking are
// the same operation.
func maskPayload(payload []byte, maskKey [4]byte) []byte {
	out := make([]byte, len(payload))
	for i := 0; i < len(payload); i++ {
		out[i] = payload[i] ^ maskKey[i%4]
	}
	return out
}

// EncodeClosePayload builds a close frame payload from a status code and an
// optional reason.
func EncodeClosePayload(code uint16, reason string) []byte {
	payload := make([]byte, 2+len(reason))
	binary.BigEndian.PutUint16(payload[0:2], code)
	copy(payload[2:], reason)
	return payload
}

// DecodeClosePayload extracts the status code and reason from a close frame
// payload. An empty payload yields CloseNormal per RFC6455.
func DecodeClosePayload(payload []byte) (uint16, string) {
	if len(payload) < 2 {
		return CloseNormal, ""
	}
	return binary.BigEndian.Uint16(payload[0:2]), string(payload[2:])
}

// OpcodeString returns a human-readable opcode name
func (f *Frame) OpcodeString() string {
	switch f.Opcode {
	case OpcodeContinuation:
		return "continuation"
	case OpcodeText:
		return "text"
	case OpcodeBinary:
		return "binary"
	case OpcodeClose:
		return "close"
	case OpcodePing:
		return "ping"
	case OpcodePong:
		return "pong"
	default:
		return fmt.Sprintf("unknown(0x%X)", f.Opcode)
	}
}

// String returns a debug representation of the frame
func (f *Frame) String() string {
	return fmt.Sprintf("Frame{FIN=%v, Opcode=%s, Masked=%v, Length=%d}",
		f.FIN, f.OpcodeString(), f.Masked, f.Length)
}
