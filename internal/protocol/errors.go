package protocol

import "errors"

// Protocol violations. Each maps to a WebSocket close code via CloseCodeFor
// so sessions can report the reason before tearing down.
var (
	// ErrMalformedRequest indicates an unparseable HTTP request line.
	ErrMalformedRequest = errors.New("malformed http request")

	// ErrHandshakeRejected indicates an upgrade request missing required
	// WebSocket headers.
	ErrHandshakeRejected = errors.New("websocket handshake rejected")

	// ErrBadOpcode indicates a frame with an opcode this server does not
	// accept (binary, continuation, or reserved).
	ErrBadOpcode = errors.New("unsupported frame opcode")

	// ErrUnmaskedFrame indicates a client frame without the mask bit.
	// RFC6455 requires all client-to-server frames to be masked.
	ErrUnmaskedFrame = errors.New("client frame not masked")

	// ErrFragmentedFrame indicates a frame with FIN=0. Fragmented messages
	// are not supported.
	ErrFragmentedFrame = errors.New("fragmented frames not supported")

	// ErrControlTooLarge indicates a control frame with a payload over 125
	// bytes, which RFC6455 forbids.
	ErrControlTooLarge = errors.New("control frame payload exceeds 125 bytes")

	// ErrFrameTooLarge indicates a frame whose declared payload length
	// exceeds the configured limit.
	ErrFrameTooLarge = errors.New("frame payload exceeds limit")

	// ErrLineTooLong indicates a command line that overflowed the session
	// line buffer before a terminator arrived.
	ErrLineTooLong = errors.New("line exceeds buffer limit")
)

// WebSocket close codes (RFC6455 section 7.4.1).
const (
	CloseNormal        uint16 = 1000
	CloseGoingAway     uint16 = 1001
	CloseProtocolError uint16 = 1002
	CloseTooLarge      uint16 = 1009
)

// CloseCodeFor maps a protocol violation to the close code sent to the peer.
func CloseCodeFor(err error) uint16 {
	switch {
	case errors.Is(err, ErrFrameTooLarge), errors.Is(err, ErrLineTooLong):
		return CloseTooLarge
	default:
		return CloseProtocolError
	}
}
