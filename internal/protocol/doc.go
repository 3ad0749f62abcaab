// Package protocol implements the webled wire protocol.
//
// This package handles the WebSocket layer (RFC6455 opening handshake and
// frame codec) and the line-oriented command protocol carried inside text
// frames. It is transport-free: framing works against io.Reader/io.Writer
// and the session layer in internal/server supplies the connections.
//
// # WebSocket Layer
//
// The server speaks plain RFC6455 with no extensions and no subprotocols:
//   - Opening handshake: Sec-WebSocket-Accept is the base64 SHA-1 of the
//     client key concatenated with the protocol GUID.
//   - Frames: FIN must be set (fragmentation is rejected), client frames
//     must be masked, server frames are never masked.
//   - Accepted opcodes: text (0x1), close (0x8), ping (0x9), pong (0xA).
//     Binary and continuation frames are protocol errors.
//   - A configurable payload cap bounds every read before allocation.
//
// # Line Protocol
//
// Text frame payloads form a byte stream that is cut into lines:
//   - CR always ends a line; LF ends a line unless it follows a CR, so
//     CRLF counts once even when split across frames.
//   - The byte 0x03 (Ctrl-C) ends the session immediately.
//   - An unterminated line longer than the buffer is a protocol error.
//
// The conversation is:
//
//	server: Password:
//	client: <password>
//	server: WebREPL
//	client: STAT
//	server: UPDATE 0
//	client: LED_ON
//	server: UPDATE 1
//
// Unrecognized commands are answered with "UNKNOWN REQUEST: <line>" and the
// session continues.
//
// # Usage Example - Reading
//
//	frame, err := protocol.ReadFrame(conn, maxPayload)
//	if err != nil {
//	    return err
//	}
//	if err := frame.ValidateClient(); err != nil {
//	    return err
//	}
//	lines, interrupted, err := lineBuf.Append(frame.Payload)
//
// # Usage Example - Writing
//
//	err := protocol.WriteFrame(conn, protocol.OpcodeText, []byte("UPDATE 1\r\n"))
//
// # Error Handling
//
// Violations are sentinel errors (ErrUnmaskedFrame, ErrFragmentedFrame,
// ErrBadOpcode, ErrFrameTooLarge, ErrLineTooLong) that CloseCodeFor maps to
// the close code reported to the peer before teardown.
//
// # Thread Safety
//
// Frame functions are stateless and safe for concurrent use. A LineBuffer
// belongs to one session and is not safe for concurrent use.
package protocol
