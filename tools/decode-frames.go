//go:build ignore

// Decode-frames parses hex-encoded WebSocket frame bytes and prints each
// frame's header fields and payload. Useful for inspecting tcpdump captures
// or the hex dumps the server logs at debug level.
//
// Usage:
//
//	go run tools/decode-frames.go <hexfile>
//	go run tools/decode-frames.go --hex 818425128f0f76419f40
//
// The input may contain whitespace and newlines between hex digits.
// Consecutive frames are decoded until the input is exhausted.
package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/webled/webled/internal/protocol"
)

// Large enough for any capture; the server's own cap does not apply here
const maxPayload = 1 << 20

func main() {
	data, err := readInput(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Usage: decode-frames <hexfile>")
		fmt.Fprintln(os.Stderr, "       decode-frames --hex <hexstring>")
		os.Exit(1)
	}

	raw, err := decodeHex(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid hex input: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== webled Frame Decoder ===\n")
	fmt.Printf("Input: %d bytes\n\n", len(raw))

	reader := bytes.NewReader(raw)
	frameNum := 0
	violations := 0

	for reader.Len() > 0 {
		frameNum++

		frame, err := protocol.ReadFrame(reader, maxPayload)
		if err != nil {
			fmt.Printf("Frame #%d: decode error after %d bytes: %v\n",
				frameNum, len(raw)-reader.Len(), err)
			os.Exit(1)
		}

		printFrame(frameNum, frame)

		if err := frame.ValidateClient(); err != nil {
			violations++
			fmt.Printf("  client-validity: %v (server would close %d)\n",
				err, protocol.CloseCodeFor(err))
		}
		fmt.Println()
	}

	fmt.Printf("----------------------------------------\n")
	fmt.Printf("Frames decoded:    %d\n", frameNum)
	fmt.Printf("Client violations: %d\n", violations)
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no input given")
	}

	if args[0] == "--hex" {
		if len(args) < 2 {
			return nil, fmt.Errorf("--hex needs a value")
		}
		return []byte(strings.Join(args[1:], "")), nil
	}

	if args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(args[0])
}

// decodeHex strips whitespace and decodes the remaining hex digits
func decodeHex(data []byte) ([]byte, error) {
	compact := make([]byte, 0, len(data))
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		compact = append(compact, b)
	}
	return hex.DecodeString(string(compact))
}

func printFrame(num int, frame *protocol.Frame) {
	fmt.Printf("Frame #%d (%d bytes on the wire)\n", num, len(frame.Raw))
	fmt.Printf("  FIN:     %v\n", frame.FIN)
	if frame.RSV1 || frame.RSV2 || frame.RSV3 {
		fmt.Printf("  RSV:     %v %v %v\n", frame.RSV1, frame.RSV2, frame.RSV3)
	}
	fmt.Printf("  Opcode:  %s\n", frame.OpcodeString())
	fmt.Printf("  Masked:  %v", frame.Masked)
	if frame.Masked {
		fmt.Printf(" (key %02x%02x%02x%02x)",
			frame.MaskKey[0], frame.MaskKey[1], frame.MaskKey[2], frame.MaskKey[3])
	}
	fmt.Println()
	fmt.Printf("  Length:  %d\n", frame.Length)

	if frame.Length == 0 {
		return
	}

	switch frame.Opcode {
	case protocol.OpcodeClose:
		code, reason := protocol.DecodeClosePayload(frame.Payload)
		fmt.Printf("  Close:   code=%d reason=%q\n", code, reason)
	case protocol.OpcodeText:
		fmt.Printf("  Text:    %q\n", string(frame.Payload))
	default:
		fmt.Printf("  Payload: %s\n", hexPreview(frame.Payload))
	}
}

func hexPreview(payload []byte) string {
	const max = 64
	if len(payload) > max {
		return hex.EncodeToString(payload[:max]) + "..."
	}
	return hex.EncodeToString(payload)
}
