package protocol

import "fmt"

// Interrupt is the Ctrl-C byte. Receiving it anywhere in the text stream
// ends the session unconditionally, in either authentication state.
const Interrupt byte = 0x03

// LineBuffer assembles decoded text frame payloads into complete command
// lines. Frame boundaries carry no meaning: a line may span several frames
// and one frame may carry several lines.
//
// A carriage return always ends a line. A line feed ends a line unless it
// immediately follows a carriage return, so CRLF counts as one terminator
// even when split across frames.
type LineBuffer struct {
	buf    []byte
	max    int
	lastCR bool
}

// NewLineBuffer creates a LineBuffer holding at most max bytes of an
// unterminated line.
func NewLineBuffer(max int) *LineBuffer {
	return &LineBuffer{
		buf: make([]byte, 0, max),
		max: max,
	}
}

// Append consumes a text payload and returns the lines it completed, with
// terminators stripped. If an Interrupt byte is found, interrupted is true,
// processing stops there, and the rest of the payload is discarded. A line
// overflowing the buffer fails with ErrLineTooLong.
func (l *LineBuffer) Append(data []byte) (lines []string, interrupted bool, err error) {
	for _, b := range data {
		if b == Interrupt {
			return lines, true, nil
		}

		wasCR := l.lastCR
		l.lastCR = false

		switch b {
		case '\r':
			lines = append(lines, l.take())
			l.lastCR = true
		case '\n':
			// CRLF already ended the line at the CR
			if !wasCR {
				lines = append(lines, l.take())
			}
		default:
			if len(l.buf) >= l.max {
				return lines, false, fmt.Errorf("%w: %d bytes", ErrLineTooLong, l.max)
			}
			l.buf = append(l.buf, b)
		}
	}

	return lines, false, nil
}

// Pending returns the number of buffered bytes awaiting a terminator.
func (l *LineBuffer) Pending() int {
	return len(l.buf)
}

// take returns the buffered line and resets the buffer.
func (l *LineBuffer) take() string {
	line := string(l.buf)
	l.buf = l.buf[:0]
	return line
}
