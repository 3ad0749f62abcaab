package protocol

import (
	"errors"
	"reflect"
	"testing"
)

func TestLineBufferAppend(t *testing.T) {
	tests := []struct {
		name      string
		chunks    [][]byte
		wantLines []string
	}{
		{
			name:      "LF terminated line",
			chunks:    [][]byte{[]byte("STAT\n")},
			wantLines: []string{"STAT"},
		},
		{
			name:      "CR terminated line",
			chunks:    [][]byte{[]byte("STAT\r")},
			wantLines: []string{"STAT"},
		},
		{
			name:      "CRLF counts as one terminator",
			chunks:    [][]byte{[]byte("STAT\r\n")},
			wantLines: []string{"STAT"},
		},
		{
			name:      "CRLF split across chunks",
			chunks:    [][]byte{[]byte("STAT\r"), []byte("\n")},
			wantLines: []string{"STAT"},
		},
		{
			name:      "LFCR is two terminators",
			chunks:    [][]byte{[]byte("A\n\rB\r")},
			wantLines: []string{"A", "", "B"},
		},
		{
			name:      "multiple lines in one chunk",
			chunks:    [][]byte{[]byte("LED_ON\r\nSTAT\r\n")},
			wantLines: []string{"LED_ON", "STAT"},
		},
		{
			name:      "line spanning chunks",
			chunks:    [][]byte{[]byte("LED"), []byte("_ON"), []byte("\r\n")},
			wantLines: []string{"LED_ON"},
		},
		{
			name:      "command and terminator in separate frames",
			chunks:    [][]byte{[]byte("STAT"), []byte("\n")},
			wantLines: []string{"STAT"},
		},
		{
			name:      "empty line",
			chunks:    [][]byte{[]byte("\n")},
			wantLines: []string{""},
		},
		{
			name:      "no terminator yields no lines",
			chunks:    [][]byte{[]byte("STA")},
			wantLines: nil,
		},
		{
			name:      "two CRs are two lines",
			chunks:    [][]byte{[]byte("A\r\rB\n")},
			wantLines: []string{"A", "", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lb := NewLineBuffer(256)
			var got []string
			for _, chunk := range tt.chunks {
				lines, interrupted, err := lb.Append(chunk)
				if err != nil {
					t.Fatalf("Append() error = %v", err)
				}
				if interrupted {
					t.Fatal("Append() reported interrupt without 0x03")
				}
				got = append(got, lines...)
			}
			if !reflect.DeepEqual(got, tt.wantLines) {
				t.Errorf("lines = %q, want %q", got, tt.wantLines)
			}
		})
	}
}

func TestLineBufferChunkingIndependence(t *testing.T) {
	// The same byte stream must produce the same lines regardless of where
	// frame boundaries fall.
	stream := []byte("STAT\r\nLED_ON\rLED_OFF\npartial")
	want := []string{"STAT", "LED_ON", "LED_OFF"}

	for split := 0; split <= len(stream); split++ {
		lb := NewLineBuffer(256)
		var got []string

		for _, chunk := range [][]byte{stream[:split], stream[split:]} {
			lines, interrupted, err := lb.Append(chunk)
			if err != nil {
				t.Fatalf("split %d: Append() error = %v", split, err)
			}
			if interrupted {
				t.Fatalf("split %d: unexpected interrupt", split)
			}
			got = append(got, lines...)
		}

		if !reflect.DeepEqual(got, want) {
			t.Errorf("split %d: lines = %q, want %q", split, got, want)
		}
		if lb.Pending() != len("partial") {
			t.Errorf("split %d: Pending() = %d, want %d", split, lb.Pending(), len("partial"))
		}
	}
}

func TestLineBufferInterrupt(t *testing.T) {
	t.Run("interrupt alone", func(t *testing.T) {
		lb := NewLineBuffer(256)
		lines, interrupted, err := lb.Append([]byte{Interrupt})
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if !interrupted {
			t.Error("Append() should report interrupt")
		}
		if len(lines) != 0 {
			t.Errorf("lines = %q, want none", lines)
		}
	})

	t.Run("interrupt after complete line", func(t *testing.T) {
		lb := NewLineBuffer(256)
		lines, interrupted, err := lb.Append(append([]byte("STAT\r\n"), Interrupt))
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if !interrupted {
			t.Error("Append() should report interrupt")
		}
		if !reflect.DeepEqual(lines, []string{"STAT"}) {
			t.Errorf("lines = %q, want [STAT]", lines)
		}
	})

	t.Run("bytes after interrupt are discarded", func(t *testing.T) {
		lb := NewLineBuffer(256)
		data := append([]byte{Interrupt}, []byte("LED_ON\r\n")...)
		lines, interrupted, err := lb.Append(data)
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if !interrupted {
			t.Error("Append() should report interrupt")
		}
		if len(lines) != 0 {
			t.Errorf("lines = %q, want none", lines)
		}
		if lb.Pending() != 0 {
			t.Errorf("Pending() = %d, want 0", lb.Pending())
		}
	})
}

func TestLineBufferOverflow(t *testing.T) {
	lb := NewLineBuffer(4)

	// Exactly max bytes then a terminator is fine
	lines, _, err := lb.Append([]byte("STAT\n"))
	if err != nil {
		t.Fatalf("Append() at limit error = %v", err)
	}
	if !reflect.DeepEqual(lines, []string{"STAT"}) {
		t.Errorf("lines = %q, want [STAT]", lines)
	}

	// One byte over the limit without a terminator fails
	_, _, err = lb.Append([]byte("TOOBIG"))
	if !errors.Is(err, ErrLineTooLong) {
		t.Errorf("Append() over limit error = %v, want ErrLineTooLong", err)
	}
}
