package server

import (
	"testing"

	"github.com/webled/webled/internal/device"
	"github.com/webled/webled/internal/protocol"
)

func TestLEDHandler(t *testing.T) {
	tests := []struct {
		name      string
		startOn   bool
		line      string
		want      string
		wantState bool
	}{
		{
			name:      "stat while off",
			line:      "STAT",
			want:      "UPDATE 0",
			wantState: false,
		},
		{
			name:      "stat while on",
			startOn:   true,
			line:      "STAT",
			want:      "UPDATE 1",
			wantState: true,
		},
		{
			name:      "led on",
			line:      "LED_ON",
			want:      "UPDATE 1",
			wantState: true,
		},
		{
			name:      "led on is idempotent",
			startOn:   true,
			line:      "LED_ON",
			want:      "UPDATE 1",
			wantState: true,
		},
		{
			name:      "led off",
			startOn:   true,
			line:      "LED_OFF",
			want:      "UPDATE 0",
			wantState: false,
		},
		{
			name:      "first token decides with trailing args",
			line:      "STAT now",
			want:      "UPDATE 0",
			wantState: false,
		},
		{
			name:      "unknown command echoes the line",
			line:      "BLINK 3",
			want:      "UNKNOWN REQUEST: BLINK 3",
			wantState: false,
		},
		{
			name:      "lowercase is not a command",
			line:      "stat",
			want:      "UNKNOWN REQUEST: stat",
			wantState: false,
		},
		{
			name:      "empty line is unknown",
			line:      "",
			want:      "UNKNOWN REQUEST: ",
			wantState: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			led := device.NewLED()
			led.SetOutput(tt.startOn)
			handler := LEDHandler(led)

			got := handler(protocol.ParseCommand(tt.line))
			if got != tt.want {
				t.Errorf("handler(%q) = %q, want %q", tt.line, got, tt.want)
			}
			if led.ReadState() != tt.wantState {
				t.Errorf("peripheral state after %q = %v, want %v", tt.line, led.ReadState(), tt.wantState)
			}
		})
	}
}
