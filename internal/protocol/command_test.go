package protocol

import (
	"reflect"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantKind CommandKind
		wantArgs []string
	}{
		{
			name:     "STAT",
			line:     "STAT",
			wantKind: CommandStat,
		},
		{
			name:     "LED_ON",
			line:     "LED_ON",
			wantKind: CommandLedOn,
		},
		{
			name:     "LED_OFF",
			line:     "LED_OFF",
			wantKind: CommandLedOff,
		},
		{
			name:     "surrounding whitespace ignored",
			line:     "  STAT  ",
			wantKind: CommandStat,
		},
		{
			name:     "arguments tokenized",
			line:     "LED_ON now please",
			wantKind: CommandLedOn,
			wantArgs: []string{"now", "please"},
		},
		{
			name:     "commands are case sensitive",
			line:     "stat",
			wantKind: CommandUnknown,
		},
		{
			name:     "empty line is unknown",
			line:     "",
			wantKind: CommandUnknown,
		},
		{
			name:     "unrecognized command",
			line:     "BLINK 3",
			wantKind: CommandUnknown,
			wantArgs: []string{"3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := ParseCommand(tt.line)
			if cmd.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", cmd.Kind, tt.wantKind)
			}
			if cmd.Raw != tt.line {
				t.Errorf("Raw = %q, want %q", cmd.Raw, tt.line)
			}
			if !reflect.DeepEqual(cmd.Args, tt.wantArgs) {
				t.Errorf("Args = %q, want %q", cmd.Args, tt.wantArgs)
			}
		})
	}
}

func TestFormatUpdate(t *testing.T) {
	if got := FormatUpdate(true); got != "UPDATE 1" {
		t.Errorf("FormatUpdate(true) = %q, want %q", got, "UPDATE 1")
	}
	if got := FormatUpdate(false); got != "UPDATE 0" {
		t.Errorf("FormatUpdate(false) = %q, want %q", got, "UPDATE 0")
	}
}

func TestParseUpdate(t *testing.T) {
	tests := []struct {
		line   string
		wantOn bool
		wantOK bool
	}{
		{"UPDATE 1", true, true},
		{"UPDATE 0", false, true},
		{"UPDATE 2", false, false},
		{"UPDATE", false, false},
		{"UNKNOWN REQUEST: STAT", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		on, ok := ParseUpdate(tt.line)
		if on != tt.wantOn || ok != tt.wantOK {
			t.Errorf("ParseUpdate(%q) = (%v, %v), want (%v, %v)", tt.line, on, ok, tt.wantOn, tt.wantOK)
		}
	}
}

func TestFormatUnknown(t *testing.T) {
	got := FormatUnknown("BLINK 3")
	want := "UNKNOWN REQUEST: BLINK 3"
	if got != want {
		t.Errorf("FormatUnknown() = %q, want %q", got, want)
	}
}

func TestCommandKindString(t *testing.T) {
	tests := []struct {
		kind CommandKind
		want string
	}{
		{CommandStat, "stat"},
		{CommandLedOn, "led_on"},
		{CommandLedOff, "led_off"},
		{CommandUnknown, "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("CommandKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
