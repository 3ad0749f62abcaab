package protocol

import (
	"fmt"
	"strings"
)

// Wire vocabulary of the line protocol. The server prompts for a password,
// greets an authenticated session, and answers every device command with an
// UPDATE line carrying the output state.
const (
	PasswordPrompt = "Password:"
	Greeting       = "WebREPL"

	CmdStat   = "STAT"
	CmdLedOn  = "LED_ON"
	CmdLedOff = "LED_OFF"

	updatePrefix  = "UPDATE"
	unknownPrefix = "UNKNOWN REQUEST:"
)

// CommandKind identifies a parsed device command.
type CommandKind int

const (
	CommandUnknown CommandKind = iota
	CommandStat
	CommandLedOn
	CommandLedOff
)

// String returns a human-readable command kind name
func (k CommandKind) String() string {
	switch k {
	case CommandStat:
		return "stat"
	case CommandLedOn:
		return "led_on"
	case CommandLedOff:
		return "led_off"
	default:
		return "unknown"
	}
}

// Command is one parsed line from an authenticated session.
type Command struct {
	Kind CommandKind
	Args []string // Tokens after the command name
	Raw  string   // Original line, terminator stripped
}

// ParseCommand tokenizes a line on whitespace and identifies the command by
// its first token. Unrecognized or empty lines yield CommandUnknown with the
// raw text preserved for reporting.
func ParseCommand(line string) Command {
	cmd := Command{Kind: CommandUnknown, Raw: line}

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return cmd
	}
	if len(fields) > 1 {
		cmd.Args = fields[1:]
	}

	switch fields[0] {
	case CmdStat:
		cmd.Kind = CommandStat
	case CmdLedOn:
		cmd.Kind = CommandLedOn
	case CmdLedOff:
		cmd.Kind = CommandLedOff
	}

	return cmd
}

// FormatUpdate builds the UPDATE reply line for an output state.
func FormatUpdate(on bool) string {
	if on {
		return updatePrefix + " 1"
	}
	return updatePrefix + " 0"
}

// ParseUpdate extracts the output state from an UPDATE reply line.
// ok is false when the line is not an UPDATE reply.
func ParseUpdate(line string) (on bool, ok bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] != updatePrefix {
		return false, false
	}
	switch fields[1] {
	case "1":
		return true, true
	case "0":
		return false, true
	default:
		return false, false
	}
}

// FormatUnknown builds the reply reporting an unrecognized command line.
func FormatUnknown(raw string) string {
	return fmt.Sprintf("%s %s", unknownPrefix, raw)
}
