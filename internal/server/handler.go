package server

import (
	"github.com/webled/webled/internal/device"
	"github.com/webled/webled/internal/protocol"
)

// Handler produces the reply line for one authenticated command line.
// An empty reply suppresses the response frame.
type Handler func(cmd protocol.Command) string

// LEDHandler returns the stock handler driving a single output peripheral.
// STAT reports the current state, LED_ON and LED_OFF set it and confirm
// with the resulting state, anything else is reported back as unknown.
func LEDHandler(p device.Peripheral) Handler {
	return func(cmd protocol.Command) string {
		switch cmd.Kind {
		case protocol.CommandStat:
			return protocol.FormatUpdate(p.ReadState())
		case protocol.CommandLedOn:
			p.SetOutput(true)
			return protocol.FormatUpdate(true)
		case protocol.CommandLedOff:
			p.SetOutput(false)
			return protocol.FormatUpdate(false)
		default:
			return protocol.FormatUnknown(cmd.Raw)
		}
	}
}
