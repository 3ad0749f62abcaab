// Package device defines the peripheral capability driven by the command
// server, with an in-memory reference implementation.
package device

import "sync"

// Peripheral is the output a command session controls. Implementations must
// be safe for concurrent use: reads and writes arrive from concurrent
// sessions.
type Peripheral interface {
	// SetOutput drives the output on or off. Setting the current state
	// again is a no-op.
	SetOutput(on bool)

	// ReadState reports the current output state.
	ReadState() bool
}

// LED is the reference peripheral: a single boolean output guarded by a
// read-write lock.
type LED struct {
	mu sync.RWMutex
	on bool
}

// NewLED creates an LED in the off state.
func NewLED() *LED {
	return &LED{}
}

// SetOutput drives the LED on or off.
func (l *LED) SetOutput(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = on
}

// ReadState reports whether the LED is on.
func (l *LED) ReadState() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.on
}
