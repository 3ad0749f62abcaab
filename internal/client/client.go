// Package client speaks the webled command protocol over WebSocket.
//
// Dial performs the upgrade and the password exchange; Stat, On, and Off
// then map one command line to one UPDATE reply. Lines may span frames in
// either direction. Framing is handled by gorilla/websocket.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/webled/webled/internal/config"
	"github.com/webled/webled/internal/protocol"
)

// ErrBadPassword indicates the server re-prompted instead of greeting,
// meaning the password was rejected.
var ErrBadPassword = errors.New("password rejected")

// DefaultTimeout bounds each network operation when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Options configures a client connection.
type Options struct {
	// URL is the command port endpoint, e.g. "ws://192.168.4.16:8080".
	URL string

	// Password answers the server's prompt. An empty password is sent as an
	// empty line.
	Password string

	// Timeout bounds each read and write. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Client is an authenticated command session. It is not safe for concurrent
// use; callers serialize access the way a terminal user would.
type Client struct {
	conn    *websocket.Conn
	timeout time.Duration
	lines   *protocol.LineBuffer
	pending []string
}

// Dial connects, upgrades, and authenticates. The returned client is ready
// for commands.
func Dial(opts Options) (*Client, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("client URL is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.Dial(opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", opts.URL, err)
	}

	c := &Client{
		conn:    conn,
		timeout: timeout,
		lines:   protocol.NewLineBuffer(config.DefaultMaxLineLength),
	}

	if err := c.authenticate(opts.Password); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// authenticate answers the password prompt and waits for the greeting.
func (c *Client) authenticate(password string) error {
	line, err := c.readLine()
	if err != nil {
		return fmt.Errorf("failed to read password prompt: %w", err)
	}
	if line != protocol.PasswordPrompt {
		return fmt.Errorf("unexpected server prompt %q", line)
	}

	if err := c.writeLine(password); err != nil {
		return err
	}

	line, err = c.readLine()
	if err != nil {
		return fmt.Errorf("failed to read authentication reply: %w", err)
	}
	switch line {
	case protocol.Greeting:
		return nil
	case protocol.PasswordPrompt:
		return ErrBadPassword
	default:
		return fmt.Errorf("unexpected authentication reply %q", line)
	}
}

// Stat queries the current output state.
func (c *Client) Stat() (bool, error) {
	return c.command(protocol.CmdStat)
}

// On switches the output on and returns the confirmed state.
func (c *Client) On() (bool, error) {
	return c.command(protocol.CmdLedOn)
}

// Off switches the output off and returns the confirmed state.
func (c *Client) Off() (bool, error) {
	return c.command(protocol.CmdLedOff)
}

// command sends one command line and parses the UPDATE reply.
func (c *Client) command(cmd string) (bool, error) {
	if err := c.writeLine(cmd); err != nil {
		return false, err
	}
	line, err := c.readLine()
	if err != nil {
		return false, err
	}
	on, ok := protocol.ParseUpdate(line)
	if !ok {
		return false, fmt.Errorf("unexpected reply %q to %s", line, cmd)
	}
	return on, nil
}

// Raw sends an arbitrary line and returns the server's reply line.
func (c *Client) Raw(line string) (string, error) {
	if err := c.writeLine(line); err != nil {
		return "", err
	}
	return c.readLine()
}

// Watch polls the output state every interval and calls fn on every change,
// including once for the initial state. It returns when ctx ends or a poll
// fails.
func (c *Client) Watch(ctx context.Context, interval time.Duration, fn func(on bool)) error {
	on, err := c.Stat()
	if err != nil {
		return err
	}
	fn(on)
	last := on

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			on, err := c.Stat()
			if err != nil {
				return err
			}
			if on != last {
				last = on
				fn(on)
			}
		}
	}
}

// Interrupt sends the Ctrl-C byte. The server drops the session without a
// closing handshake, so the client is unusable afterwards.
func (c *Client) Interrupt() error {
	c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte{protocol.Interrupt}); err != nil {
		return fmt.Errorf("failed to send interrupt: %w", err)
	}
	return nil
}

// Close performs the closing handshake and releases the connection.
func (c *Client) Close() error {
	c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}

// writeLine sends one CRLF-terminated line in a text frame.
func (c *Client) writeLine(line string) error {
	c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(line+"\r\n")); err != nil {
		return fmt.Errorf("failed to send %q: %w", line, err)
	}
	return nil
}

// readLine returns the next complete line from the server, reading frames
// as needed. Lines and frames do not have to align.
func (c *Client) readLine() (string, error) {
	for len(c.pending) == 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.timeout))
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return "", fmt.Errorf("failed to read from server: %w", err)
		}
		if msgType != websocket.TextMessage {
			continue
		}
		lines, _, err := c.lines.Append(data)
		if err != nil {
			return "", fmt.Errorf("server line overflow: %w", err)
		}
		c.pending = append(c.pending, lines...)
	}

	line := c.pending[0]
	c.pending = c.pending[1:]
	return line, nil
}
