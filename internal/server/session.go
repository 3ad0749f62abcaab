package server

import (
	"bufio"
	"crypto/subtle"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/webled/webled/internal/config"
	"github.com/webled/webled/internal/logging"
	"github.com/webled/webled/internal/protocol"
)

// handshakeWait bounds how long a fresh connection may take to present its
// upgrade request.
const handshakeWait = 10 * time.Second

// session is one authenticated (or authenticating) command connection after
// the WebSocket upgrade.
type session struct {
	id         string
	srv        *Server
	conn       net.Conn
	reader     *bufio.Reader
	remoteAddr string
	lines      *protocol.LineBuffer
	authed     bool
}

// handleWSConn upgrades a raw connection to WebSocket and runs the command
// session until the client disconnects or violates the protocol.
func (s *Server) handleWSConn(conn net.Conn) {
	defer conn.Close()
	remoteAddr := conn.RemoteAddr().String()

	if !s.reserveHost(remoteAddr) {
		logging.LogConnection(remoteAddr, "rejected, host already has a session")
		return
	}
	defer s.releaseHost(remoteAddr)

	// Frames may follow the upgrade request in the same buffer, so the
	// reader created for the handshake stays with the session.
	reader := bufio.NewReader(conn)

	conn.SetReadDeadline(time.Now().Add(handshakeWait))
	req, err := http.ReadRequest(reader)
	if err != nil {
		logging.Warn("Failed to read upgrade request",
			zap.String("remote_addr", remoteAddr),
			zap.Error(err))
		return
	}

	key, err := protocol.ValidateUpgrade(req)
	if err != nil {
		logging.Warn("Rejecting upgrade request",
			zap.String("remote_addr", remoteAddr),
			zap.Error(err))
		conn.SetWriteDeadline(time.Now().Add(s.settings.Limits.WriteTimeout()))
		conn.Write(protocol.RejectResponse())
		return
	}

	conn.SetWriteDeadline(time.Now().Add(s.settings.Limits.WriteTimeout()))
	if _, err := conn.Write(protocol.UpgradeResponse(protocol.ComputeAcceptKey(key))); err != nil {
		logging.Warn("Failed to write upgrade response",
			zap.String("remote_addr", remoteAddr),
			zap.Error(err))
		return
	}

	sess := &session{
		id:         uuid.NewString(),
		srv:        s,
		conn:       conn,
		reader:     reader,
		remoteAddr: remoteAddr,
		lines:      protocol.NewLineBuffer(s.settings.Limits.MaxLineLength),
	}

	logging.Info("WebSocket session established",
		zap.String("remote_addr", remoteAddr),
		zap.String("session_id", sess.id))

	sess.run()

	logging.Info("WebSocket session ended",
		zap.String("remote_addr", remoteAddr),
		zap.String("session_id", sess.id))
}

// run sends the password prompt and processes frames until the session ends.
func (sess *session) run() {
	limits := sess.srv.settings.Limits

	if err := sess.writeLine(protocol.PasswordPrompt); err != nil {
		return
	}

	for {
		sess.conn.SetReadDeadline(time.Now().Add(limits.IdleReadTimeout()))
		frame, err := protocol.ReadFrame(sess.reader, limits.MaxFramePayload)
		if err != nil {
			sess.closeOnError(err)
			return
		}

		logging.LogWebSocketFrame(sess.remoteAddr, "recv", frame.Opcode, frame.Payload)

		if err := frame.ValidateClient(); err != nil {
			sess.closeOnError(err)
			return
		}

		switch frame.Opcode {
		case protocol.OpcodeClose:
			code, _ := protocol.DecodeClosePayload(frame.Payload)
			sess.writeControl(protocol.OpcodeClose, protocol.EncodeClosePayload(code, ""))
			logging.LogConnection(sess.remoteAddr, "close frame received")
			return

		case protocol.OpcodePing:
			if err := sess.writeControl(protocol.OpcodePong, frame.Payload); err != nil {
				return
			}

		case protocol.OpcodePong:
			// Unsolicited pong, nothing to do

		case protocol.OpcodeText:
			if done := sess.consume(frame.Payload); done {
				return
			}
		}
	}
}

// consume feeds a text payload into the line buffer and handles every
// completed line. It reports whether the session is over.
func (sess *session) consume(payload []byte) bool {
	lines, interrupted, err := sess.lines.Append(payload)
	if err != nil {
		sess.closeOnError(err)
		return true
	}

	for _, line := range lines {
		if done := sess.handleLine(line); done {
			return true
		}
	}

	if interrupted {
		logging.LogConnection(sess.remoteAddr, "interrupt received")
		return true
	}
	return false
}

// handleLine routes one completed line through the password gate or the
// command handler. It reports whether the session is over.
func (sess *session) handleLine(line string) bool {
	if !sess.authed {
		return sess.handleAuth(line)
	}

	logging.LogSessionLine(sess.remoteAddr, sess.id, "recv", line)

	cmd := protocol.ParseCommand(line)
	reply := sess.srv.handler(cmd)
	if reply == "" {
		return false
	}
	return sess.writeLine(reply) != nil
}

// handleAuth treats one line as a password attempt.
func (sess *session) handleAuth(line string) bool {
	if sess.srv.passwordMatches(line) {
		sess.authed = true
		logging.Info("Session authenticated",
			zap.String("remote_addr", sess.remoteAddr),
			zap.String("session_id", sess.id))
		return sess.writeLine(protocol.Greeting) != nil
	}

	logging.Warn("Authentication failed",
		zap.String("remote_addr", sess.remoteAddr),
		zap.String("session_id", sess.id))

	if sess.srv.settings.Auth.OnFailure == config.AuthFailureDisconnect {
		return true
	}
	return sess.writeLine(protocol.PasswordPrompt) != nil
}

// writeLine sends one CRLF-terminated line in a text frame.
func (sess *session) writeLine(line string) error {
	payload := []byte(line + "\r\n")

	sess.conn.SetWriteDeadline(time.Now().Add(sess.srv.settings.Limits.WriteTimeout()))
	if err := protocol.WriteFrame(sess.conn, protocol.OpcodeText, payload); err != nil {
		logging.Warn("Failed to write text frame",
			zap.String("remote_addr", sess.remoteAddr),
			zap.Error(err))
		return err
	}

	logging.LogSessionLine(sess.remoteAddr, sess.id, "send", line)
	return nil
}

// writeControl sends a control frame.
func (sess *session) writeControl(opcode byte, payload []byte) error {
	sess.conn.SetWriteDeadline(time.Now().Add(sess.srv.settings.Limits.WriteTimeout()))
	if err := protocol.WriteFrame(sess.conn, opcode, payload); err != nil {
		logging.Warn("Failed to write control frame",
			zap.String("remote_addr", sess.remoteAddr),
			zap.Error(err))
		return err
	}

	logging.LogWebSocketFrame(sess.remoteAddr, "send", opcode, payload)
	return nil
}

// closeOnError ends the session after a read or protocol failure. Peer
// disconnects close silently, idle timeouts announce going away, protocol
// violations carry their close code.
func (sess *session) closeOnError(err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		logging.LogConnection(sess.remoteAddr, "connection closed by peer")
		return
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		logging.LogConnection(sess.remoteAddr, "idle timeout")
		sess.writeControl(protocol.OpcodeClose,
			protocol.EncodeClosePayload(protocol.CloseGoingAway, "idle timeout"))
		return
	}

	logging.Warn("Closing session on protocol error",
		zap.String("remote_addr", sess.remoteAddr),
		zap.Error(err))
	sess.writeControl(protocol.OpcodeClose,
		protocol.EncodeClosePayload(protocol.CloseCodeFor(err), ""))
}

// passwordMatches compares a password attempt in constant time.
func (s *Server) passwordMatches(attempt string) bool {
	return subtle.ConstantTimeCompare([]byte(attempt), []byte(s.settings.Auth.Password)) == 1
}
