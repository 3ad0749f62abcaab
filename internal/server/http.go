package server

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/webled/webled/internal/assets"
	"github.com/webled/webled/internal/logging"
)

// maxRequestHead bounds the request line plus headers of one HTTP request.
const maxRequestHead = 16384

// handleHTTPConn serves exactly one HTTP/1.0 request and closes the
// connection. Only GET is implemented; headers are read and discarded.
func (s *Server) handleHTTPConn(conn net.Conn) {
	defer conn.Close()
	remoteAddr := conn.RemoteAddr().String()

	conn.SetDeadline(time.Now().Add(s.settings.Limits.IdleReadTimeout()))
	reader := bufio.NewReader(io.LimitReader(conn, maxRequestHead))

	method, target, err := readRequestLine(reader)
	if err != nil {
		logging.Warn("Malformed HTTP request line",
			zap.String("remote_addr", remoteAddr),
			zap.Error(err))
		s.writeHTTPResponse(conn, remoteAddr, 400, "text/plain", []byte("Bad Request"))
		return
	}

	logging.LogHTTPRequest(remoteAddr, method, target)

	if err := discardHeaders(reader); err != nil {
		logging.Warn("Failed to read HTTP headers",
			zap.String("remote_addr", remoteAddr),
			zap.Error(err))
		return
	}

	if method != "GET" {
		s.writeHTTPResponse(conn, remoteAddr, 501, "text/plain", []byte("Not Implemented"))
		return
	}

	name := resourceName(target)
	data, err := s.store.Resolve(name)
	if err != nil {
		logging.Warn("Resource not found",
			zap.String("remote_addr", remoteAddr),
			zap.String("path", target))
		s.writeHTTPResponse(conn, remoteAddr, 404, "text/plain", []byte("Not Found"))
		return
	}

	s.writeHTTPResponse(conn, remoteAddr, 200, assets.ContentType(name), data)
}

// readRequestLine parses "METHOD TARGET VERSION" from the first line.
func readRequestLine(reader *bufio.Reader) (method, target string, err error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("failed to read request line: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")

	fields := strings.Fields(line)
	if len(fields) != 3 {
		return "", "", fmt.Errorf("malformed request line: %q", line)
	}
	if !strings.HasPrefix(fields[2], "HTTP/") {
		return "", "", fmt.Errorf("malformed HTTP version: %q", fields[2])
	}

	return fields[0], fields[1], nil
}

// discardHeaders reads header lines up to and including the blank line.
func discardHeaders(reader *bufio.Reader) error {
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read header line: %w", err)
		}
		if line == "\r\n" || line == "\n" {
			return nil
		}
	}
}

// resourceName maps a request target to a store path. The query string is
// ignored and the root path serves the panel page.
func resourceName(target string) string {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		target = target[:i]
	}
	if target == "" || target == "/" {
		target = "/index.html"
	}
	return strings.TrimPrefix(target, "/")
}

// writeHTTPResponse writes a complete HTTP/1.0 response with Content-Type
// and Content-Length headers.
func (s *Server) writeHTTPResponse(conn net.Conn, remoteAddr string, status int, contentType string, body []byte) {
	conn.SetWriteDeadline(time.Now().Add(s.settings.Limits.WriteTimeout()))

	head := fmt.Sprintf("HTTP/1.0 %d %s\r\n"+
		"Content-Type: %s\r\n"+
		"Content-Length: %d\r\n"+
		"\r\n",
		status, statusReason(status), contentType, len(body))

	if _, err := conn.Write(append([]byte(head), body...)); err != nil {
		logging.Warn("Failed to write HTTP response",
			zap.String("remote_addr", remoteAddr),
			zap.Error(err))
		return
	}

	logging.LogHTTPResponse(remoteAddr, status, contentType, len(body))
}

// statusReason returns the reason phrase for the status codes this server
// emits.
func statusReason(status int) string {
	switch status {
	case 200:
		return "OK"
	case 400:
		return "Bad Request"
	case 404:
		return "Not Found"
	case 501:
		return "Not Implemented"
	default:
		return "Internal Server Error"
	}
}
