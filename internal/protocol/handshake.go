package protocol

import (
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// websocketGUID is the fixed GUID appended to the client key when computing
// the accept key (RFC6455 section 4.2.2).
const websocketGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// ComputeAcceptKey derives the Sec-WebSocket-Accept value for a client's
// Sec-WebSocket-Key: base64 of the SHA-1 of the key concatenated with the
// protocol GUID.
func ComputeAcceptKey(secKey string) string {
	hash := sha1.Sum([]byte(secKey + websocketGUID))
	return base64.StdEncoding.EncodeToString(hash[:])
}

// ValidateUpgrade checks if the incoming HTTP request is a valid WebSocket
// upgrade and returns the client's Sec-WebSocket-Key.
func ValidateUpgrade(req *http.Request) (string, error) {
	// Check method
	if req.Method != "GET" {
		return "", fmt.Errorf("%w: invalid method %s (expected GET)", ErrHandshakeRejected, req.Method)
	}

	// Check Upgrade header
	upgrade := strings.ToLower(req.Header.Get("Upgrade"))
	if upgrade != "websocket" {
		return "", fmt.Errorf("%w: invalid Upgrade header %q (expected websocket)", ErrHandshakeRejected, upgrade)
	}

	// Check Connection header
	connection := strings.ToLower(req.Header.Get("Connection"))
	if !strings.Contains(connection, "upgrade") {
		return "", fmt.Errorf("%w: invalid Connection header %q (expected upgrade)", ErrHandshakeRejected, connection)
	}

	// Check Sec-WebSocket-Version
	version := req.Header.Get("Sec-WebSocket-Version")
	if version != "13" {
		return "", fmt.Errorf("%w: invalid Sec-WebSocket-Version %q (expected 13)", ErrHandshakeRejected, version)
	}

	// Sec-WebSocket-Key is required
	key := req.Header.Get("Sec-WebSocket-Key")
	if key == "" {
		return "", fmt.Errorf("%w: missing Sec-WebSocket-Key header", ErrHandshakeRejected)
	}

	return key, nil
}

// UpgradeResponse builds the exact HTTP 101 response bytes for a validated
// upgrade request.
func UpgradeResponse(acceptKey string) []byte {
	response := "HTTP/1.1 101 Switching Protocols\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: " + acceptKey + "\r\n" +
		"\r\n"
	return []byte(response)
}

// RejectResponse builds the HTTP 400 response bytes sent when an upgrade
// request fails validation.
func RejectResponse() []byte {
	body := "Bad Request"
	response := "HTTP/1.1 400 Bad Request\r\n" +
		"Content-Type: text/plain\r\n" +
		fmt.Sprintf("Content-Length: %d\r\n", len(body)) +
		"\r\n" +
		body
	return []byte(response)
}
