// Package logging provides structured logging for the webled server.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the server. It provides both general logging functions
// and specialized functions for protocol-specific logging needs.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (hex dumps, frame parsing, ping/pong)
//   - Info: Normal operations (connections, commands, state changes)
//   - Warn: Non-fatal issues (auth failures, missing resources, oversized lines)
//   - Error: Fatal issues (startup failures, critical errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Session authenticated",
//	    zap.String("remote_addr", "192.168.1.100"),
//	    zap.String("session_id", id),
//	)
//
// # Specialized Logging
//
// The package provides domain-specific logging functions:
//
// Connection Logging:
//
//	logging.LogConnection(remoteAddr, "connection_accepted")
//	logging.LogConnection(remoteAddr, "websocket_upgraded")
//	logging.LogConnection(remoteAddr, "session_closed")
//
// WebSocket Frame Logging:
//
//	logging.LogWebSocketFrame(remoteAddr, "received", opcode, payload)
//	logging.LogWebSocketFrame(remoteAddr, "sent", opcode, payload)
//
// Command Line Logging:
//
//	logging.LogSessionLine(remoteAddr, sessionID, "received", line)
//
// HTTP Logging:
//
//	logging.LogHTTPRequest(remoteAddr, method, path)
//	logging.LogHTTPResponse(remoteAddr, statusCode, contentType, size)
//
// # Configuration
//
// Initialize logging at server startup:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Output Format
//
// Logs are written to stdout in console format (human-readable):
//
//	2025-11-25T10:30:45.123-0800  INFO  Connection event
//	  remote_addr=192.168.1.100
//	  event=connection_accepted
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
