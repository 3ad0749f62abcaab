// Package server implements the two network faces of a webled endpoint.
//
// The server mirrors the firmware it stands in for: a minimal HTTP/1.0
// responder hands out the browser control panel, and a WebSocket command
// port runs a password-gated line protocol that drives the output
// peripheral. Both listeners accept plain TCP and every connection runs in
// its own goroutine.
//
// # HTTP Port
//
// The HTTP side serves exactly one GET request per connection and closes.
// Headers are read and discarded; the request path maps straight into the
// asset store, with "/" serving index.html. Non-GET methods answer 501,
// unknown resources 404, unparseable requests 400. Responses always carry
// Content-Type and Content-Length.
//
// # Command Port
//
// The WebSocket side performs the RFC 6455 upgrade by hand and then speaks
// a line protocol inside text frames:
//
//	server: Password:
//	client: <password>
//	server: WebREPL
//	client: STAT
//	server: UPDATE 0
//
// Line terminators are CR, LF, or CRLF, independent of frame boundaries.
// A Ctrl-C byte (0x03) anywhere in the stream ends the session outright.
// Authenticated lines go through a Handler, so command sets other than the
// stock LED one can reuse the transport.
//
// # Protocol Violations
//
// Client frames must be masked, unfragmented, and carry a text or control
// opcode. Violations close the session with a close frame: 1002 for
// protocol errors, 1009 for oversized frames or lines. Idle sessions are
// closed with 1001 after the configured read timeout.
//
// # Usage Example
//
//	settings := config.NewSettings()
//	settings.Auth.Password = "secret"
//
//	led := device.NewLED()
//	srv, err := server.New(settings, server.LEDHandler(led))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start blocks until shutdown signal or error
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// The server handles SIGINT and SIGTERM for graceful shutdown:
//  1. Withdraw the mDNS advertisement
//  2. Stop accepting new connections
//  3. Close established connections
//  4. Wait up to ten seconds for session goroutines to drain
//
// # Thread Safety
//
// The server is fully concurrent. Sessions never share state with each
// other; the only shared objects are the peripheral behind the Handler and
// the connection registry, both locked internally.
package server
