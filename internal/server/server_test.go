package server

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/webled/webled/internal/config"
	"github.com/webled/webled/internal/device"
	"github.com/webled/webled/internal/protocol"
)

// startTestServer binds ephemeral loopback ports, runs the accept loops,
// and shuts the server down at cleanup.
func startTestServer(t *testing.T, settings *config.Settings, handler Handler) *Server {
	t.Helper()

	srv := newTestServer(t, settings, handler)
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Serve() }()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
		if err := <-serveDone; err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	})
	return srv
}

// dialTCP connects to one of the server's listeners.
func dialTCP(t *testing.T, addr net.Addr) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("failed to dial %s: %v", addr, err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestNewValidatesArguments(t *testing.T) {
	if _, err := New(nil, LEDHandler(device.NewLED())); err == nil {
		t.Error("New() accepted nil settings")
	}
	if _, err := New(newTestSettings(), nil); err == nil {
		t.Error("New() accepted a nil handler")
	}

	settings := newTestSettings()
	settings.Auth.OnFailure = "bogus"
	if _, err := New(settings, LEDHandler(device.NewLED())); err == nil {
		t.Error("New() accepted invalid settings")
	}
}

func TestServeRequiresListen(t *testing.T) {
	srv := newTestServer(t, newTestSettings(), nil)
	if err := srv.Serve(); err == nil {
		t.Fatal("Serve() without Listen() should fail")
	}
}

func TestServerServesHTTPOverTCP(t *testing.T) {
	srv := startTestServer(t, newTestSettings(), nil)

	conn := dialTCP(t, srv.HTTPAddr())
	if _, err := conn.Write([]byte("GET / HTTP/1.0\r\n\r\n")); err != nil {
		t.Fatalf("failed to write request: %v", err)
	}

	response, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if !strings.HasPrefix(string(response), "HTTP/1.0 200 OK\r\n") {
		t.Errorf("response = %q, want 200", response)
	}
}

func TestServerRunsSessionsOverTCP(t *testing.T) {
	led := device.NewLED()
	srv := startTestServer(t, newTestSettings(), LEDHandler(led))

	conn := dialTCP(t, srv.WSAddr())
	c := &wsClient{t: t, conn: conn, r: bufio.NewReader(conn)}

	c.handshake()
	c.authenticate("secret")

	c.sendText("LED_ON\r\n")
	c.expectLine("UPDATE 1")
	if !led.ReadState() {
		t.Error("LED_ON did not reach the peripheral")
	}

	if got := srv.GetActiveConnections(); got != 1 {
		t.Errorf("GetActiveConnections() = %d, want 1", got)
	}

	conn.Close()
	waitForConnections(t, srv, 0)
}

func waitForConnections(t *testing.T, srv *Server, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if srv.GetActiveConnections() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("GetActiveConnections() = %d, want %d", srv.GetActiveConnections(), want)
}

func TestServerSingleClientPerHost(t *testing.T) {
	settings := newTestSettings()
	settings.Server.SingleClientPerHost = true
	srv := startTestServer(t, settings, nil)

	first := dialTCP(t, srv.WSAddr())
	c := &wsClient{t: t, conn: first, r: bufio.NewReader(first)}
	c.handshake()
	c.expectLine(protocol.PasswordPrompt)

	// A second connection from the same host is dropped before the upgrade
	second := dialTCP(t, srv.WSAddr())
	second.Write([]byte(testUpgradeRequest))
	data, _ := io.ReadAll(second)
	if len(data) != 0 {
		t.Errorf("second connection received %q, want nothing", data)
	}

	// The surviving session is unaffected
	c.sendText("secret\r\n")
	c.expectLine(protocol.Greeting)
}

func TestReserveHost(t *testing.T) {
	settings := newTestSettings()
	settings.Server.SingleClientPerHost = true
	srv := newTestServer(t, settings, nil)

	if !srv.reserveHost("10.0.0.1:5000") {
		t.Fatal("first reservation for a host failed")
	}
	if srv.reserveHost("10.0.0.1:6000") {
		t.Error("second reservation for the same host succeeded")
	}
	if !srv.reserveHost("10.0.0.2:5000") {
		t.Error("reservation for a different host failed")
	}

	srv.releaseHost("10.0.0.1:5000")
	if !srv.reserveHost("10.0.0.1:7000") {
		t.Error("reservation after release failed")
	}
}

func TestReserveHostPolicyOff(t *testing.T) {
	srv := newTestServer(t, newTestSettings(), nil)

	if !srv.reserveHost("10.0.0.1:5000") || !srv.reserveHost("10.0.0.1:6000") {
		t.Error("reservations must always succeed with the policy off")
	}
}

func TestServerShutdownClosesSessions(t *testing.T) {
	srv := newTestServer(t, newTestSettings(), nil)
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Serve() }()

	conn := dialTCP(t, srv.WSAddr())
	c := &wsClient{t: t, conn: conn, r: bufio.NewReader(conn)}
	c.handshake()
	c.expectLine(protocol.PasswordPrompt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	if err := <-serveDone; err != nil {
		t.Errorf("Serve() after shutdown = %v, want nil", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := c.r.ReadByte(); err == nil {
		t.Error("session connection still open after shutdown")
	}

	waitForConnections(t, srv, 0)
}

func TestServerListenPortConflict(t *testing.T) {
	srv := startTestServer(t, newTestSettings(), nil)

	settings := newTestSettings()
	settings.Server.HTTPPort = srv.HTTPAddr().(*net.TCPAddr).Port

	other := newTestServer(t, settings, nil)
	if err := other.Listen(); err == nil {
		other.closeListeners()
		t.Fatal("Listen() succeeded on a port already in use")
	}
}
