package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/webled/webled/internal/assets"
	"github.com/webled/webled/internal/config"
	"github.com/webled/webled/internal/discovery"
	"github.com/webled/webled/internal/logging"
)

// shutdownWait bounds how long Shutdown waits for sessions to drain.
const shutdownWait = 10 * time.Second

// Server runs the two listeners of a webled endpoint: the static panel
// port and the WebSocket command port.
type Server struct {
	settings *config.Settings
	handler  Handler
	store    assets.Store

	httpListener net.Listener
	wsListener   net.Listener
	announcer    *discovery.Announcer

	wg          sync.WaitGroup
	mu          sync.Mutex
	activeConns map[string]net.Conn
	hostConns   map[string]int
	closed      bool
}

// New creates a Server from validated settings and a command handler.
func New(settings *config.Settings, handler Handler) (*Server, error) {
	if settings == nil {
		return nil, fmt.Errorf("settings are required")
	}
	if handler == nil {
		return nil, fmt.Errorf("command handler is required")
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	// Initialize logging
	if err := logging.Initialize(settings.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	store, err := buildStore(settings.Server.WWWDir)
	if err != nil {
		return nil, err
	}

	return &Server{
		settings:    settings,
		handler:     handler,
		store:       store,
		activeConns: make(map[string]net.Conn),
		hostConns:   make(map[string]int),
	}, nil
}

// buildStore picks the static file source: a directory when configured,
// otherwise the embedded panel bundle.
func buildStore(dir string) (assets.Store, error) {
	if dir == "" {
		return assets.NewEmbeddedStore(), nil
	}
	return assets.NewDirStore(dir)
}

// Start runs the server and blocks until a shutdown signal or a listener
// failure.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}

	logging.Info("Starting webled server",
		zap.String("http_addr", s.HTTPAddr().String()),
		zap.String("ws_addr", s.WSAddr().String()),
		zap.String("log_level", s.settings.LogLevel),
	)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve()
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping server...")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Listen binds both listeners. Ports configured as zero come back with the
// OS-assigned port visible through HTTPAddr and WSAddr.
func (s *Server) Listen() error {
	httpListener, err := net.Listen("tcp", s.settings.Server.HTTPAddr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.settings.Server.HTTPAddr(), err)
	}

	wsListener, err := net.Listen("tcp", s.settings.Server.WSAddr())
	if err != nil {
		httpListener.Close()
		return fmt.Errorf("failed to listen on %s: %w", s.settings.Server.WSAddr(), err)
	}

	s.httpListener = httpListener
	s.wsListener = wsListener

	logging.Info("Server listening for connections",
		zap.String("http_addr", httpListener.Addr().String()),
		zap.String("ws_addr", wsListener.Addr().String()),
	)
	return nil
}

// HTTPAddr returns the bound address of the static file listener.
func (s *Server) HTTPAddr() net.Addr {
	if s.httpListener == nil {
		return nil
	}
	return s.httpListener.Addr()
}

// WSAddr returns the bound address of the WebSocket command listener.
func (s *Server) WSAddr() net.Addr {
	if s.wsListener == nil {
		return nil
	}
	return s.wsListener.Addr()
}

// Serve runs both accept loops until the listeners close. Listen must have
// been called. A hard failure on one listener closes the other.
func (s *Server) Serve() error {
	if s.httpListener == nil || s.wsListener == nil {
		return fmt.Errorf("server is not listening, call Listen first")
	}

	if s.settings.Discovery.Announce {
		if err := s.announce(); err != nil {
			logging.Warn("mDNS announce failed", zap.Error(err))
		}
	}

	errChan := make(chan error, 2)
	go func() {
		errChan <- s.acceptConnections(s.httpListener, "http", s.handleHTTPConn)
	}()
	go func() {
		errChan <- s.acceptConnections(s.wsListener, "websocket", s.handleWSConn)
	}()

	var firstErr error
	for i := 0; i < 2; i++ {
		if err := <-errChan; err != nil && firstErr == nil {
			firstErr = err
			s.closeListeners()
		}
	}
	return firstErr
}

// acceptConnections accepts and handles incoming connections on one listener
func (s *Server) acceptConnections(listener net.Listener, name string, handle func(net.Conn)) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			// Check if listener was closed (during shutdown)
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logging.Error("Failed to accept connection",
				zap.String("listener", name),
				zap.Error(err))
			continue
		}

		if !s.trackConn(conn) {
			conn.Close()
			continue
		}

		logging.LogConnection(conn.RemoteAddr().String(), "connection accepted")

		// Handle connection in goroutine
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrackConn(conn)
			handle(conn)
		}()
	}
}

// trackConn records an active connection. It refuses connections that race
// with shutdown so they cannot outlive the drain.
func (s *Server) trackConn(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.activeConns[conn.RemoteAddr().String()] = conn
	return true
}

func (s *Server) untrackConn(conn net.Conn) {
	remoteAddr := conn.RemoteAddr().String()
	s.mu.Lock()
	delete(s.activeConns, remoteAddr)
	s.mu.Unlock()
	logging.LogConnection(remoteAddr, "connection closed")
}

// reserveHost enforces the single session per host policy on the command
// port. It always succeeds when the policy is off.
func (s *Server) reserveHost(remoteAddr string) bool {
	if !s.settings.Server.SingleClientPerHost {
		return true
	}

	host := remoteHost(remoteAddr)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hostConns[host] > 0 {
		return false
	}
	s.hostConns[host]++
	return true
}

// releaseHost frees the slot taken by reserveHost. Only call it after a
// successful reservation.
func (s *Server) releaseHost(remoteAddr string) {
	if !s.settings.Server.SingleClientPerHost {
		return
	}

	host := remoteHost(remoteAddr)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hostConns[host] > 1 {
		s.hostConns[host]--
	} else {
		delete(s.hostConns, host)
	}
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// announce registers the command port over mDNS using the bound port, so
// ephemeral ports advertise correctly.
func (s *Server) announce() error {
	wsAddr, ok := s.wsListener.Addr().(*net.TCPAddr)
	if !ok {
		return fmt.Errorf("cannot announce non-TCP listener %v", s.wsListener.Addr())
	}
	httpPort := 0
	if httpAddr, ok := s.httpListener.Addr().(*net.TCPAddr); ok {
		httpPort = httpAddr.Port
	}

	announcer := discovery.NewAnnouncer(s.settings.Discovery.Instance, wsAddr.Port, httpPort)
	if err := announcer.Register(); err != nil {
		return err
	}
	s.announcer = announcer

	logging.Info("mDNS advertisement registered",
		zap.String("instance", s.settings.Discovery.Instance),
		zap.String("service", discovery.ServiceType),
		zap.Int("port", wsAddr.Port),
	)
	return nil
}

func (s *Server) closeListeners() {
	if s.httpListener != nil {
		s.httpListener.Close()
	}
	if s.wsListener != nil {
		s.wsListener.Close()
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if s.announcer != nil {
		s.announcer.Shutdown()
		s.announcer = nil
	}

	// Close listeners to stop accepting new connections
	s.closeListeners()

	// Close all active connections
	s.mu.Lock()
	s.closed = true
	for addr, conn := range s.activeConns {
		logging.Info("Closing active connection", zap.String("remote_addr", addr))
		_ = conn.Close()
	}
	s.mu.Unlock()

	// Wait for all goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	case <-time.After(shutdownWait):
		logging.Warn("Shutdown timeout, forcing close",
			zap.Duration("waited", shutdownWait))
	}

	// Sync logger
	logging.Sync()

	return nil
}

// GetActiveConnections returns the number of active connections
func (s *Server) GetActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}
