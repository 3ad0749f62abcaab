package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/webled/webled/internal/config"
	"github.com/webled/webled/internal/device"
	"github.com/webled/webled/internal/server"
)

// startServer runs a full server on ephemeral loopback ports and returns
// the peripheral it drives plus the command port URL.
func startServer(t *testing.T, configure func(*config.Settings)) (*device.LED, string) {
	t.Helper()

	settings := config.NewSettings()
	settings.Server.Host = "127.0.0.1"
	settings.Server.HTTPPort = 0
	settings.Server.WSPort = 0
	settings.Auth.Password = "secret"
	if configure != nil {
		configure(settings)
	}

	led := device.NewLED()
	srv, err := server.New(settings, server.LEDHandler(led))
	if err != nil {
		t.Fatalf("server.New() error = %v", err)
	}
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

	return led, "ws://" + srv.WSAddr().String()
}

func dialServer(t *testing.T, url, password string) *Client {
	t.Helper()
	c, err := Dial(Options{URL: url, Password: password, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestDialRequiresURL(t *testing.T) {
	if _, err := Dial(Options{}); err == nil {
		t.Fatal("Dial() without a URL should fail")
	}
}

func TestClientCommandRoundTrip(t *testing.T) {
	led, url := startServer(t, nil)
	c := dialServer(t, url, "secret")

	on, err := c.Stat()
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if on {
		t.Error("Stat() = on, want off at startup")
	}

	on, err = c.On()
	if err != nil {
		t.Fatalf("On() error = %v", err)
	}
	if !on {
		t.Error("On() reported off")
	}
	if !led.ReadState() {
		t.Error("On() did not reach the peripheral")
	}

	on, err = c.Off()
	if err != nil {
		t.Fatalf("Off() error = %v", err)
	}
	if on {
		t.Error("Off() reported on")
	}
	if led.ReadState() {
		t.Error("Off() did not reach the peripheral")
	}
}

func TestClientRawUnknownCommand(t *testing.T) {
	_, url := startServer(t, nil)
	c := dialServer(t, url, "secret")

	reply, err := c.Raw("BLINK 3")
	if err != nil {
		t.Fatalf("Raw() error = %v", err)
	}
	if reply != "UNKNOWN REQUEST: BLINK 3" {
		t.Errorf("Raw() reply = %q, want %q", reply, "UNKNOWN REQUEST: BLINK 3")
	}
}

func TestClientBadPassword(t *testing.T) {
	_, url := startServer(t, nil)

	_, err := Dial(Options{URL: url, Password: "wrong", Timeout: 5 * time.Second})
	if !errors.Is(err, ErrBadPassword) {
		t.Fatalf("Dial() error = %v, want ErrBadPassword", err)
	}
}

func TestClientBadPasswordDisconnectPolicy(t *testing.T) {
	_, url := startServer(t, func(s *config.Settings) {
		s.Auth.OnFailure = config.AuthFailureDisconnect
	})

	if _, err := Dial(Options{URL: url, Password: "wrong", Timeout: 5 * time.Second}); err == nil {
		t.Fatal("Dial() with a rejected password should fail")
	}
}

func TestClientEmptyPassword(t *testing.T) {
	_, url := startServer(t, func(s *config.Settings) {
		s.Auth.Password = ""
	})

	c := dialServer(t, url, "")
	if _, err := c.Stat(); err != nil {
		t.Fatalf("Stat() after empty password auth error = %v", err)
	}
}

func TestClientWatch(t *testing.T) {
	_, url := startServer(t, nil)
	watcher := dialServer(t, url, "secret")
	driver := dialServer(t, url, "secret")

	states := make(chan bool, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watchDone := make(chan error, 1)
	go func() {
		watchDone <- watcher.Watch(ctx, 20*time.Millisecond, func(on bool) {
			states <- on
		})
	}()

	if got := recvState(t, states); got {
		t.Error("initial watch state = on, want off")
	}

	if _, err := driver.On(); err != nil {
		t.Fatalf("On() error = %v", err)
	}
	if got := recvState(t, states); !got {
		t.Error("watch missed the switch to on")
	}

	cancel()
	if err := <-watchDone; !errors.Is(err, context.Canceled) {
		t.Errorf("Watch() error = %v, want context.Canceled", err)
	}
}

func recvState(t *testing.T, states <-chan bool) bool {
	t.Helper()
	select {
	case on := <-states:
		return on
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a watch callback")
		return false
	}
}

func TestClientInterrupt(t *testing.T) {
	_, url := startServer(t, nil)
	c := dialServer(t, url, "secret")

	if err := c.Interrupt(); err != nil {
		t.Fatalf("Interrupt() error = %v", err)
	}

	if _, err := c.Stat(); err == nil {
		t.Fatal("Stat() after interrupt should fail, the session is gone")
	}
}
